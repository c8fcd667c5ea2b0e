// Package routing turns the classifier's raw reply into a structured
// dispatch decision. Parsing is deterministic and tolerant of the model
// wrapping the recognized lines in extra commentary.
package routing

import (
	"fmt"
	"strings"
)

// Kind discriminates the decision variants.
type Kind int

const (
	// KindSingle dispatches to one named specialist.
	KindSingle Kind = iota
	// KindMulti dispatches sequentially through an ordered agent chain.
	KindMulti
	// KindNone means no specialist fits the request.
	KindNone
	// KindMalformed means the reply matched no recognized form.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindMulti:
		return "multi"
	case KindNone:
		return "none"
	case KindMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DefaultWorkflowDescription is used when a MULTI reply carries no
// WORKFLOW line.
const DefaultWorkflowDescription = "Multi-step workflow"

// Decision is one parsed routing decision. Only the fields for the active
// Kind are populated. Decisions are transient; only the Label projection
// is ever persisted.
type Decision struct {
	Kind Kind

	// Agent is the target for KindSingle.
	Agent string

	// Agents and Description describe a KindMulti chain.
	Agents      []string
	Description string

	// Message explains a KindNone rejection or why parsing failed.
	Message string

	// Raw preserves the original reply verbatim for KindMalformed.
	Raw string
}

// Label projects the decision onto the route label persisted with a
// conversation record. Malformed decisions collapse to the "None" sentinel
// so raw unparseable text never reaches storage.
func (d Decision) Label() string {
	switch d.Kind {
	case KindSingle:
		return d.Agent
	case KindMulti:
		return "Multi-agent workflow: " + strings.Join(d.Agents, " -> ")
	default:
		return "None"
	}
}

const (
	prefixSingle   = "SINGLE:"
	prefixMulti    = "MULTI:"
	prefixWorkflow = "WORKFLOW:"
	prefixNone     = "NONE:"
)

// Parse converts a raw classifier reply into a Decision. known reports
// whether a name is a registered specialist; it backs the legacy path where
// older prompts made the classifier reply with a bare agent name.
//
// The scan is line-oriented. The first line carrying a recognized prefix
// decides the variant, so commentary before or after the decision lines is
// ignored. A WORKFLOW line with no MULTI line anywhere is malformed, as is
// a MULTI line with an empty agent list.
func Parse(raw string, known func(string) bool) Decision {
	lines := strings.Split(raw, "\n")

	sawWorkflow := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, prefixSingle):
			agent := strings.TrimSpace(strings.TrimPrefix(trimmed, prefixSingle))
			return Decision{Kind: KindSingle, Agent: agent}

		case strings.HasPrefix(trimmed, prefixMulti):
			return parseMulti(trimmed, lines[i+1:], raw)

		case strings.HasPrefix(trimmed, prefixNone):
			msg := strings.TrimSpace(strings.TrimPrefix(trimmed, prefixNone))
			return Decision{Kind: KindNone, Message: msg}

		case strings.HasPrefix(trimmed, prefixWorkflow):
			sawWorkflow = true
		}
	}

	if sawWorkflow {
		return Decision{
			Kind:    KindMalformed,
			Message: "workflow description present without a MULTI agent list",
			Raw:     raw,
		}
	}

	// Legacy compatibility: older classifier prompts replied with the bare
	// specialist name and nothing else.
	if bare := strings.TrimSpace(raw); known != nil && known(bare) {
		return Decision{Kind: KindSingle, Agent: bare}
	}

	return Decision{Kind: KindMalformed, Message: "unrecognized decision format", Raw: raw}
}

// parseMulti parses the agent chain from a MULTI line and scans the
// remaining lines for an optional WORKFLOW description.
func parseMulti(multiLine string, rest []string, raw string) Decision {
	spec := strings.TrimSpace(strings.TrimPrefix(multiLine, prefixMulti))

	var agents []string
	for _, tok := range strings.Split(spec, "->") {
		if tok = strings.TrimSpace(tok); tok != "" {
			agents = append(agents, tok)
		}
	}
	if len(agents) == 0 {
		return Decision{
			Kind:    KindMalformed,
			Message: "MULTI decision carries no agent names",
			Raw:     raw,
		}
	}

	description := DefaultWorkflowDescription
	for _, line := range rest {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, prefixWorkflow) {
			if desc := strings.TrimSpace(strings.TrimPrefix(trimmed, prefixWorkflow)); desc != "" {
				description = desc
			}
			break
		}
	}

	return Decision{Kind: KindMulti, Agents: agents, Description: description}
}
