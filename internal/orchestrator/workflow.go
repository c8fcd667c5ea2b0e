package orchestrator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"workforce/internal/logging"
)

// workflowContext accumulates each step's labeled output as a sequential
// chain executes. It lives for exactly one chain.
type workflowContext struct {
	steps []workflowStep
}

type workflowStep struct {
	name   string
	output string
	failed bool
}

// stepHeader labels one step's output block inside prompts and reports.
func stepHeader(name string) string {
	return fmt.Sprintf("=== %s OUTPUT ===", name)
}

var stepHeaderRe = regexp.MustCompile(`(?m)^=== (.+) OUTPUT ===$`)

// transcript renders every completed step as labeled blocks in execution
// order.
func (w *workflowContext) transcript() string {
	var b strings.Builder
	for i, step := range w.steps {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(stepHeader(step.name))
		b.WriteString("\n")
		b.WriteString(step.output)
	}
	return b.String()
}

// dispatchChain runs the agents in order. Each step after the first sees
// the full transcript of prior outputs. A failing step is recorded with an
// error marker and the chain continues, so the composite report always
// covers every step.
func (o *Orchestrator) dispatchChain(ctx context.Context, agents []string, description, userPrompt string) string {
	var unknown []string
	for _, agent := range agents {
		if !o.roster.Has(agent) {
			unknown = append(unknown, agent)
		}
	}
	if len(unknown) > 0 {
		return fmt.Sprintf("Error: Invalid agents in workflow: %s", strings.Join(unknown, ", "))
	}

	wc := &workflowContext{}
	for i, agent := range agents {
		output, failed := o.runChainStep(ctx, agent, i, len(agents), description, userPrompt, wc)
		wc.steps = append(wc.steps, workflowStep{name: agent, output: output, failed: failed})
	}

	return o.compositeReport(agents, description, wc)
}

// runChainStep executes one step of the chain and reports whether it
// failed.
func (o *Orchestrator) runChainStep(ctx context.Context, agent string, index, total int, description, userPrompt string, wc *workflowContext) (string, bool) {
	spec, _ := o.roster.Get(agent)
	prompt := chainStepPrompt(index, total, description, userPrompt, wc)

	if spec.Document {
		return o.dispatchDocument(ctx, spec, prompt), false
	}

	logging.Workflow("Chain step %d/%d: %s", index+1, total, agent)
	reply, err := o.client.CompleteWithSystem(ctx, spec.Instructions, prompt)
	if err != nil {
		return fmt.Sprintf("[STEP FAILED] Error: Agent %s failed to process the task - %v", agent, err), true
	}
	return reply, false
}

// chainStepPrompt builds the prompt one step sees: the original request,
// the plan, and for later steps the transcript of everything before them.
func chainStepPrompt(index, total int, description, userPrompt string, wc *workflowContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Original user request: %s\n", userPrompt)
	fmt.Fprintf(&b, "Workflow plan: %s\n", description)
	fmt.Fprintf(&b, "You are step %d of %d in this workflow.\n", index+1, total)

	if index > 0 {
		b.WriteString("\nPrevious step outputs:\n\n")
		b.WriteString(wc.transcript())
		b.WriteString("\n\nBuild on the previous outputs to perform your part of the workflow.")
	} else {
		b.WriteString("\nPerform your part of the workflow on the request above.")
	}
	return b.String()
}

// compositeReport lists every step's name and output in execution order,
// errored steps included.
func (o *Orchestrator) compositeReport(agents []string, description string, wc *workflowContext) string {
	var b strings.Builder
	b.WriteString("Multi-Agent Workflow Results\n")
	fmt.Fprintf(&b, "Workflow: %s\n", strings.Join(agents, " -> "))
	fmt.Fprintf(&b, "Plan: %s\n\n", description)
	b.WriteString(wc.transcript())
	return b.String()
}
