// Package roster defines the named specialists the orchestrator can dispatch
// to. The roster is an explicit value passed into the orchestrator and the
// decision parser at construction time, never a process-wide singleton.
package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"workforce/internal/logging"
)

// Specialist is one named prompt template a task can be delegated to.
type Specialist struct {
	// Name is the exact label the classifier must reply with.
	Name string `yaml:"name"`

	// Handoff is the one-line capability summary shown to the classifier.
	Handoff string `yaml:"handoff"`

	// Instructions is the system prompt used when dispatching to this
	// specialist.
	Instructions string `yaml:"instructions"`

	// Document marks the document-producing route, which gets special
	// post-processing in the orchestrator.
	Document bool `yaml:"document,omitempty"`
}

// Roster is the set of known specialists, preserving definition order.
type Roster struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]Specialist
}

// New builds a roster from the given specialists. Duplicate names are
// rejected: the classifier protocol depends on names being unambiguous.
func New(specialists []Specialist) (*Roster, error) {
	r := &Roster{byName: make(map[string]Specialist, len(specialists))}
	for _, s := range specialists {
		if s.Name == "" {
			return nil, fmt.Errorf("specialist with empty name")
		}
		if _, exists := r.byName[s.Name]; exists {
			return nil, fmt.Errorf("duplicate specialist name: %q", s.Name)
		}
		r.order = append(r.order, s.Name)
		r.byName[s.Name] = s
	}
	return r, nil
}

// rosterFile is the YAML schema for specialist definitions.
type rosterFile struct {
	Specialists []Specialist `yaml:"specialists"`
}

// LoadFile loads specialist definitions from a YAML file.
func LoadFile(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var rf rosterFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}
	if len(rf.Specialists) == 0 {
		return nil, fmt.Errorf("roster file %s defines no specialists", path)
	}

	r, err := New(rf.Specialists)
	if err != nil {
		return nil, err
	}

	logging.Boot("Loaded %d specialists from %s", len(rf.Specialists), path)
	return r, nil
}

// DefaultPath returns where a workspace keeps its roster override file.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".workforce", "specialists.yaml")
}

// Load returns the roster from path if it exists, otherwise the built-in
// default roster.
func Load(path string) (*Roster, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(Defaults())
}

// Get returns the specialist with the given name.
func (r *Roster) Get(name string) (Specialist, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byName[name]
	return s, ok
}

// Has reports whether a specialist with the given name exists.
func (r *Roster) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns the specialist names in definition order.
func (r *Roster) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of specialists.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// DocumentRoutes returns the names of document-producing specialists.
func (r *Roster) DocumentRoutes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for _, name := range r.order {
		if r.byName[name].Document {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// IsDocumentRoute reports whether name is a document-producing specialist.
func (r *Roster) IsDocumentRoute(name string) bool {
	s, ok := r.Get(name)
	return ok && s.Document
}

// Replace swaps the roster contents in place. Used by the hot-reload watcher
// so existing holders see the updated set.
func (r *Roster) Replace(other *Roster) {
	other.mu.RLock()
	order := make([]string, len(other.order))
	copy(order, other.order)
	byName := make(map[string]Specialist, len(other.byName))
	for k, v := range other.byName {
		byName[k] = v
	}
	other.mu.RUnlock()

	r.mu.Lock()
	r.order = order
	r.byName = byName
	r.mu.Unlock()
}
