package concierge

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ActionSpec describes one action type the assistant may emit.
type ActionSpec struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// ActionRegistry is the set of recognized action types. An extracted object
// is only executable when its type is registered.
type ActionRegistry struct {
	specs map[string]ActionSpec
	order []string
}

// DefaultRegistry covers the built-in dashboard actions.
func DefaultRegistry() *ActionRegistry {
	return newRegistry([]ActionSpec{
		{Type: "create_project", Description: "Create a dashboard project, optionally linked to a lead. Fields: name (required), leadId."},
		{Type: "show_hot_leads", Description: "List the HOT leads from the most recent analysis."},
		{Type: "generate_report", Description: "Summarize the most recent analysis run."},
	})
}

// LoadRegistry reads action specs from a YAML file.
func LoadRegistry(path string) (*ActionRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "concierge: read action registry")
	}

	var specs []ActionSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, eris.Wrap(err, "concierge: parse action registry")
	}
	if len(specs) == 0 {
		return nil, eris.New("concierge: action registry is empty")
	}
	for _, s := range specs {
		if s.Type == "" {
			return nil, eris.New("concierge: action registry entry missing type")
		}
	}

	return newRegistry(specs), nil
}

func newRegistry(specs []ActionSpec) *ActionRegistry {
	r := &ActionRegistry{specs: make(map[string]ActionSpec, len(specs))}
	for _, s := range specs {
		if _, seen := r.specs[s.Type]; seen {
			continue
		}
		r.specs[s.Type] = s
		r.order = append(r.order, s.Type)
	}
	return r
}

// Recognized reports whether the action type is registered.
func (r *ActionRegistry) Recognized(actionType string) bool {
	_, ok := r.specs[actionType]
	return ok
}

// PromptBlock renders the registry as a bulleted list for the assistant's
// system prompt.
func (r *ActionRegistry) PromptBlock() string {
	var b strings.Builder
	for _, t := range r.order {
		spec := r.specs[t]
		fmt.Fprintf(&b, "- %s: %s\n", spec.Type, spec.Description)
	}
	return b.String()
}
