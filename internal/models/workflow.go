package models

import "strings"

// WorkflowIcon references the icon shown for a workflow
type WorkflowIcon struct {
	Type  string `toml:"type" yaml:"type" json:"type"` // "emoji" or "url"
	Value string `toml:"value" yaml:"value" json:"value"`
}

// Workflow is a user-defined multi-step flow that can be mentioned in chat
type Workflow struct {
	ID          string        `toml:"id" yaml:"id" json:"id"`
	Name        string        `toml:"name" yaml:"name" json:"name"`
	Description string        `toml:"description" yaml:"description" json:"description,omitempty"`
	Icon        *WorkflowIcon `toml:"icon" yaml:"icon" json:"icon,omitempty"`
}

// EnsureID fills in a name-derived ID when none was configured
func (w *Workflow) EnsureID() {
	if strings.TrimSpace(w.ID) == "" {
		w.ID = DeriveID("workflow", w.Name)
	}
}
