// Package tool provides the domain model for the tools this server exposes.
package tool

// Annotations are behavioral hints advertised to the agent and consulted by
// middleware. They follow the MCP tool annotation vocabulary.
type Annotations struct {
	// Title is a human-readable display name.
	Title string `json:"title,omitempty"`

	// ReadOnly indicates the tool does not modify remote state.
	ReadOnly bool `json:"readOnlyHint"`

	// Destructive indicates the tool may modify remote state.
	Destructive bool `json:"destructiveHint"`

	// Idempotent indicates repeated calls with the same input have no
	// additional effect.
	Idempotent bool `json:"idempotentHint"`

	// OpenWorld indicates the tool talks to an external system.
	OpenWorld bool `json:"openWorldHint"`
}

// DefaultAnnotations returns the annotations of a tool that talks to the
// Checkly API and has not declared its effects.
func DefaultAnnotations() Annotations {
	return Annotations{OpenWorld: true}
}

// Mutating reports whether the tool must pass the access gate.
func (a Annotations) Mutating() bool {
	return a.Destructive || !a.ReadOnly
}
