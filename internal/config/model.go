package config

import (
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of the startup
// configuration. It is read once at the start of orchestration and never
// mutated afterwards.
type Model struct {
	// AbortOnFailure governs both bootstrap phases' failure policy. Nil
	// means the option was absent; the effective default is true.
	AbortOnFailure *bool

	// MessageCodecs lists, in order, the codec identifiers to instantiate
	// and register on the bus. Absent or empty means skip registration.
	MessageCodecs []string

	// Verticles describes the sub-components to deploy, keyed by name.
	Verticles map[string]*VerticleDefinition
}

// VerticleDefinition is the format-agnostic representation of a `verticle`
// block.
type VerticleDefinition struct {
	Name      string
	Instances int
	DependsOn []string
	Config    map[string]cty.Value
}

// EffectiveAbortOnFailure resolves the failure policy, applying the
// default when the option was not configured.
func (m *Model) EffectiveAbortOnFailure() bool {
	if m.AbortOnFailure == nil {
		return true
	}
	return *m.AbortOnFailure
}
