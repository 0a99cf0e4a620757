package bootstrap

import (
	m "gooze.dev/pkg/mutenv/internal/model"
)

// Env is the immutable aggregate threaded through every pipeline phase.
// Each phase derives a new Env value via a With* copy; a field, once set,
// is never overwritten by a later phase. An Env has no existence outside
// one bootstrap invocation.
type Env struct {
	Config Config
	World  World
	Hooks  Hooks

	// MatchableScopes is the discovery output, sorted by expression
	// syntax ascending and deduplicated.
	MatchableScopes []m.Scope

	// Subjects is the full candidate sequence produced by the matcher.
	Subjects []m.Subject

	// SelectedSubjects is the start-expression filtered sequence.
	SelectedSubjects []m.Subject

	// Mutations is the flat expansion of the selected subjects.
	Mutations []m.Mutation

	// Integration and Selector are set by the final phase only.
	Integration Integration
	Selector    Selector
}

// NewEnv creates the initial Env for one bootstrap invocation.
func NewEnv(cfg Config, w World) Env {
	return Env{
		Config: cfg,
		World:  w,
		Hooks:  cfg.Hooks,
	}
}

// WithMatchableScopes returns a copy of e with the discovery output set.
func (e Env) WithMatchableScopes(scopes []m.Scope) Env {
	e.MatchableScopes = scopes
	return e
}

// WithSubjects returns a copy of e with the matcher output set.
func (e Env) WithSubjects(subjects []m.Subject) Env {
	e.Subjects = subjects
	return e
}

// WithSelectedSubjects returns a copy of e with the selection output set.
func (e Env) WithSelectedSubjects(subjects []m.Subject) Env {
	e.SelectedSubjects = subjects
	return e
}

// WithMutations returns a copy of e with the expanded mutations set.
func (e Env) WithMutations(mutations []m.Mutation) Env {
	e.Mutations = mutations
	return e
}

// WithIntegration returns a copy of e with the integration and a selector
// bound to it set.
func (e Env) WithIntegration(integration Integration) Env {
	e.Integration = integration
	e.Selector = integration.Selector()

	return e
}
