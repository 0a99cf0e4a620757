// Package matcher turns matchable scopes into candidate subjects according
// to a match/ignore pattern specification.
package matcher

import (
	"fmt"
	"log/slog"

	"gooze.dev/pkg/mutenv/internal/bootstrap"
	"gooze.dev/pkg/mutenv/internal/expression"
	m "gooze.dev/pkg/mutenv/internal/model"
	"gooze.dev/pkg/mutenv/internal/mutate"
)

// Spec is the user-supplied matcher specification: subjects are the scopes
// reached by a match expression and not reached by an ignore expression.
// An empty match list selects every scope.
type Spec struct {
	Match  []expression.Expression
	Ignore []expression.Expression
}

// ParseSpec builds a Spec from raw pattern text.
func ParseSpec(match, ignore []string) (Spec, error) {
	matchExprs, err := parseAll(match)
	if err != nil {
		return Spec{}, fmt.Errorf("match patterns: %w", err)
	}

	ignoreExprs, err := parseAll(ignore)
	if err != nil {
		return Spec{}, fmt.Errorf("ignore patterns: %w", err)
	}

	return Spec{Match: matchExprs, Ignore: ignoreExprs}, nil
}

func parseAll(texts []string) ([]expression.Expression, error) {
	exprs := make([]expression.Expression, 0, len(texts))

	for _, text := range texts {
		expr, err := expression.Parse(text)
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, expr)
	}

	return exprs, nil
}

// Matcher selects subjects from an Env's matchable scopes. Scope order is
// preserved, so sorted scopes yield a reproducible subject sequence.
type Matcher struct {
	spec      Spec
	generator mutate.Generator
}

// New constructs a Matcher. Subjects built from locatable scopes expand
// their mutations through the given generator.
func New(spec Spec, generator mutate.Generator) *Matcher {
	return &Matcher{spec: spec, generator: generator}
}

// Call implements bootstrap.Matcher.
func (mt *Matcher) Call(env bootstrap.Env) []m.Subject {
	subjects := make([]m.Subject, 0, len(env.MatchableScopes))

	for _, scope := range env.MatchableScopes {
		if !mt.selected(scope) {
			continue
		}

		subjects = append(subjects, &scopeSubject{scope: scope, generator: mt.generator})
	}

	slog.Debug("matcher selected subjects", "scopes", len(env.MatchableScopes), "subjects", len(subjects))

	return subjects
}

func (mt *Matcher) selected(scope m.Scope) bool {
	for _, ignore := range mt.spec.Ignore {
		if ignore.Prefix(scope.Expression) {
			return false
		}
	}

	if len(mt.spec.Match) == 0 {
		return true
	}

	for _, match := range mt.spec.Match {
		if match.Prefix(scope.Expression) {
			return true
		}
	}

	return false
}

// scopeSubject binds one expression-matched scope to the mutation
// generator.
type scopeSubject struct {
	scope     m.Scope
	generator mutate.Generator
}

func (s *scopeSubject) Expression() expression.Expression {
	return s.scope.Expression
}

func (s *scopeSubject) Identification() string {
	return s.scope.Expression.Syntax()
}

// Mutations expands the subject's source region. Scopes without a source
// region, and subjects without a generator, expand to nothing.
func (s *scopeSubject) Mutations() []m.Mutation {
	if s.generator == nil {
		return nil
	}

	locatable, ok := s.scope.Raw.(m.Locatable)
	if !ok {
		return nil
	}

	return s.generator.Generate(locatable.Region(), s.Identification())
}
