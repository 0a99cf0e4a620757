// Package model defines the data structures shared across the bootstrap
// pipeline and its collaborators.
package model

import (
	"gooze.dev/pkg/mutenv/internal/expression"
)

// Path represents a file system path.
type Path string

// ObjectKind classifies the live objects a World can enumerate.
type ObjectKind string

const (
	// KindPackage represents a Go package discovered on the load path.
	KindPackage ObjectKind = "package"

	// KindFunction represents a package-level function, the primary
	// analyzable unit.
	KindFunction ObjectKind = "function"

	// KindMethod represents a method bound to a named receiver type.
	KindMethod ObjectKind = "method"
)

// Object is a live runtime object discovered by a World.
//
// Name is the object's own naming capability and is deliberately untyped:
// implementations in code under analysis are not trusted to honor the
// contract of returning a non-empty string, and may panic. Callers must
// guard the call. Describe is the pipeline's own stable description of the
// object, used for diagnostics when Name misbehaves.
type Object interface {
	Name() any
	Kind() ObjectKind
	Describe() string
}

// Scope pairs a discovered object with its derived expression. Every Scope
// handed to the matcher carries a successfully parsed Expression; objects
// whose names could not be resolved never become Scopes.
type Scope struct {
	Raw        Object
	Expression expression.Expression
}

// SourceRegion locates an object's source text by file and line range.
type SourceRegion struct {
	File      Path
	StartLine int
	EndLine   int
}

// Locatable is implemented by objects that can point at their source
// region. Subjects built from such objects can be expanded into mutations.
type Locatable interface {
	Region() SourceRegion
}

// MutationType represents the category of mutation.
type MutationType string

const (
	// MutationArithmetic represents arithmetic operator mutations (+, -, *, /, %).
	MutationArithmetic MutationType = "arithmetic"
	// MutationBoolean represents boolean literal mutations (true <-> false).
	MutationBoolean MutationType = "boolean"
)

// Mutation is one concrete alteration derived from exactly one subject.
// It is a downstream-only entity: the pipeline generates and orders
// mutations but never executes them.
type Mutation struct {
	ID         string
	Type       MutationType
	Subject    string
	SourceFile Path
	Line       int
	Column     int
	Original   string
	Mutated    string
}

// Subject is one testable code unit selected for mutation.
type Subject interface {
	// Expression identifies the subject within the pattern language.
	Expression() expression.Expression

	// Identification is the human-readable name reported for the subject.
	Identification() string

	// Mutations expands the subject into its concrete mutations. The
	// expansion is purely derived and must not fail; generators absorb
	// their own errors.
	Mutations() []Mutation
}
