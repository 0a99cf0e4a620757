package bootstrap

import (
	"context"

	"gooze.dev/pkg/mutenv/internal/expression"
	m "gooze.dev/pkg/mutenv/internal/model"
	"gooze.dev/pkg/mutenv/internal/world"
)

// ParseFunc turns pattern text into an Expression. Rejections are expected
// noise during scope discovery and are absorbed silently.
type ParseFunc func(text string) (expression.Expression, error)

// Reporter streams user-facing warnings as they occur.
type Reporter interface {
	Warn(message string)
}

// Hooks exposes named extension points invoked at fixed pipeline
// positions. Unknown points are no-ops; hook failures never abort the
// pipeline.
type Hooks interface {
	Run(ctx context.Context, point string, kv map[string]string)
}

// Matcher produces the candidate subject sequence from an Env carrying
// matchable scopes. The scopes arrive already sorted by expression syntax,
// so matching results are run-to-run reproducible.
type Matcher interface {
	Call(env Env) []m.Subject
}

// Selector picks the tests to execute for one subject.
type Selector interface {
	TestsFor(subject m.Subject) []string
}

// Integration is the adapter to the test-execution framework.
type Integration interface {
	// Name identifies the integration.
	Name() string

	// Selector returns a fresh Selector bound to this integration.
	Selector() Selector

	// RunTests executes the tests matching pattern inside dir and reports
	// whether they passed, together with the combined output.
	RunTests(ctx context.Context, dir m.Path, pattern string) (passed bool, output string, err error)
}

// IntegrationSetup wires up an Integration. Setting up an integration
// depends on an inherently fallible external resource and is the single
// fatal failure point of the whole pipeline.
type IntegrationSetup interface {
	Setup(ctx context.Context, env Env) (Integration, error)
}

// Config is the static input to one bootstrap invocation. It is never
// mutated after construction.
type Config struct {
	// Matcher produces candidate subjects from matchable scopes.
	Matcher Matcher

	// StartExpressions drive the resumable subject selection filter.
	StartExpressions []expression.Expression

	// EnvironmentVariables are applied to the World during infection.
	EnvironmentVariables map[string]string

	// LoadPaths are appended to the World's load path during infection.
	LoadPaths []m.Path

	// Requires are loaded into the World during infection, before any
	// object enumeration.
	Requires []string

	// Kinds are the object kinds enumerated during scope discovery.
	Kinds []m.ObjectKind

	// Reporter receives naming-contract warnings.
	Reporter Reporter

	// Parse is the expression parser applied to resolved object names.
	Parse ParseFunc

	// Integration sets up the test-framework adapter.
	Integration IntegrationSetup

	// Hooks bracket the infection phase.
	Hooks Hooks
}

// NoopHooks is the registry used when no hooks are configured.
type NoopHooks struct{}

// Run implements Hooks and does nothing.
func (NoopHooks) Run(context.Context, string, map[string]string) {}

// DefaultKinds are the object kinds analyzed when Config.Kinds is empty.
var DefaultKinds = []m.ObjectKind{m.KindFunction, m.KindMethod}

func (c Config) kinds() []m.ObjectKind {
	if len(c.Kinds) == 0 {
		return DefaultKinds
	}

	return c.Kinds
}

// World is re-exported so collaborators built against the pipeline do not
// have to import the world package separately.
type World = world.World
