// Package bootstrap assembles the immutable analysis environment consumed
// by the downstream mutation engine: it prepares the runtime world,
// discovers and names live objects defensively, matches them into
// subjects, applies the resumable start filter, expands mutations and
// wires up the test-framework integration, recording wall-clock timing for
// every phase.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	m "gooze.dev/pkg/mutenv/internal/model"
)

// Phase names as they appear in the timing table.
const (
	PhaseInfect      = "env.infect"
	PhaseScopes      = "env.scopes"
	PhaseEnumerate   = "enumerate"
	PhaseMatch       = "env.match"
	PhaseSelect      = "env.select"
	PhaseMutations   = "env.mutations"
	PhaseIntegration = "env.integration"

	hookInfectPre  = "env.infect.pre"
	hookInfectPost = "env.infect.post"
)

// Bootstrap runs the environment construction pipeline. One Bootstrap
// value serves one invocation; its recorder and hook registry are scoped
// to that invocation's lifetime.
type Bootstrap struct {
	cfg      Config
	world    World
	recorder *Recorder
}

// New constructs a Bootstrap over the given config and world.
func New(cfg Config, w World) *Bootstrap {
	if cfg.Hooks == nil {
		cfg.Hooks = NoopHooks{}
	}

	return &Bootstrap{
		cfg:      cfg,
		world:    w,
		recorder: NewRecorder(),
	}
}

// Recorder exposes the per-phase timing table of the last run.
func (b *Bootstrap) Recorder() *Recorder {
	return b.recorder
}

// phase is one recorded pipeline step. Every phase except integration
// setup is infallible by construction: local failures are absorbed as
// warnings, so only the final phase can short-circuit the chain.
type phase struct {
	name string
	fn   func(context.Context, Env) (Env, error)
}

// run threads the Env through the phases, recording each, and
// short-circuits on the first error. A failed run yields the zero Env:
// callers receive either a complete environment or a failure, never a
// partially populated value.
func (b *Bootstrap) run(ctx context.Context, env Env, phases ...phase) (Env, error) {
	for _, p := range phases {
		var err error

		env, err = Record(b.recorder, p.name, func() (Env, error) {
			return p.fn(ctx, env)
		})
		if err != nil {
			return Env{}, err
		}
	}

	return env, nil
}

// Call runs the full pipeline: infection, scope discovery, matching,
// selection, mutation expansion and integration setup.
func (b *Bootstrap) Call(ctx context.Context) (Env, error) {
	return b.run(ctx, NewEnv(b.cfg, b.world),
		phase{PhaseInfect, b.infect},
		phase{PhaseScopes, b.scopes},
		phase{PhaseMatch, b.match},
		phase{PhaseSelect, b.selectPhase},
		phase{PhaseMutations, b.mutations},
		phase{PhaseIntegration, b.integration},
	)
}

// CallTest is the dry-run wiring check: infection and integration setup
// only, with empty subject and mutation sequences. It validates
// environment preparation and integration availability without paying for
// matching or mutation expansion.
func (b *Bootstrap) CallTest(ctx context.Context) (Env, error) {
	return b.run(ctx, NewEnv(b.cfg, b.world),
		phase{PhaseInfect, b.infect},
		phase{PhaseIntegration, func(ctx context.Context, env Env) (Env, error) {
			env = env.
				WithSubjects([]m.Subject{}).
				WithSelectedSubjects([]m.Subject{}).
				WithMutations([]m.Mutation{})

			return b.integration(ctx, env)
		}},
	)
}

// infect applies the config's environment overrides, load paths and
// requires to the World, bracketed by the pre and post hooks. It exists
// for its side effects and timing record only; the Env passes through
// unchanged. Failures are absorbed as warnings.
func (b *Bootstrap) infect(ctx context.Context, env Env) (Env, error) {
	env.Hooks.Run(ctx, hookInfectPre, map[string]string{})

	for _, key := range sortedKeys(b.cfg.EnvironmentVariables) {
		if err := env.World.SetEnv(key, b.cfg.EnvironmentVariables[key]); err != nil {
			b.cfg.Reporter.Warn(fmt.Sprintf("environment override %s skipped: %v", key, err))
		}
	}

	for _, dir := range b.cfg.LoadPaths {
		env.World.AppendLoadPath(dir)
	}

	for _, name := range b.cfg.Requires {
		if err := env.World.Require(name); err != nil {
			b.cfg.Reporter.Warn(fmt.Sprintf("require %s skipped: %v", name, err))
		}
	}

	env.Hooks.Run(ctx, hookInfectPost, map[string]string{})

	return env, nil
}

// scopes performs defensive scope discovery. Enumeration is recorded as a
// nested sub-phase.
func (b *Bootstrap) scopes(_ context.Context, env Env) (Env, error) {
	scopes, _ := Record(b.recorder, PhaseEnumerate, func() ([]m.Scope, error) {
		return matchableScopes(env), nil
	})

	slog.Debug("scope discovery complete", "scopes", len(scopes))

	return env.WithMatchableScopes(scopes), nil
}

func (b *Bootstrap) match(_ context.Context, env Env) (Env, error) {
	subjects := b.cfg.Matcher.Call(env)

	slog.Debug("matching complete", "subjects", len(subjects))

	return env.WithSubjects(subjects), nil
}

func (b *Bootstrap) selectPhase(_ context.Context, env Env) (Env, error) {
	return env.WithSelectedSubjects(selectSubjects(env)), nil
}

// mutations expands the selected subjects in order; per-subject mutation
// order is preserved and nothing is deduplicated.
func (b *Bootstrap) mutations(_ context.Context, env Env) (Env, error) {
	mutations := make([]m.Mutation, 0)

	for _, subject := range env.SelectedSubjects {
		mutations = append(mutations, subject.Mutations()...)
	}

	slog.Debug("mutation expansion complete", "mutations", len(mutations))

	return env.WithMutations(mutations), nil
}

// integration is the single fallible phase. Its error aborts the run
// before any subject or mutation work is consumed downstream.
func (b *Bootstrap) integration(ctx context.Context, env Env) (Env, error) {
	integ, err := b.cfg.Integration.Setup(ctx, env)
	if err != nil {
		return Env{}, err
	}

	return env.WithIntegration(integ), nil
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
