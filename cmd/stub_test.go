package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"gooze.dev/pkg/mutenv/internal/bootstrap"
	"gooze.dev/pkg/mutenv/internal/expression"
	m "gooze.dev/pkg/mutenv/internal/model"
)

// fakeSubject satisfies m.Subject for command output tests.
type fakeSubject struct {
	name string
}

func (s fakeSubject) Expression() expression.Expression {
	return expression.MustParse(s.name)
}

func (s fakeSubject) Identification() string { return s.name }

func (s fakeSubject) Mutations() []m.Mutation { return nil }

// fakeIntegration satisfies bootstrap.Integration without running anything.
type fakeIntegration struct {
	name string
}

func (i fakeIntegration) Name() string { return i.name }

func (i fakeIntegration) Selector() bootstrap.Selector { return nil }

func (i fakeIntegration) RunTests(context.Context, m.Path, string) (bool, string, error) {
	return true, "", nil
}

// stubEnv builds a populated Env the way a successful pipeline would.
func stubEnv(subjects ...string) bootstrap.Env {
	selected := make([]m.Subject, 0, len(subjects))
	for _, name := range subjects {
		selected = append(selected, fakeSubject{name: name})
	}

	env := bootstrap.Env{
		Subjects:         selected,
		SelectedSubjects: selected,
		Integration:      fakeIntegration{name: "gotest"},
	}

	for _, subject := range selected {
		env.Mutations = append(env.Mutations, m.Mutation{
			ID:      subject.Identification() + ":ARITH_0",
			Subject: subject.Identification(),
		})
	}

	return env
}

// swapPipeline replaces the pipeline seam for one test, restoring it via
// the returned function.
func swapPipeline(fn func(ctx context.Context, args []string, dryRun bool) (bootstrap.Env, *bootstrap.Recorder, error)) func() {
	original := runPipeline
	runPipeline = func(ctx context.Context, _ *cobra.Command, args []string, dryRun bool) (bootstrap.Env, *bootstrap.Recorder, error) {
		return fn(ctx, args, dryRun)
	}

	return func() { runPipeline = original }
}
