package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"gooze.dev/pkg/mutenv/internal/bootstrap"
	"gooze.dev/pkg/mutenv/internal/controller"
	m "gooze.dev/pkg/mutenv/internal/model"
	"gooze.dev/pkg/mutenv/pkg"
)

var handoffPath string
var snapshotPath string

const runLongDescription = `Run the full bootstrap: infect the world, discover and match subjects,
apply start expressions, expand mutations and wire up the integration.
The resulting mutations are handed off to the downstream engine.

` + pathsHelp

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Build the full analysis environment",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, recorder, err := runPipeline(context.Background(), cmd, args, false)
			if err != nil {
				return err
			}

			ui := controller.NewUI(cmd)
			ui.DisplaySubjects(env.SelectedSubjects)
			ui.DisplaySummary(env)

			if showTimings {
				ui.DisplayTimings(recorder)
			}

			if err := writeHandoff(cmd, env); err != nil {
				return err
			}

			return writeSnapshot(env, recorder)
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&handoffPath, handoffFlagName, "o", defaultHandoffPath, "handoff file receiving the generated mutations")
	bindFlagToConfig(cmd.Flags().Lookup(handoffFlagName), handoffConfigKey)

	cmd.Flags().StringVar(&snapshotPath, snapshotFlagName, "", "write a yaml snapshot of the environment to this path")
}

// writeHandoff spills the generated mutations for the downstream engine.
func writeHandoff(cmd *cobra.Command, env bootstrap.Env) error {
	path := viper.GetString(handoffConfigKey)
	if path == "" {
		return nil
	}

	spill, err := pkg.NewSpill[m.Mutation](path)
	if err != nil {
		return fmt.Errorf("handoff: %w", err)
	}

	if err := spill.AppendBatch(env.Mutations); err != nil {
		_ = spill.Close()
		return fmt.Errorf("handoff: %w", err)
	}

	if err := spill.Close(); err != nil {
		return fmt.Errorf("handoff: %w", err)
	}

	cmd.Printf("Mutations written to %s\n", path)

	return nil
}

// envSnapshot is the yaml shape of the --snapshot export.
type envSnapshot struct {
	Integration string            `yaml:"integration"`
	Subjects    []string          `yaml:"subjects"`
	Selected    []string          `yaml:"selected"`
	Mutations   int               `yaml:"mutations"`
	Timings     map[string]string `yaml:"timings"`
}

func writeSnapshot(env bootstrap.Env, recorder *bootstrap.Recorder) error {
	if snapshotPath == "" {
		return nil
	}

	snapshot := envSnapshot{
		Integration: env.Integration.Name(),
		Subjects:    subjectNames(env.Subjects),
		Selected:    subjectNames(env.SelectedSubjects),
		Mutations:   len(env.Mutations),
		Timings:     map[string]string{},
	}

	recorder.Each(func(key string, d time.Duration) {
		snapshot.Timings[key] = d.String()
	})

	content, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	if err := os.WriteFile(snapshotPath, content, 0o644); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	return nil
}

func subjectNames(subjects []m.Subject) []string {
	names := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		names = append(names, subject.Identification())
	}

	return names
}
