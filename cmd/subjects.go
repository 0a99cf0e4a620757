package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"gooze.dev/pkg/mutenv/internal/controller"
)

const subjectsLongDescription = `List the subjects the configured match and start expressions would
select, without generating mutations or running the integration setup.

` + pathsHelp

// subjectsCmd represents the subjects command.
var subjectsCmd = newSubjectsCmd()

func newSubjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subjects [paths...]",
		Short: "List the subjects selected for analysis",
		Long:  subjectsLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, recorder, err := runPipeline(context.Background(), cmd, args, false)
			if err != nil {
				return err
			}

			ui := controller.NewUI(cmd)
			ui.DisplaySubjects(env.SelectedSubjects)

			if showTimings {
				ui.DisplayTimings(recorder)
			}

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(subjectsCmd)
}
