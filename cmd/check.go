package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"gooze.dev/pkg/mutenv/internal/controller"
)

const checkLongDescription = `Verify the environment without analyzing any code: infect the world
and set up the integration against an empty subject set. Useful to
confirm the toolchain and configuration before a full run.

` + pathsHelp

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [paths...]",
		Short: "Verify the environment setup without analysis",
		Long:  checkLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, recorder, err := runPipeline(context.Background(), cmd, args, true)
			if err != nil {
				return err
			}

			ui := controller.NewUI(cmd)
			ui.DisplayCheckResult(env)

			if showTimings {
				ui.DisplayTimings(recorder)
			}

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
