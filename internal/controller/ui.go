// Package controller renders bootstrap results for the CLI commands.
package controller

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"gooze.dev/pkg/mutenv/internal/bootstrap"
	m "gooze.dev/pkg/mutenv/internal/model"
)

// UI prints through the cobra command's writers so tests can capture the
// output.
type UI struct {
	cmd *cobra.Command
}

// NewUI creates a UI bound to cmd.
func NewUI(cmd *cobra.Command) *UI {
	return &UI{cmd: cmd}
}

// DisplaySubjects renders the selected subjects as a table with a total
// footer.
func (u *UI) DisplaySubjects(subjects []m.Subject) {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Subject", "Expression"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, subject := range subjects {
		table.Append([]string{subject.Identification(), subject.Expression().Syntax()})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", len(subjects))})
	table.Render()

	u.printf("\n%s", tableBuffer.String())
}

// DisplayTimings renders the recorder's phase table in recorded order.
func (u *UI) DisplayTimings(recorder *bootstrap.Recorder) {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Phase", "Duration"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	var total time.Duration

	recorder.Each(func(key string, d time.Duration) {
		table.Append([]string{key, d.Round(time.Microsecond).String()})
		total += d
	})

	table.SetFooter([]string{"Total", total.Round(time.Microsecond).String()})
	table.Render()

	u.printf("\n%s", tableBuffer.String())
}

// DisplaySummary prints the one-line environment summary.
func (u *UI) DisplaySummary(env bootstrap.Env) {
	u.printf(
		"Scopes: %d | Subjects: %d | Selected: %d | Mutations: %d | Integration: %s\n",
		len(env.MatchableScopes),
		len(env.Subjects),
		len(env.SelectedSubjects),
		len(env.Mutations),
		env.Integration.Name(),
	)
}

// DisplayCheckResult prints the dry-run wiring outcome.
func (u *UI) DisplayCheckResult(env bootstrap.Env) {
	u.printf("Environment OK. Integration %q is available.\n", env.Integration.Name())
}

func (u *UI) printf(format string, args ...any) {
	fmt.Fprintf(u.cmd.OutOrStdout(), format, args...)
}
