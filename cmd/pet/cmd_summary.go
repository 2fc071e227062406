package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Desmondgtx/Effort-Task/results"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newSummaryCmd() *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "summary <archive.db>",
		Short: "Show credits earned per session from the SQLite archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := results.OpenStore(args[0])
			if err != nil {
				return err
			}
			defer store.Close()
			return writeSummary(cmd.OutOrStdout(), store, subject)
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "Only show sessions of this participant")
	return cmd
}

func writeSummary(w io.Writer, store *results.Store, subject string) error {
	sessions, err := store.Sessions()
	if err != nil {
		return err
	}

	shown := 0
	for _, s := range sessions {
		if subject != "" && s.Subject != subject {
			continue
		}
		shown++
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s  %s", s.Subject, s.StartedAt.Local().Format("2006-01-02 15:04"))))
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("  session %s  status %s  max %d  trials %d", s.ID, s.Status, s.CalibratedMax, s.Trials)))

		totals, err := store.Totals(s.ID)
		if err != nil {
			return err
		}
		for _, t := range totals {
			fmt.Fprintf(w, "  %-10s %4d credits over %d trials\n", t.Beneficiary, t.Credits, t.Trials)
		}
	}
	if shown == 0 {
		fmt.Fprintln(w, "no sessions")
	}
	return nil
}
