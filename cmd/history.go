package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/worksheetz/internal/report"
	"github.com/abhisek/worksheetz/internal/store"
	"github.com/abhisek/worksheetz/internal/validate"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded validation runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent validation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		subjectName, _ := cmd.Flags().GetString("subject")
		invalidOnly, _ := cmd.Flags().GetBool("invalid")

		opts := store.QueryOpts{Limit: limit, InvalidOnly: invalidOnly}
		if subjectName != "" {
			subject, err := validate.ParseSubject(subjectName)
			if err != nil {
				return err
			}
			opts.Subject = subject
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		s, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.RunRepo().List(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query runs: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No validation runs found.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-19s  %-14s  %5s  %5s  %6s  %8s  %s\n",
			"Run", "Time", "Subject", "Grade", "Tasks", "Errors", "Warnings", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 112))
		for _, r := range runs {
			ok := "✓"
			if !r.Valid {
				ok = "✗"
			}
			fmt.Fprintf(out, "%-36s  %-19s  %-14s  %5d  %5d  %6d  %8d  %s\n",
				r.RunID,
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				r.Subject,
				r.Grade,
				r.TaskCount,
				r.ErrorCount,
				r.WarningCount,
				ok,
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <run-id>",
	Short: "Show the full verdict of a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		s, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		r, err := s.RunRepo().Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}
		if r == nil {
			return fmt.Errorf("run %s not found", args[0])
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return report.JSON(out, r.Result())
		}

		fmt.Fprintf(out, "Run:       %s\n", r.RunID)
		fmt.Fprintf(out, "Time:      %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Subject:   %s\n", r.Subject)
		fmt.Fprintf(out, "Grade:     %d\n", r.Grade)
		fmt.Fprintln(out)

		plain, _ := cmd.Flags().GetBool("plain")
		return report.Text(out, r.Result(), report.Options{TaskCount: r.TaskCount, Plain: plain})
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		s, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.RunRepo().Prune(cmd.Context(), keep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d runs.\n", n)
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
	historyListCmd.Flags().StringP("subject", "s", "", "Only show runs for this subject")
	historyListCmd.Flags().Bool("invalid", false, "Only show invalid runs")

	historyViewCmd.Flags().Bool("json", false, "Print the result as JSON")
	historyViewCmd.Flags().Bool("plain", false, "Disable colors and styling")

	historyPruneCmd.Flags().Int("keep", 100, "Number of recent runs to keep")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
	historyCmd.AddCommand(historyPruneCmd)
}
