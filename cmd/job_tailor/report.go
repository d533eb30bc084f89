package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tailor/internal/app"
	"github.com/jonathan/job-tailor/internal/export"
	"github.com/jonathan/job-tailor/internal/observability"
)

var (
	reportUser string
	reportOut  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the jobs report as CSV",
	Long:  `Write every tracked job as CSV, one row per job with display-formatted dates.`,
	RunE:  runReport,
}

var followupsCmd = &cobra.Command{
	Use:   "followups",
	Short: "List follow-ups due today or earlier",
	RunE:  runFollowups,
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List tracked jobs",
	RunE:  runJobs,
}

func init() {
	reportCmd.Flags().StringVar(&reportUser, "user", "", "User scope (overrides config)")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "Output file (default stdout)")
	followupsCmd.Flags().StringVar(&reportUser, "user", "", "User scope (overrides config)")
	jobsCmd.Flags().StringVar(&reportUser, "user", "", "User scope (overrides config)")
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(followupsCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	user := reportUser
	if user == "" {
		user = cfg.DefaultUser
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	rows, err := app.NewService(st, nil).JobsReport(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	out := os.Stdout
	if reportOut != "" {
		f, err := os.Create(reportOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return export.WriteJobsCSV(out, rows)
}

func runFollowups(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	user := reportUser
	if user == "" {
		user = cfg.DefaultUser
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	rows, err := app.NewService(st, nil).FollowupsDue(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to list follow-ups: %w", err)
	}
	observability.NewPrinter(os.Stdout).PrintFollowups(rows)
	return nil
}

func runJobs(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	user := reportUser
	if user == "" {
		user = cfg.DefaultUser
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	jobs, err := app.NewService(st, nil).Jobs(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}
	observability.NewPrinter(os.Stdout).PrintJobs(jobs)
	return nil
}
