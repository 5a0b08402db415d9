// Command legalpulse is the operator CLI: the in-process scheduler, schema
// migrations and manual maintenance of embeddings, the notification queue,
// contract status and notification settings.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/legalpulse/internal/adapter/postgres"
	"github.com/heartmarshall/legalpulse/internal/app"
	"github.com/heartmarshall/legalpulse/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withContainer boots the application, runs fn and closes everything.
func withContainer(fn func(ctx context.Context, c *app.Container) error) error {
	ctx, cancel, c, err := app.Boot()
	if err != nil {
		return err
	}
	defer cancel()
	defer c.Close()
	return fn(ctx, c)
}

func newTable(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
}

var rootCmd = &cobra.Command{
	Use:          "legalpulse",
	Short:        "Legal-change monitoring and contract lifecycle notifications",
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersion())
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run all jobs on their cron schedules until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		if code := app.Schedule(); code != 0 {
			return errors.New("scheduler failed")
		}
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:       "run <job>",
	Short:     "Run one job now under its run lock",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{app.JobMonitor, app.JobDigestInstant, app.JobDigestDaily, app.JobDigestWeekly, app.JobLifecycle, app.JobCleanup},
	RunE: func(cmd *cobra.Command, args []string) error {
		if code := app.RunJob(args[0]); code != 0 {
			return fmt.Errorf("job %s failed", args[0])
		}
		return nil
	},
}

// migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		results, err := postgres.Migrate(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		}
		for _, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "applied %s (%s)\n", r.Source.Path, r.Duration.Round(time.Millisecond))
		}
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations are applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		status, err := postgres.MigrationStatus(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		w := newTable(cmd)
		fmt.Fprintln(w, "VERSION\tSTATE\tAPPLIED AT\tFILE")
		for _, s := range status {
			applied := "-"
			if !s.AppliedAt.IsZero() {
				applied = s.AppliedAt.UTC().Format(time.RFC3339)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
		}
		return w.Flush()
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(embedCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(contractCmd)
	rootCmd.AddCommand(settingsCmd)
}
