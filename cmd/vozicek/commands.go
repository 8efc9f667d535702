package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/vozicek/internal/db"
	"github.com/erazemk/vozicek/internal/readiness"
	"github.com/erazemk/vozicek/internal/store"
)

func initCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database schema, optionally with demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database ready: %s\n", a.cfg.DBPath)

			if seed || a.cfg.AllowDemoSeed {
				seeded, err := store.SeedDemo(cmd.Context(), a.db)
				if err != nil {
					return err
				}
				if seeded {
					fmt.Fprintln(out, "Demo items and equipment added.")
				} else {
					fmt.Fprintln(out, "Items already present, demo data skipped.")
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "add demo items and equipment to an empty database")
	return cmd
}

func reportCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print bundle, fleet and alert status for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			today := readiness.Day(time.Now())
			if date != "" {
				t, ok := readiness.ParseDate(date)
				if !ok {
					return fmt.Errorf("invalid --date %q", date)
				}
				today = t
			}

			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			snap, err := store.LoadSnapshot(cmd.Context(), a.db, 0, time.Now())
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), readiness.Evaluate(snap, today))
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "reference day (YYYY-MM-DD or DD/MM/YYYY), default today")
	return cmd
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a manual database backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			path, err := db.Backup(cmd.Context(), a.db, a.cfg.BackupDir, "manual", time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written: %s\n", path)
			return nil
		},
	}
}
