package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/library/internal/auth"
	"github.com/mrlokans/library/internal/tasks"
)

func newSeedCatalogCommand(opts Options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed-catalog",
		Short: "Load books from a title;author;isbn file",
		Long: `Load books from a semicolon-delimited file with one title;author;isbn
record per line. Existing ISBNs get the title and author from the file.
Malformed lines are reported and skipped.

Unlike the seed performed at server start, this always runs.`,
		Example: "  library seed-catalog --file ./books.csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if file == "" {
				file = app.Config.Catalog.SeedPath
			}
			if file == "" {
				return fmt.Errorf("no seed file given, use --file or CATALOG_SEED_PATH")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			report, err := app.SeedCatalog(ctx, file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loaded %d books\n", report.Loaded)
			for _, skipped := range report.Skipped {
				fmt.Fprintf(out, "Skipped %s\n", skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Seed file (defaults to CATALOG_SEED_PATH)")
	return cmd
}

func newCreateAdminCommand(opts Options) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: `Create an administrator account. An existing account with the same
email is left unchanged. Without --password the password is read from the
terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			if password == "" {
				var err error
				password, err = opts.ReadPassword("Password for " + email + ": ")
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
			}

			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			created, err := app.Auth.EnsureAdmin(email, password)
			if err != nil {
				return err
			}

			normalized := auth.NormalizeEmail(email)
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "An account for %s already exists, nothing changed\n", normalized)
				return nil
			}
			app.Audit.LogAccount("cli", "account_create", normalized, "Created administrator from the command line")
			fmt.Fprintf(cmd.OutOrStdout(), "Created administrator %s\n", normalized)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Administrator email")
	cmd.Flags().StringVar(&password, "password", "", "Administrator password (prompted when empty)")
	return cmd
}

func newPurgeAuditCommand(opts Options) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "purge-audit",
		Short: "Delete audit events older than the retention period",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if days <= 0 {
				days = app.Config.Audit.RetentionDays
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			task := tasks.PurgeAuditTask{RetentionDays: days, Trigger: "cli"}
			if err := tasks.PurgeAuditProcessor(app.Audit)(ctx, task); err != nil {
				return fmt.Errorf("failed to purge audit events: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged audit events older than %s\n", task.Retention())
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Retention in days (defaults to AUDIT_RETENTION_DAYS)")
	return cmd
}
