// Package cli defines the library command line: the HTTP server and the
// administrative commands that operate on the same database.
package cli

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/entrypoint"
)

// Options carries build information and the hooks commands depend on.
type Options struct {
	Version string
	Commit  string

	// LoadConfig defaults to config.NewConfig.
	LoadConfig func() *config.Config
	// ReadPassword defaults to a masked terminal prompt.
	ReadPassword func(prompt string) (string, error)
}

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.NewConfig
	}
	if opts.ReadPassword == nil {
		opts.ReadPassword = readPassword
	}

	serve := newServeCommand(opts)
	root := &cobra.Command{
		Use:           "library",
		Short:         "Library catalog and circulation service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.AddCommand(
		serve,
		newSeedCatalogCommand(opts),
		newCreateAdminCommand(opts),
		newPurgeAuditCommand(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "library version %s (commit: %s)\n", opts.Version, opts.Commit)
			},
		},
	)
	return root
}

func newServeCommand(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			entrypoint.Run(opts.LoadConfig(), opts.Version)
			return nil
		},
	}
}

// openApp loads configuration and opens the database for a one-shot command.
func openApp(opts Options) (*entrypoint.App, error) {
	app, err := entrypoint.NewApp(opts.LoadConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return app, nil
}

// readPassword securely reads a password with masking
func readPassword(prompt string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("no terminal to prompt for a password, use --password")
	}
	fmt.Fprint(os.Stderr, prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bytePassword)), nil
}
