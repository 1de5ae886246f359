// Package cli is the command tree behind cmd/catalog: the storefront and
// admin operations of the client, answered from the local mirror and
// pushed to the server in the background.
package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/01moynul/souq-catalog/internal/config"
	"github.com/01moynul/souq-catalog/internal/logger"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "text" | "json" | "yaml"
	Remote     string
	Store      string
	StorePath  string
	LogLevel   string
	Offline    bool

	app *App
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// skipBootstrap marks commands that must not trigger the automatic pull.
const skipBootstrap = "skip-bootstrap"

// Execute runs args against a fresh command tree and always drains pending
// propagation and closes the store before returning.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts := &RootOptions{}
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if opts.app != nil {
		if cerr := opts.app.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "catalog",
		Short:         "Bilingual catalog client",
		Long:          "Browse and manage the catalog from a local mirror that stays in step with the catalog server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if !needsApp(cmd) {
				return nil
			}
			return opts.setup(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML config file (default $"+config.FileEnv+")")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.Remote, "remote", "", "server API base URL (overrides client.remote_url)")
	cmd.PersistentFlags().StringVar(&opts.Store, "store", "", "local store driver: sqlite|redis|memory")
	cmd.PersistentFlags().StringVar(&opts.StorePath, "store-path", "", "sqlite file for the local store")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (overrides log.level)")
	cmd.PersistentFlags().BoolVar(&opts.Offline, "offline", false, "work on the local mirror only")

	cmd.AddCommand(newSeedCommand(opts))
	cmd.AddCommand(newProductsCommand(opts))
	cmd.AddCommand(newCategoriesCommand(opts))
	cmd.AddCommand(newOrdersCommand(opts))
	cmd.AddCommand(newCartCommand(opts))
	cmd.AddCommand(newCheckoutCommand(opts))
	cmd.AddCommand(newWhatsAppLinkCommand(opts))
	cmd.AddCommand(newSettingsCommand(opts))
	cmd.AddCommand(newLangCommand(opts))
	cmd.AddCommand(newDashboardCommand(opts))
	cmd.AddCommand(newUploadCommand(opts))
	cmd.AddCommand(newPingCommand(opts))

	return cmd
}

// setup loads configuration, builds the App and runs the once-per-client
// bootstrap unless the command opts out.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	if o.Remote != "" {
		cfg.Client.RemoteURL = o.Remote
	}
	if o.Store != "" {
		cfg.Client.StoreDriver = o.Store
	}
	if o.StorePath != "" {
		cfg.Client.StorePath = o.StorePath
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return err
	}
	app, err := NewApp(cmd.Context(), cfg, log, o.Offline)
	if err != nil {
		return err
	}
	o.app = app

	if o.Offline || cmd.Annotations[skipBootstrap] == "true" {
		return nil
	}
	_, err = app.Boot.Bootstrap(cmd.Context())
	return err
}

// needsApp is false for cobra's own help and completion commands.
func needsApp(cmd *cobra.Command) bool {
	if cmd.Name() == "help" {
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return false
		}
	}
	return true
}

func (o *RootOptions) printer(cmd *cobra.Command) printer {
	return printer{format: o.Format, w: cmd.OutOrStdout()}
}
