package cli

import (
	"fmt"
	"io"

	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/spf13/cobra"
)

func newSettingsCommand(opts *RootOptions) *cobra.Command {
	var file string
	set := &cobra.Command{
		Use:   "set -f <file>",
		Short: "Update site settings from a JSON or YAML file",
		Long: `Update site settings from a JSON or YAML file ("-" reads stdin).

Only the keys present in the file change; everything else keeps its
current value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := opts.app.Store
			cur, err := store.Settings()
			if err != nil {
				return err
			}
			if err := readInput(file, cmd.InOrStdin(), &cur); err != nil {
				return err
			}
			if !cur.Header.MenuOrientation.Valid() {
				return fmt.Errorf("invalid header.menuOrientation %q", cur.Header.MenuOrientation)
			}
			if err := store.SaveSettings(cur); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "settings saved")
			return nil
		},
	}
	set.Flags().StringVarP(&file, "file", "f", "", "settings file (required)")
	_ = set.MarkFlagRequired("file")

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change site settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the current site settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := opts.app.Store.Settings()
				if err != nil {
					return err
				}
				lang := opts.app.lang()
				return opts.printer(cmd).print(s, func(w io.Writer) {
					fmt.Fprintf(w, "Site name\t%s\n", s.Header.SiteName.Resolve(lang))
					fmt.Fprintf(w, "Currency\t%s\n", s.Currency.Resolve(lang))
					fmt.Fprintf(w, "Cart button\t%s\n", yesNo(s.ShowCartButton))
					fmt.Fprintf(w, "Direct order\t%s\n", yesNo(s.ShowDirectOrderButton))
					fmt.Fprintf(w, "Show stock\t%s\n", yesNo(s.ShowStock))
					fmt.Fprintf(w, "WhatsApp\t%s %s\n", yesNo(s.WhatsApp.Enabled), s.WhatsApp.Phone)
					fmt.Fprintf(w, "Menu\t%s\n", s.Header.MenuOrientation)
					fmt.Fprintf(w, "Slider\t%s (%d slides)\n", yesNo(s.Slider.Enabled), len(s.Slider.Images))
				})
			},
		},
		set,
	)
	return cmd
}

func newLangCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lang [ar|en]",
		Short: "Show or set the display language",
		Args:  cobra.MaximumNArgs(1),
		Annotations: map[string]string{
			skipBootstrap: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			store := opts.app.Store
			if len(args) == 1 {
				l, err := models.ParseLang(args[0])
				if err != nil {
					return err
				}
				if err := store.SetLanguage(l); err != nil {
					return err
				}
			}
			l, err := store.Language()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), l)
			return nil
		},
	}
	return cmd
}

func newSeedCommand(opts *RootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Pull the catalog from the server, falling back to demo data",
		Long: `Pull the catalog from the server, falling back to demo data.

This runs automatically before the first command of a fresh client. Use
--force to pull again on a client that has already been seeded.`,
		Args: cobra.NoArgs,
		Annotations: map[string]string{
			skipBootstrap: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			boot := opts.app.Boot
			if force {
				if err := boot.Reset(); err != nil {
					return err
				}
			}
			rep, err := boot.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			return opts.printer(cmd).print(rep, func(w io.Writer) {
				if rep.Skipped {
					fmt.Fprintln(w, "already seeded; use --force to pull again")
					return
				}
				fmt.Fprintf(w, "settings\t%s\n", source(rep.RemoteSettings, rep.DemoSettings))
				fmt.Fprintf(w, "categories\t%s\n", countSource(rep.RemoteCategories, rep.DemoCategories))
				fmt.Fprintf(w, "products\t%s\n", countSource(rep.RemoteProducts, rep.DemoProducts))
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "pull again even if already seeded")
	return cmd
}

func source(remote, demo bool) string {
	switch {
	case remote:
		return "server"
	case demo:
		return "demo"
	}
	return "local"
}

func countSource(remote int, demo bool) string {
	if remote > 0 {
		return fmt.Sprintf("server (%d)", remote)
	}
	return source(false, demo)
}

func newPingCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		Annotations: map[string]string{
			skipBootstrap: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.app.Remote.Ping(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "pong")
			return nil
		},
	}
}
