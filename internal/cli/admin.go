package cli

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/spf13/cobra"
)

func newDashboardCommand(opts *RootOptions) *cobra.Command {
	var fromServer bool
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show catalog and order counters",
		Long: `Show catalog and order counters.

Counters come from the local mirror; --server asks the server instead,
which is useful to spot divergence after failed propagation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := opts.app
			var stats models.DashboardStats
			if fromServer {
				if opts.Offline {
					return fmt.Errorf("dashboard --server needs the server; drop --offline")
				}
				var err error
				if stats, err = app.Remote.Dashboard(cmd.Context()); err != nil {
					return err
				}
			} else {
				products, err := app.Store.Products()
				if err != nil {
					return err
				}
				cats, err := app.Store.Categories()
				if err != nil {
					return err
				}
				orders, err := app.Store.Orders()
				if err != nil {
					return err
				}
				stats = models.ComputeDashboard(products, cats, orders)
			}
			return opts.printer(cmd).print(stats, func(w io.Writer) {
				fmt.Fprintf(w, "Products\t%d (%d active, %d low stock)\n", stats.Products, stats.ActiveProducts, stats.LowStock)
				fmt.Fprintf(w, "Categories\t%d\n", stats.Categories)
				statuses := make([]string, 0, len(stats.Orders))
				for s := range stats.Orders {
					statuses = append(statuses, string(s))
				}
				slices.Sort(statuses)
				for _, s := range statuses {
					fmt.Fprintf(w, "Orders %s\t%d\n", s, stats.Orders[models.OrderStatus(s)])
				}
				fmt.Fprintf(w, "Revenue\t%.2f\n", stats.Revenue)
			})
		},
	}
	cmd.Flags().BoolVar(&fromServer, "server", false, "read the counters from the server")
	return cmd
}

func newUploadCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload an image to the server and print its src",
		Args:  cobra.ExactArgs(1),
		Annotations: map[string]string{
			skipBootstrap: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Offline {
				return fmt.Errorf("upload needs the server; drop --offline")
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			src, err := opts.app.Remote.UploadImage(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), src)
			return nil
		},
	}
}
