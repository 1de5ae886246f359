package cli

import (
	"fmt"
	"io"

	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/01moynul/souq-catalog/internal/reconcile"
	"github.com/spf13/cobra"
)

func newOrdersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "Review and manage placed orders",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List orders, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				orders, err := opts.app.Store.Orders()
				if err != nil {
					return err
				}
				return printOrders(opts, cmd, orders)
			},
		},
		&cobra.Command{
			Use:   "status <id> <status>",
			Short: "Move an order to pending|confirmed|shipped|delivered|cancelled",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				status := models.OrderStatus(args[1])
				if !status.Valid() {
					return fmt.Errorf("unknown status %q", args[1])
				}
				if err := opts.app.Store.UpdateOrderStatus(args[0], status); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "order %s is %s\n", args[0], status)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete an order",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := opts.app.Store.DeleteOrder(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted order %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "pull",
			Short: "Merge the server's orders into the local mirror",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if opts.Offline {
					return fmt.Errorf("orders pull needs the server; drop --offline")
				}
				n, err := reconcile.PullOrders(cmd.Context(), opts.app.Store, opts.app.Remote)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pulled %d orders\n", n)
				return nil
			},
		},
	)
	return cmd
}

func printOrders(opts *RootOptions, cmd *cobra.Command, orders []models.Order) error {
	lang := opts.app.lang()
	return opts.printer(cmd).print(orders, func(w io.Writer) {
		fmt.Fprintln(w, "ID\tDATE\tTIME\tPRODUCT\tQTY\tTOTAL\tSTATUS\tCUSTOMER\tPHONE")
		for _, o := range orders {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2f\t%s\t%s\t%s\n",
				o.ID, o.OrderDate, o.OrderTime, o.ProductName.Resolve(lang), o.Quantity,
				o.TotalAmount, o.Status, o.CustomerName, o.CustomerPhone)
		}
	})
}
