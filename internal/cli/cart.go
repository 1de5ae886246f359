package cli

import (
	"fmt"
	"io"

	"github.com/01moynul/souq-catalog/internal/checkout"
	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/spf13/cobra"
)

func newCartCommand(opts *RootOptions) *cobra.Command {
	var qty int
	add := &cobra.Command{
		Use:   "add <id|slug>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := opts.app
			p, count, err := app.Checkout.AddToCart(args[0], qty, app.lang())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d x %s (cart: %d items)\n", qty, p.SKU, count)
			return nil
		},
	}
	add.Flags().IntVarP(&qty, "qty", "q", 1, "quantity")

	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the visitor's cart",
	}
	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:   "list",
			Short: "Show the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				items, err := opts.app.Store.Cart()
				if err != nil {
					return err
				}
				return opts.printer(cmd).print(items, func(w io.Writer) {
					var total float64
					fmt.Fprintln(w, "PRODUCT\tNAME\tQTY\tPRICE")
					for _, it := range items {
						fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\n", it.ProductID, it.Name, it.Qty, it.Price)
						total += models.OrderTotal(it.Price, it.Qty)
					}
					fmt.Fprintf(w, "\t\tTOTAL\t%.2f\n", total)
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := opts.app.Store.ClearCart(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "cart cleared")
				return nil
			},
		},
	)
	return cmd
}

func newWhatsAppLinkCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whatsapp-link <id|slug>",
		Short: "Print the WhatsApp chat link for asking about a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := opts.app.Checkout.WhatsAppLink(args[0], opts.app.lang())
			if err != nil {
				return err
			}
			return opts.printer(cmd).print(map[string]string{"url": link}, func(w io.Writer) {
				fmt.Fprintln(w, link)
			})
		},
	}
}

func newCheckoutCommand(opts *RootOptions) *cobra.Command {
	var (
		form    checkout.Form
		product string
		qty     int
	)
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place orders for the cart, or for one product with --product",
		Long: `Place orders for the cart, or for one product with --product.

One order is created per cart line and the cart is emptied. The phone is
stored with the country's dialling prefix.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := opts.app.Checkout
			var (
				orders []models.Order
				err    error
			)
			if product != "" {
				var o models.Order
				o, err = svc.PlaceDirectOrder(product, qty, form)
				orders = []models.Order{o}
			} else {
				orders, err = svc.PlaceOrders(form)
			}
			if err != nil {
				return err
			}
			return printOrders(opts, cmd, orders)
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "customer name")
	f.StringVar(&form.Phone, "phone", "", "local phone number")
	f.StringVar(&form.CountryCode, "country", checkout.DefaultCountry, "country code (SA, AE, KW, QA, BH, OM, JO, LB, EG)")
	f.StringVar(&form.City, "city", "", "city")
	f.StringVar(&form.Address, "address", "", "street address")
	f.StringVar(&form.Notes, "notes", "", "delivery notes")
	f.StringVar(&product, "product", "", "order this product directly instead of the cart")
	f.IntVarP(&qty, "qty", "q", 1, "quantity for --product")
	return cmd
}
