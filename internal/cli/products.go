package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/01moynul/souq-catalog/internal/mirror"
	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/spf13/cobra"
)

func newProductsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "List and manage products",
	}
	cmd.AddCommand(
		newProductsListCommand(opts),
		newProductsGetCommand(opts),
		newProductsSaveCommand(opts),
		newProductsDeleteCommand(opts),
		newProductsReorderCommand(opts),
		newProductsMoveCommand(opts),
	)
	return cmd
}

func newProductsListCommand(opts *RootOptions) *cobra.Command {
	var (
		public   bool
		q        mirror.ProductQuery
		sortFlag string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products in display order",
		Long: `List products in display order.

The admin view (default) shows every product. --public shows what a
visitor sees: active products only, narrowed by --query and --category,
ordered by --sort (order, name, price-low, price-high, newest). --featured
lists the home page's featured products. The stock column follows the
showStock setting in the public view.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := opts.app
			lang := app.lang()
			browsing := q.Query != "" || q.CategoryID != "" || sortFlag != "" || q.Featured
			if browsing && !public {
				return fmt.Errorf("--query, --category, --sort and --featured need --public")
			}

			var (
				products  []models.Product
				err       error
				showStock = true
			)
			if public {
				if q.Sort, err = mirror.ParseSort(sortFlag); err != nil {
					return err
				}
				q.Lang = lang
				if products, err = app.Store.Browse(q); err != nil {
					return err
				}
				settings, err := app.Store.Settings()
				if err != nil {
					return err
				}
				showStock = settings.ShowStock
			} else if products, err = app.Store.Products(); err != nil {
				return err
			}

			return opts.printer(cmd).print(products, func(w io.Writer) {
				header := "ORDER\tID\tSLUG\tSKU\tNAME\tPRICE"
				if showStock {
					header += "\tSTOCK"
				}
				fmt.Fprintln(w, header+"\tACTIVE")
				for _, p := range products {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.2f", p.Order, p.ID, p.Slug, p.SKU, p.Name.Resolve(lang), p.Price)
					if showStock {
						fmt.Fprintf(w, "\t%d", p.Stock)
					}
					fmt.Fprintf(w, "\t%s\n", yesNo(p.IsActive()))
				}
			})
		},
	}
	f := cmd.Flags()
	f.BoolVar(&public, "public", false, "only products a visitor can see")
	f.StringVar(&q.Query, "query", "", "search names, SKU and short descriptions")
	f.StringVar(&q.CategoryID, "category", "", "only this category id")
	f.StringVar(&sortFlag, "sort", "", "order, name, price-low, price-high or newest")
	f.BoolVar(&q.Featured, "featured", false, "featured products only")
	return cmd
}

func newProductsGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|slug>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.app.Store.Product(args[0])
			if err != nil {
				return err
			}
			lang := opts.app.lang()
			return opts.printer(cmd).print(p, func(w io.Writer) {
				fmt.Fprintf(w, "ID\t%s\n", p.ID)
				fmt.Fprintf(w, "Slug\t%s\n", p.Slug)
				fmt.Fprintf(w, "SKU\t%s\n", p.SKU)
				fmt.Fprintf(w, "Name\t%s\n", p.Name.Resolve(lang))
				fmt.Fprintf(w, "Summary\t%s\n", p.ShortDescription.Resolve(lang))
				fmt.Fprintf(w, "Price\t%.2f\n", p.Price)
				fmt.Fprintf(w, "Stock\t%d\n", p.Stock)
				if p.DozenQty != nil {
					fmt.Fprintf(w, "Dozen\t%d\n", *p.DozenQty)
				}
				if p.CategoryID != nil {
					fmt.Fprintf(w, "Category\t%s\n", *p.CategoryID)
				}
				fmt.Fprintf(w, "Active\t%s\n", yesNo(p.IsActive()))
				for _, img := range p.Images {
					fmt.Fprintf(w, "Image %d\t%s\t%s\n", img.Position, img.Src, img.Caption.Resolve(lang))
				}
			})
		},
	}
}

func newProductsSaveCommand(opts *RootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "save -f <file>",
		Short: "Create or update a product from a JSON or YAML file",
		Long: `Create or update a product from a JSON or YAML file ("-" reads stdin).

A product without an id is created and placed last. A blank slug is
derived from the name. When the id already exists the file is applied
over the stored product, so fields it leaves out (order, createdAt,
images...) keep their current values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readJSON(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			p, err := productBase(opts.app.Store, raw)
			if err != nil {
				return err
			}
			if err := decodeInput(file, raw, &p); err != nil {
				return err
			}
			if err := models.ValidateProduct(p); err != nil {
				return err
			}
			saved, err := opts.app.Store.SaveProduct(p)
			if err != nil {
				return err
			}
			return opts.printer(cmd).print(saved, func(w io.Writer) {
				fmt.Fprintf(w, "saved product %s (%s)\n", saved.ID, saved.Slug)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "product file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// productBase returns the stored product the input names by id, or a
// zero product when the id is absent or unknown. An images list in the
// input replaces the stored one whole.
func productBase(store *mirror.Store, raw []byte) (models.Product, error) {
	var head struct {
		ID     string          `json:"id"`
		Images json.RawMessage `json:"images"`
	}
	if err := json.Unmarshal(raw, &head); err != nil || head.ID == "" {
		return models.Product{}, nil
	}
	p, err := store.Product(head.ID)
	if errors.Is(err, mirror.ErrNotFound) || (err == nil && p.ID != head.ID) {
		return models.Product{}, nil
	}
	if err != nil {
		return models.Product{}, err
	}
	if len(head.Images) > 0 {
		p.Images = nil
	}
	return p, nil
}

func newProductsDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.app.Store.DeleteProduct(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted product %s\n", args[0])
			return nil
		},
	}
}

func newProductsReorderCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Set the display order; every product id must be listed once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.app.Store.ReorderProducts(args); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reordered %d products\n", len(args))
			return nil
		},
	}
}

func newProductsMoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "move <id> <up|down>",
		Short:     "Swap a product with its neighbour",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(mirror.Up), string(mirror.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := parseDirection(args[1])
			if err != nil {
				return err
			}
			if err := opts.app.Store.MoveProduct(args[0], dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "moved product %s %s\n", args[0], dir)
			return nil
		},
	}
}

func parseDirection(s string) (mirror.Direction, error) {
	switch d := mirror.Direction(s); d {
	case mirror.Up, mirror.Down:
		return d, nil
	}
	return "", fmt.Errorf("invalid direction %q: must be up or down", s)
}
