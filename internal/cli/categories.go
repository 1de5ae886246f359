package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/01moynul/souq-catalog/internal/mirror"
	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/spf13/cobra"
)

func newCategoriesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "List and manage categories",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List categories in display order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cats, err := opts.app.Store.Categories()
				if err != nil {
					return err
				}
				lang := opts.app.lang()
				return opts.printer(cmd).print(cats, func(w io.Writer) {
					fmt.Fprintln(w, "ORDER\tID\tNAME")
					for _, c := range cats {
						fmt.Fprintf(w, "%d\t%s\t%s\n", c.Order, c.ID, c.Name.Resolve(lang))
					}
				})
			},
		},
		newCategoriesSaveCommand(opts),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := opts.app.Store.DeleteCategory(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted category %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "reorder <id>...",
			Short: "Set the display order; every category id must be listed once",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := opts.app.Store.ReorderCategories(args); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reordered %d categories\n", len(args))
				return nil
			},
		},
		&cobra.Command{
			Use:   "move <id> <up|down>",
			Short: "Swap a category with its neighbour",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := parseDirection(args[1])
				if err != nil {
					return err
				}
				if err := opts.app.Store.MoveCategory(args[0], dir); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "moved category %s %s\n", args[0], dir)
				return nil
			},
		},
	)
	return cmd
}

func newCategoriesSaveCommand(opts *RootOptions) *cobra.Command {
	var (
		id     string
		ar, en string
		order  int
	)
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a category or update an existing one",
		Long: `Create a category or update an existing one.

With --id of an existing category only the given flags change, and
--order moves it. New categories always go last; use reorder to place them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := opts.app.Store
			c := models.Category{ID: id}
			if id != "" {
				existing, err := store.Category(id)
				switch {
				case err == nil:
					c = existing
				case !errors.Is(err, mirror.ErrNotFound):
					return err
				}
			}
			flags := cmd.Flags()
			if flags.Changed("ar") {
				c.Name.AR = ar
			}
			if flags.Changed("en") {
				c.Name.EN = en
			}
			if flags.Changed("order") {
				c.Order = order
			}
			if c.Name.IsEmpty() {
				return fmt.Errorf("category needs a name: pass --ar or --en")
			}

			saved, err := store.SaveCategory(c)
			if err != nil {
				return err
			}
			return opts.printer(cmd).print(saved, func(w io.Writer) {
				fmt.Fprintf(w, "saved category %s at %d\n", saved.ID, saved.Order)
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "category id (generated when empty)")
	cmd.Flags().StringVar(&ar, "ar", "", "Arabic name")
	cmd.Flags().StringVar(&en, "en", "", "English name")
	cmd.Flags().IntVar(&order, "order", 0, "display position of an existing category")
	return cmd
}
