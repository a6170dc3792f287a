package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"grocery-manager/internal/models"
	"grocery-manager/internal/store"

	"github.com/spf13/cobra"
)

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "grocery",
		Short:         "Manage grocery lists kept on a list backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.writeMetrics()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.gatewayCfg.BaseURL, "api-url", a.gatewayCfg.BaseURL, "list backend base URL (GROCERY_API_URL)")
	flags.StringVar(&a.gatewayCfg.UserID, "user", a.gatewayCfg.UserID, "owner id sent with every record (GROCERY_USER_ID)")
	flags.DurationVar(&a.gatewayCfg.Timeout, "timeout", a.gatewayCfg.Timeout, "per-request timeout")
	flags.StringVar(&a.metricsFile, "metrics-file", "", "write store metrics to this file after the command")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log gateway and store events to stderr")

	root.AddCommand(
		newListCommand(a),
		newAddCommand(a),
		newUpdateCommand(a),
		newDeleteCommand(a),
		newRenameCommand(a),
		newTotalCommand(a),
		newShareCommand(a),
		newSearchCommand(a),
	)

	return root
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [category]",
		Short: "Show items with line totals",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := models.AllCategories()
			if len(args) == 1 {
				category, err := parseCategory(args[0])
				if err != nil {
					return err
				}
				categories = []models.Category{category}
			}

			for i, category := range categories {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				printCategory(cmd.OutOrStdout(), a.store.Title(category), a.store.Items(category), a.store.ComputeTotal(category))
			}
			return nil
		},
	}
}

type draftFlags struct {
	name, quantity, price, notes string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "item name")
	cmd.Flags().StringVar(&f.quantity, "quantity", "", "quantity")
	cmd.Flags().StringVar(&f.price, "price", "", "unit price")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-text notes")
}

// apply overlays the flags the user set onto d
func (f *draftFlags) apply(cmd *cobra.Command, d store.Draft) store.Draft {
	if cmd.Flags().Changed("name") {
		d.Name = f.name
	}
	if cmd.Flags().Changed("quantity") {
		d.Quantity = f.quantity
	}
	if cmd.Flags().Changed("price") {
		d.Price = f.price
	}
	if cmd.Flags().Changed("notes") {
		d.Notes = f.notes
	}
	return d
}

func newAddCommand(a *app) *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:   "add <category>",
		Short: "Add an item to a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategory(args[0])
			if err != nil {
				return err
			}

			item, err := a.store.AddItem(cmd.Context(), category, f.apply(cmd, store.Draft{}), a.gatewayCfg.UserID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", item.Name, item.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newUpdateCommand(a *app) *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:   "update <category> <id>",
		Short: "Change fields of an existing item",
		Long:  "Change fields of an existing item. Fields without a flag keep their current value.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategory(args[0])
			if err != nil {
				return err
			}

			current, ok := a.store.Item(category, args[1])
			if !ok {
				return fmt.Errorf("%s has no item %s: %w", category, args[1], store.ErrNotFound)
			}

			item, err := a.store.UpdateItem(cmd.Context(), category, current.ID, f.apply(cmd, current.Draft()), a.gatewayCfg.UserID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "updated %s (%s)\n", item.Name, item.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category> <id>",
		Short: "Remove an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategory(args[0])
			if err != nil {
				return err
			}

			if err := a.store.DeleteItem(cmd.Context(), category, args[1], a.gatewayCfg.UserID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[1])
			return nil
		},
	}
}

func newRenameCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <category> <title>",
		Short: "Set the display title of a category",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategory(args[0])
			if err != nil {
				return err
			}

			title := strings.Join(args[1:], " ")
			if err := a.store.RenameCategory(cmd.Context(), category, title, a.gatewayCfg.UserID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %q\n", category, a.store.Title(category))
			return nil
		},
	}
}

func newTotalCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "total [category]",
		Short: "Print category totals",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				category, err := parseCategory(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "R%s\n", a.store.ComputeTotal(category))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, category := range models.AllCategories() {
				fmt.Fprintf(w, "%s\tR%s\n", a.store.Title(category), a.store.ComputeTotal(category))
			}
			return w.Flush()
		},
	}
}

func newShareCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "share <category>",
		Short: "Print a category as shareable text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategory(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), a.store.ShareText(category))
			return nil
		},
	}
}

func newSearchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <category> <query>",
		Short: "Find items whose name or notes contain query",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategory(args[0])
			if err != nil {
				return err
			}

			items, err := a.store.Search(cmd.Context(), category, strings.Join(args[1:], " "), a.gatewayCfg.UserID)
			if err != nil {
				return err
			}

			printCategory(cmd.OutOrStdout(), a.store.Title(category), items, store.ComputeTotal(items))
			return nil
		},
	}
}

func printCategory(out io.Writer, title string, items []store.Item, total string) {
	fmt.Fprintln(out, title)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, item := range items {
		fmt.Fprintf(w, "  %s\t%s\t%s x R%s\tR%s\t%s\n", item.ID, item.Name, item.Quantity, item.Price, store.ItemTotal(item), item.Notes)
	}
	fmt.Fprintf(w, "  total\t\t\tR%s\t\n", total)
	_ = w.Flush()
}
