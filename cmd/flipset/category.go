package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/flipset/internal/flashcard"
)

// Ways to handle the cards of a deleted category.
const (
	deleteCardsMove         = "move"
	deleteCardsUncategorize = "uncategorize"
	deleteCardsDelete       = "delete"
)

func newCategoryCommand() *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	categoryCmd.AddCommand(
		newCategoryAddCommand(),
		newCategoryListCommand(),
		newCategoryRenameCommand(),
		newCategoryAddCardCommand(),
		newCategoryDeleteCommand(),
	)
	return categoryCmd
}

func newCategoryAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			category, err := a.categories.Create(ctx, args[0])
			if err != nil {
				return fmt.Errorf("categories.Create(%s) > %w", args[0], err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created category %s (%s)\n", category.Name, category.ID)
			return nil
		},
	}
}

func newCategoryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories with their card counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			categories, err := a.categories.FindAll(ctx)
			if err != nil {
				return fmt.Errorf("categories.FindAll() > %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tNAME\tCARDS")
			for _, c := range categories {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d\n", c.ID, c.Name, c.CardCount)
			}
			return w.Flush()
		},
	}
}

func newCategoryRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if err := a.categories.Rename(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("categories.Rename(%s) > %w", args[0], err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Renamed category %s to %s\n", args[0], flashcard.NormalizeName(args[1]))
			return nil
		},
	}
}

func newCategoryAddCardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-card <category-id> <card-id>...",
		Short: "Add cards to a category, keeping their other categories",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			categoryID, cardIDs := args[0], args[1:]
			if flashcard.IsUncategorized(categoryID) {
				return flashcard.ErrUncategorizedReadOnly
			}
			category, err := a.categories.FindByID(ctx, categoryID)
			if err != nil {
				return fmt.Errorf("categories.FindByID(%s) > %w", categoryID, err)
			}
			if category == nil {
				return fmt.Errorf("%w: %s", flashcard.ErrCategoryNotFound, categoryID)
			}

			for _, cardID := range cardIDs {
				card, err := a.cards.FindByID(ctx, cardID)
				if err != nil {
					return fmt.Errorf("cards.FindByID(%s) > %w", cardID, err)
				}
				if card == nil {
					return fmt.Errorf("%w: %s", flashcard.ErrCardNotFound, cardID)
				}
			}
			for _, cardID := range cardIDs {
				if err := a.categories.AddCard(ctx, cardID, categoryID); err != nil {
					return fmt.Errorf("categories.AddCard(%s, %s) > %w", cardID, categoryID, err)
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %d cards to %s\n", len(cardIDs), category.Name)
			return nil
		},
	}
}

func newCategoryDeleteCommand() *cobra.Command {
	var cardsMode, toID string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long: `Delete a category. --cards decides what happens to its cards:
  uncategorize  the cards only lose this category
  move          the cards are moved to the category given by --to, or to Uncategorized
  delete        the cards belonging to no other category are deleted`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("to") && cardsMode != deleteCardsMove {
				return fmt.Errorf("--to can only be used with --cards=%s", deleteCardsMove)
			}

			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			id := args[0]
			switch cardsMode {
			case deleteCardsUncategorize:
				if err := a.categories.Delete(ctx, id); err != nil {
					return fmt.Errorf("categories.Delete(%s) > %w", id, err)
				}
			case deleteCardsMove:
				if err := a.categories.MoveCardsTo(ctx, id, toID); err != nil {
					return fmt.Errorf("categories.MoveCardsTo(%s, %s) > %w", id, toID, err)
				}
			case deleteCardsDelete:
				deleted, err := a.categories.DeleteWithCards(ctx, id)
				if err != nil {
					return fmt.Errorf("categories.DeleteWithCards(%s) > %w", id, err)
				}
				if err := a.removeFromSession(ctx, deleted); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d cards\n", len(deleted))
			default:
				return fmt.Errorf("unknown --cards value %q: use %s, %s or %s",
					cardsMode, deleteCardsUncategorize, deleteCardsMove, deleteCardsDelete)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&cardsMode, "cards", deleteCardsUncategorize, "what to do with the cards: uncategorize, move or delete")
	cmd.Flags().StringVar(&toID, "to", "", "target category ID for --cards=move (default Uncategorized)")
	return cmd
}
