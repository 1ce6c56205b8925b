package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/flipset/internal/flashcard"
)

func newCardCommand() *cobra.Command {
	cardCmd := &cobra.Command{
		Use:   "card",
		Short: "Manage flashcards",
	}

	cardCmd.AddCommand(
		newCardAddCommand(),
		newCardListCommand(),
		newCardShowCommand(),
		newCardEditCommand(),
		newCardDeleteCommand(),
	)
	return cardCmd
}

func newCardAddCommand() *cobra.Command {
	var categoryIDs []string
	cmd := &cobra.Command{
		Use:   "add <front> <back>",
		Short: "Add a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			card, err := a.cards.Create(ctx, args[0], args[1], categoryIDs)
			if err != nil {
				return fmt.Errorf("cards.Create() > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created card %s\n", card.ID)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&categoryIDs, "category", nil, "category ID (repeatable)")
	return cmd
}

func newCardListCommand() *cobra.Command {
	var sortField, search string
	order := orderFlag(flashcard.SortAscending)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flashcard.ParseSortOptions(sortField, order.String())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			cards, err := a.cards.FindAll(ctx, opts, search)
			if err != nil {
				return fmt.Errorf("cards.FindAll() > %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tFRONT\tBACK\tCATEGORIES")
			for _, card := range cards {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					card.ID, oneLine(card.FrontContent), oneLine(card.BackContent), categoryNames(card.Categories))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&sortField, "sort", string(flashcard.SortFieldAlphabetical), "sort field: alphabetical, created_at or updated_at")
	cmd.Flags().Var(&order, "order", "sort direction: asc or desc")
	cmd.Flags().StringVar(&search, "search", "", "only list cards containing this text on either face")
	return cmd
}

func newCardShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			card, err := a.cards.FindByID(ctx, args[0])
			if err != nil {
				return fmt.Errorf("cards.FindByID(%s) > %w", args[0], err)
			}
			if card == nil {
				return fmt.Errorf("%w: %s", flashcard.ErrCardNotFound, args[0])
			}
			printCard(cmd.OutOrStdout(), card)
			return nil
		},
	}
}

func newCardEditCommand() *cobra.Command {
	var front, back string
	var categoryIDs []string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a card. Only the given flags are changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			card, err := a.cards.FindByID(ctx, args[0])
			if err != nil {
				return fmt.Errorf("cards.FindByID(%s) > %w", args[0], err)
			}
			if card == nil {
				return fmt.Errorf("%w: %s", flashcard.ErrCardNotFound, args[0])
			}

			if cmd.Flags().Changed("front") {
				card.FrontContent = front
			}
			if cmd.Flags().Changed("back") {
				card.BackContent = back
			}
			ids := make([]string, 0, len(card.Categories))
			for _, c := range card.Categories {
				ids = append(ids, c.ID)
			}
			if cmd.Flags().Changed("category") {
				ids = categoryIDs
			}

			if err := a.cards.Update(ctx, card.ID, card.FrontContent, card.BackContent, ids); err != nil {
				return fmt.Errorf("cards.Update(%s) > %w", card.ID, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated card %s\n", card.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&front, "front", "", "new front content")
	cmd.Flags().StringVar(&back, "back", "", "new back content")
	cmd.Flags().StringSliceVar(&categoryIDs, "category", nil, "replace the categories (repeatable, empty for none)")
	return cmd
}

func newCardDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card, also from the active review session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if err := a.cards.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("cards.Delete(%s) > %w", args[0], err)
			}
			if err := a.removeFromSession(ctx, args); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %s\n", args[0])
			return nil
		},
	}
}

func printCard(w io.Writer, card *flashcard.CardWithCategories) {
	_, _ = fmt.Fprintf(w, "ID:         %s\n", card.ID)
	_, _ = fmt.Fprintf(w, "Categories: %s\n", categoryNames(card.Categories))
	_, _ = fmt.Fprintf(w, "Front:\n%s\n", card.FrontContent)
	_, _ = fmt.Fprintf(w, "Back:\n%s\n", card.BackContent)
}

func categoryNames(categories []flashcard.Category) string {
	if len(categories) == 0 {
		return flashcard.UncategorizedName
	}
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}

// oneLine keeps a table row on one line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
