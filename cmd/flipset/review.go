package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/flipset/internal/cli"
	"github.com/at-ishikawa/flipset/internal/session"
)

func newReviewCommand() *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Review cards in rounds until every card is answered correctly",
	}

	reviewCmd.AddCommand(
		newReviewStartCommand(),
		newReviewStatusCommand(),
		newReviewAnswerCommand("correct", "Mark the current card as answered correctly", (*session.Engine).MarkCorrect),
		newReviewAnswerCommand("wrong", "Mark the current card as answered wrongly", (*session.Engine).MarkWrong),
		newReviewAnswerCommand("skip", "Move the current card to the end of the round", (*session.Engine).Skip),
		newReviewAnswerCommand("reset", "Start the session over from round 1", (*session.Engine).Reset),
		newReviewEndCommand(),
		newReviewRunCommand(),
	)
	return reviewCmd
}

func newReviewStartCommand() *cobra.Command {
	var categoryIDs []string
	var random bool
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a session over the cards of the given categories, replacing the current one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := session.OrderModeOrdered
			if random {
				mode = session.OrderModeRandom
			}

			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			s, err := a.engine.Start(ctx, categoryIDs, mode)
			if err != nil {
				return fmt.Errorf("engine.Start() > %w", err)
			}
			if s == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No cards in the selected categories")
				return nil
			}
			return printReviewStatus(ctx, cmd.OutOrStdout(), a.engine)
		},
	}
	cmd.Flags().StringSliceVar(&categoryIDs, "category", nil, "category ID to review (repeatable)")
	cmd.Flags().BoolVar(&random, "random", false, "shuffle the cards of every round")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newReviewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the progress and the current card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			return printReviewStatus(ctx, cmd.OutOrStdout(), a.engine)
		},
	}
}

func newReviewAnswerCommand(
	use, short string,
	apply func(*session.Engine, context.Context) (*session.Session, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if _, err := apply(a.engine, ctx); err != nil {
				return fmt.Errorf("review %s > %w", use, err)
			}
			return printReviewStatus(ctx, cmd.OutOrStdout(), a.engine)
		},
	}
}

func newReviewEndCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "Discard the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if err := a.engine.End(ctx); err != nil {
				return fmt.Errorf("engine.End() > %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Session ended")
			return nil
		},
	}
}

func newReviewRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Review the current session interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			return cli.NewReviewCLI(a.engine, a.cards, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
		},
	}
}

func printReviewStatus(ctx context.Context, w io.Writer, engine *session.Engine) error {
	s := engine.Session()
	if s == nil {
		_, _ = fmt.Fprintln(w, "No active session")
		return nil
	}
	_, _ = fmt.Fprintln(w, cli.FormatProgress(engine.Progress()))
	if s.IsComplete {
		_, _ = fmt.Fprintln(w, "Session complete")
		return nil
	}

	card, err := engine.CurrentCard(ctx)
	if err != nil {
		return fmt.Errorf("engine.CurrentCard() > %w", err)
	}
	if card == nil {
		_, _ = fmt.Fprintf(w, "Current card %s no longer exists\n", s.CurrentCardID())
		return nil
	}
	_, _ = fmt.Fprintf(w, "Current card: %s\n", card.FrontContent)
	return nil
}
