// Package cli implements the interactive terminal review of flashcards.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/flipset/internal/flashcard"
	"github.com/at-ishikawa/flipset/internal/session"
)

var errEnd = errors.New("end")

// Action is what the reviewer does with a flipped card.
type Action string

const (
	ActionCorrect Action = "c"
	ActionWrong   Action = "w"
	ActionSkip    Action = "s"
	ActionDelete  Action = "d"
	ActionReset   Action = "r"
	ActionEnd     Action = "e"
	ActionQuit    Action = "q"
)

var actionNames = map[Action]string{
	ActionCorrect: "correct",
	ActionWrong:   "wrong",
	ActionSkip:    "skip",
	ActionDelete:  "delete",
	ActionReset:   "reset",
	ActionEnd:     "end",
	ActionQuit:    "quit",
}

// ParseAction accepts the first letter or the full name of an action, in any case.
func ParseAction(input string) (Action, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", false
	}
	a := Action(input[:1])
	name, ok := actionNames[a]
	if !ok || (len(input) > 1 && input != name) {
		return "", false
	}
	return a, true
}

// ReviewCLI drives the review session of an engine from a terminal.
type ReviewCLI struct {
	engine       *session.Engine
	cards        flashcard.CardRepository
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	green        *color.Color
	red          *color.Color
}

// NewReviewCLI creates a ReviewCLI reading answers from in and writing to out.
func NewReviewCLI(engine *session.Engine, cards flashcard.CardRepository, in io.Reader, out io.Writer) *ReviewCLI {
	return &ReviewCLI{
		engine:       engine,
		cards:        cards,
		stdinReader:  bufio.NewReader(in),
		stdoutWriter: out,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		green:        color.New(color.FgGreen),
		red:          color.New(color.FgRed),
	}
}

// Run reviews cards until the session completes, the reviewer quits, the input ends or an interrupt arrives.
// Quitting keeps the session so that it can be resumed later.
func (cli *ReviewCLI) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		for ctx.Err() == nil {
			if err := cli.Step(ctx); err != nil {
				if !errors.Is(err, errEnd) {
					errCh <- err
				}
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("review > %w", err)
		}
	}
	return nil
}

// Step shows the current card, flips it on Enter and applies the chosen action.
// It returns errEnd when there is nothing more to review in this run.
func (cli *ReviewCLI) Step(ctx context.Context) error {
	s := cli.engine.Session()
	if s == nil {
		_, _ = fmt.Fprintln(cli.stdoutWriter, "No active session. Start one with `flipset review start`.")
		return errEnd
	}
	if s.IsComplete {
		p := cli.engine.Progress()
		_, _ = cli.green.Fprintf(cli.stdoutWriter, "Session complete! %d cards answered correctly in %d rounds.\n", p.TotalCards, p.Round)
		return errEnd
	}

	card, err := cli.engine.CurrentCard(ctx)
	if err != nil {
		return fmt.Errorf("engine.CurrentCard() > %w", err)
	}
	if card == nil {
		id := s.CurrentCardID()
		_, _ = fmt.Fprintf(cli.stdoutWriter, "Card %s no longer exists. Removing it from the session.\n", id)
		if _, err := cli.engine.RemoveCard(ctx, id); err != nil {
			return fmt.Errorf("engine.RemoveCard(%s) > %w", id, err)
		}
		return nil
	}

	_, _ = fmt.Fprintln(cli.stdoutWriter, FormatProgress(cli.engine.Progress()))
	_, _ = fmt.Fprintf(cli.stdoutWriter, "%s\n", cli.bold.Sprint(card.FrontContent))
	_, _ = fmt.Fprint(cli.stdoutWriter, "Press Enter to show the answer (q to quit): ")
	line, err := cli.readLine()
	if err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(line), string(ActionQuit)) {
		return errEnd
	}
	_, _ = fmt.Fprintf(cli.stdoutWriter, "%s\n", cli.italic.Sprint(card.BackContent))

	action, err := cli.readAction()
	if err != nil {
		return err
	}
	return cli.apply(ctx, action, card)
}

func (cli *ReviewCLI) apply(ctx context.Context, action Action, card *flashcard.CardWithCategories) error {
	switch action {
	case ActionCorrect:
		if _, err := cli.engine.MarkCorrect(ctx); err != nil {
			return fmt.Errorf("engine.MarkCorrect() > %w", err)
		}
		_, _ = cli.green.Fprintln(cli.stdoutWriter, "✅ Correct")
	case ActionWrong:
		if _, err := cli.engine.MarkWrong(ctx); err != nil {
			return fmt.Errorf("engine.MarkWrong() > %w", err)
		}
		_, _ = cli.red.Fprintln(cli.stdoutWriter, "❌ Wrong, it comes back next round")
	case ActionSkip:
		if _, err := cli.engine.Skip(ctx); err != nil {
			return fmt.Errorf("engine.Skip() > %w", err)
		}
	case ActionDelete:
		if err := cli.cards.Delete(ctx, card.ID); err != nil {
			return fmt.Errorf("cards.Delete(%s) > %w", card.ID, err)
		}
		if _, err := cli.engine.RemoveCard(ctx, card.ID); err != nil {
			return fmt.Errorf("engine.RemoveCard(%s) > %w", card.ID, err)
		}
		_, _ = fmt.Fprintf(cli.stdoutWriter, "Deleted %s\n", card.FrontContent)
		if cli.engine.Session() == nil {
			_, _ = fmt.Fprintln(cli.stdoutWriter, "No cards left. The session has ended.")
			return errEnd
		}
	case ActionReset:
		if _, err := cli.engine.Reset(ctx); err != nil {
			return fmt.Errorf("engine.Reset() > %w", err)
		}
		_, _ = fmt.Fprintln(cli.stdoutWriter, "Session reset to round 1")
	case ActionEnd:
		if err := cli.engine.End(ctx); err != nil {
			return fmt.Errorf("engine.End() > %w", err)
		}
		_, _ = fmt.Fprintln(cli.stdoutWriter, "Session ended")
		return errEnd
	case ActionQuit:
		return errEnd
	}
	_, _ = fmt.Fprintln(cli.stdoutWriter)
	return nil
}

func (cli *ReviewCLI) readAction() (Action, error) {
	for {
		_, _ = fmt.Fprint(cli.stdoutWriter, "[c]orrect [w]rong [s]kip [d]elete [r]eset [e]nd [q]uit: ")
		line, err := cli.readLine()
		if err != nil {
			return "", err
		}
		if action, ok := ParseAction(line); ok {
			return action, nil
		}
		_, _ = fmt.Fprintf(cli.stdoutWriter, "Unknown action %q\n", strings.TrimSpace(line))
	}
}

// readLine returns errEnd once the input is exhausted.
// A last line without a trailing newline is still returned.
func (cli *ReviewCLI) readLine() (string, error) {
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line != "" {
				return line, nil
			}
			_, _ = fmt.Fprintln(cli.stdoutWriter)
			return "", errEnd
		}
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return line, nil
}

// FormatProgress renders progress as a single status line.
func FormatProgress(p *session.Progress) string {
	if p == nil {
		return "No active session"
	}
	return fmt.Sprintf("[Round %d] Card %d/%d | Correct %d/%d (%d%%)",
		p.Round, p.CurrentPosition, p.TotalInRound, p.CorrectCount, p.TotalCards, p.Percent())
}
