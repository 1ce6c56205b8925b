package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/flipset/internal/flashcard"
)

func TestCardCommands(t *testing.T) {
	c := newTestCLI(t)
	verbs := c.createdID("category", "add", "Verbs")
	runID := c.createdID("card", "add", "run", "to move quickly", "--category", verbs)
	walkID := c.createdID("card", "add", "walk", "to move on foot")

	out := c.mustRun("card", "list")
	assert.Regexp(t, runID+`\s+run\s+to move quickly\s+Verbs\n`, out)
	assert.Regexp(t, walkID+`\s+walk\s+to move on foot\s+Uncategorized\n`, out)
	assert.Less(t, strings.Index(out, "run"), strings.Index(out, "walk"))

	out = c.mustRun("card", "list", "--order", "desc")
	assert.Less(t, strings.Index(out, "walk"), strings.Index(out, "run"))

	out = c.mustRun("card", "list", "--search", "foot")
	assert.Contains(t, out, walkID)
	assert.NotContains(t, out, runID)

	_, err := c.run("card", "list", "--sort", "random")
	assert.Error(t, err)

	out = c.mustRun("card", "show", runID)
	assert.Equal(t, "ID:         "+runID+"\nCategories: Verbs\nFront:\nrun\nBack:\nto move quickly\n", out)

	c.mustRun("card", "edit", runID, "--front", "sprint")
	out = c.mustRun("card", "show", runID)
	assert.Contains(t, out, "Front:\nsprint\nBack:\nto move quickly\n")
	assert.Contains(t, out, "Categories: Verbs\n")

	c.mustRun("card", "edit", walkID, "--category", verbs)
	assert.Contains(t, c.mustRun("card", "show", walkID), "Categories: Verbs\n")
	c.mustRun("card", "edit", walkID, "--category=")
	assert.Contains(t, c.mustRun("card", "show", walkID), "Categories: Uncategorized\n")

	assert.Equal(t, "Deleted card "+runID+"\n", c.mustRun("card", "delete", runID))
	_, err = c.run("card", "show", runID)
	assert.ErrorIs(t, err, flashcard.ErrCardNotFound)
	_, err = c.run("card", "delete", runID)
	assert.ErrorIs(t, err, flashcard.ErrCardNotFound)
	_, err = c.run("card", "edit", runID, "--front", "x")
	assert.ErrorIs(t, err, flashcard.ErrCardNotFound)
}

func TestCardDelete_removesFromSession(t *testing.T) {
	c := newTestCLI(t)
	verbs := c.createdID("category", "add", "Verbs")
	runID := c.createdID("card", "add", "run", "to move quickly", "--category", verbs)
	c.createdID("card", "add", "walk", "to move on foot", "--category", verbs)

	out := c.mustRun("review", "start", "--category", verbs)
	require.Contains(t, out, "Current card: run\n")

	c.mustRun("card", "delete", runID)

	out = c.mustRun("review", "status")
	assert.Equal(t, "[Round 1] Card 1/1 | Correct 0/1 (0%)\nCurrent card: walk\n", out)
}
