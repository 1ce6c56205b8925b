package datasync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deckFixture() *ExportData {
	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: "2025-01-01T00:00:00Z",
		Categories: []ExportCategory{
			{ID: "c1", Name: "Nouns"},
			{ID: "c2", Name: "Verbs"},
			{ID: "c3", Name: "Empty"},
		},
		Cards: []ExportCard{
			{ID: "a", FrontContent: "Apple", BackContent: "a red fruit", CategoryIDs: []string{"c1", "c2"}},
			{ID: "r", FrontContent: " run ", BackContent: "to move <b>quickly</b>", CategoryIDs: []string{"c2"}},
			{ID: "z", FrontContent: "zeal", BackContent: "great energy", CategoryIDs: []string{}},
			{ID: "x", FrontContent: "orphan", BackContent: "unknown category", CategoryIDs: []string{"missing"}},
		},
	}
}

func TestRenderDeckMarkdown(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	got, err := RenderDeckMarkdown(deckFixture(), "")
	require.NoError(t, err)
	g.Assert(t, "deck", got)
}

func TestDeckTemplateData(t *testing.T) {
	deck := DeckTemplateData(deckFixture())

	titles := make([]string, len(deck.Sections))
	for i, s := range deck.Sections {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"Nouns", "Verbs", "Empty", "Uncategorized"}, titles)
	assert.Len(t, deck.Sections[1].Cards, 2)
	assert.Empty(t, deck.Sections[2].Cards)
	assert.Equal(t, "orphan", deck.Sections[3].Cards[1].Front)
}

func TestRenderDeckMarkdown_customTemplate(t *testing.T) {
	templatePath := filepath.Join(t.TempDir(), "deck.md.go.tmpl")
	require.NoError(t, os.WriteFile(templatePath, []byte(`{{ range .Sections }}{{ .Title }}={{ len .Cards }};{{ end }}`), 0644))

	got, err := RenderDeckMarkdown(deckFixture(), templatePath)
	require.NoError(t, err)
	assert.Equal(t, "Nouns=1;Verbs=2;Empty=0;Uncategorized=2;", string(got))
}

func TestWriteDeckPDF(t *testing.T) {
	pdfPath := filepath.Join(t.TempDir(), "deck.pdf")

	got, err := WriteDeckPDF(deckFixture(), "", pdfPath)
	require.NoError(t, err)

	info, err := os.Stat(got)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
