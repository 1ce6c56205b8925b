package datasync

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/at-ishikawa/flipset/internal/assets"
	"github.com/at-ishikawa/flipset/internal/flashcard"
	"github.com/at-ishikawa/flipset/internal/pdf"
)

// DeckTemplateData groups the cards of data per category for a deck template.
// A card is listed under every category it belongs to; cards without a known category come last.
func DeckTemplateData(data *ExportData) assets.DeckTemplate {
	deck := assets.DeckTemplate{
		ExportedAt: data.ExportedAt,
		Sections:   make([]assets.DeckSection, 0, len(data.Categories)+1),
	}

	known := make(map[string]bool, len(data.Categories))
	for _, category := range data.Categories {
		known[category.ID] = true
	}

	for _, category := range data.Categories {
		section := assets.DeckSection{Title: category.Name}
		for _, card := range data.Cards {
			if slices.Contains(card.CategoryIDs, category.ID) {
				section.Cards = append(section.Cards, deckCard(card))
			}
		}
		deck.Sections = append(deck.Sections, section)
	}

	uncategorized := assets.DeckSection{Title: flashcard.UncategorizedName}
	for _, card := range data.Cards {
		if !slices.ContainsFunc(card.CategoryIDs, func(id string) bool { return known[id] }) {
			uncategorized.Cards = append(uncategorized.Cards, deckCard(card))
		}
	}
	if len(uncategorized.Cards) > 0 {
		deck.Sections = append(deck.Sections, uncategorized)
	}
	return deck
}

func deckCard(card ExportCard) assets.DeckCard {
	return assets.DeckCard{Front: card.FrontContent, Back: card.BackContent}
}

// RenderDeckMarkdown renders a printable deck with one section per category.
// An empty templatePath uses the embedded template.
func RenderDeckMarkdown(data *ExportData, templatePath string) ([]byte, error) {
	var buf bytes.Buffer
	if err := assets.WriteDeck(&buf, templatePath, DeckTemplateData(data)); err != nil {
		return nil, fmt.Errorf("assets.WriteDeck() > %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDeckPDF renders the deck to a PDF file and returns its absolute path.
func WriteDeckPDF(data *ExportData, templatePath, pdfPath string) (string, error) {
	markdown, err := RenderDeckMarkdown(data, templatePath)
	if err != nil {
		return "", err
	}
	path, err := pdf.WriteMarkdown(markdown, pdfPath)
	if err != nil {
		return "", fmt.Errorf("pdf.WriteMarkdown(%s) > %w", pdfPath, err)
	}
	return path, nil
}
