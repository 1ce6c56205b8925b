package datasync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/flipset/internal/flashcard"
)

// Exporter reads every card and category from the store.
type Exporter struct {
	cards      flashcard.CardRepository
	categories flashcard.CategoryRepository
	now        func() time.Time
}

// NewExporter creates a new Exporter.
func NewExporter(cards flashcard.CardRepository, categories flashcard.CategoryRepository) *Exporter {
	return &Exporter{
		cards:      cards,
		categories: categories,
		now:        time.Now,
	}
}

// Export reads all cards and categories. Uncategorized is not exported; its cards have no category ids.
func (e *Exporter) Export(ctx context.Context) (*ExportData, error) {
	categories, err := e.categories.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories.FindAll() > %w", err)
	}
	cards, err := e.cards.FindAll(ctx, flashcard.DefaultSortOptions(), "")
	if err != nil {
		return nil, fmt.Errorf("cards.FindAll() > %w", err)
	}

	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: e.now().UTC().Format(time.RFC3339),
		Categories: make([]ExportCategory, 0, len(categories)),
		Cards:      make([]ExportCard, 0, len(cards)),
	}
	for _, c := range categories {
		if flashcard.IsUncategorized(c.ID) {
			continue
		}
		data.Categories = append(data.Categories, ExportCategory{ID: c.ID, Name: c.Name})
	}
	for _, c := range cards {
		categoryIDs := make([]string, 0, len(c.Categories))
		for _, category := range c.Categories {
			categoryIDs = append(categoryIDs, category.ID)
		}
		data.Cards = append(data.Cards, ExportCard{
			ID:           c.ID,
			FrontContent: c.FrontContent,
			BackContent:  c.BackContent,
			CategoryIDs:  categoryIDs,
		})
	}
	return data, nil
}

// WriteJSON writes data as indented JSON.
func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoder.Encode() > %w", err)
	}
	return nil
}

// WriteYAML writes data as YAML with the same keys as the JSON export.
func WriteYAML(w io.Writer, data *ExportData) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoder.Encode() > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encoder.Close() > %w", err)
	}
	return nil
}
