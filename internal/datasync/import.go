package datasync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/flipset/internal/flashcard"
	"github.com/at-ishikawa/flipset/internal/validation"
)

// ErrInvalidImport is returned when an import file is malformed. Nothing is written in that case.
var ErrInvalidImport = errors.New("invalid import file")

// Resolution decides what happens to an existing category whose name an imported category uses.
type Resolution string

const (
	// ResolutionMerge keeps the existing category and its cards, adding the imported cards to it.
	ResolutionMerge Resolution = "merge"
	// ResolutionOverwrite deletes the cards owned only by the existing category before importing.
	ResolutionOverwrite Resolution = "overwrite"
)

// ParseResolution parses a resolution. An empty string means merge.
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(s) {
	case "", ResolutionMerge:
		return ResolutionMerge, nil
	case ResolutionOverwrite:
		return ResolutionOverwrite, nil
	default:
		return "", fmt.Errorf("unknown resolution %q", s)
	}
}

// Conflict is an imported category whose name already exists regardless of case.
type Conflict struct {
	ImportedID   string
	ImportedName string
	Existing     flashcard.Category
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	// Resolutions maps a conflicting category name, compared regardless of case, to its resolution.
	Resolutions map[string]Resolution
	// DefaultResolution applies to conflicts missing from Resolutions. Empty means merge.
	DefaultResolution Resolution
	DryRun            bool
}

func (o ImportOptions) resolution(name string) Resolution {
	key := flashcard.NameKey(name)
	for n, r := range o.Resolutions {
		if flashcard.NameKey(n) == key {
			return r
		}
	}
	if o.DefaultResolution == "" {
		return ResolutionMerge
	}
	return o.DefaultResolution
}

// ImportResult tracks counts for an import.
type ImportResult struct {
	CardsImported      int
	CategoriesImported int
	CategoriesMerged   int
	// DeletedCardIDs lists the existing cards removed by overwritten categories.
	DeletedCardIDs []string
}

// Importer reads export files and writes their cards and categories to the store.
type Importer struct {
	cards      flashcard.CardRepository
	categories flashcard.CategoryRepository
	writer     io.Writer
	validator  *validation.Validator
}

// NewImporter creates a new Importer reporting each category and card to writer.
func NewImporter(cards flashcard.CardRepository, categories flashcard.CategoryRepository, writer io.Writer) (*Importer, error) {
	v, err := validation.New("json")
	if err != nil {
		return nil, fmt.Errorf("validation.New() > %w", err)
	}
	return &Importer{
		cards:      cards,
		categories: categories,
		writer:     writer,
		validator:  v,
	}, nil
}

type importFile struct {
	Version    *float64         `json:"version" yaml:"version" validate:"required"`
	ExportedAt string           `json:"exported_at" yaml:"exported_at"`
	Categories []importCategory `json:"categories" yaml:"categories" validate:"required,dive"`
	Cards      []importCard     `json:"cards" yaml:"cards" validate:"required,dive"`
}

type importCategory struct {
	ID   string `json:"id" yaml:"id" validate:"required"`
	Name string `json:"name" yaml:"name" validate:"required"`
}

type importCard struct {
	ID           string   `json:"id" yaml:"id" validate:"required"`
	FrontContent *string  `json:"front_content" yaml:"front_content" validate:"required"`
	BackContent  *string  `json:"back_content" yaml:"back_content" validate:"required"`
	CategoryIDs  []string `json:"category_ids" yaml:"category_ids" validate:"required"`
}

// Parse decodes and validates an export file. JSON and YAML are accepted.
func (imp *Importer) Parse(r io.Reader, format Format) (*ExportData, error) {
	var file importFile
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&file); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidImport, err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&file); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidImport, err)
		}
	default:
		return nil, fmt.Errorf("%w: cannot import %s files", ErrInvalidImport, format)
	}
	if err := imp.validator.Struct(file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}

	data := &ExportData{
		Version:    int(*file.Version),
		ExportedAt: file.ExportedAt,
		Categories: make([]ExportCategory, len(file.Categories)),
		Cards:      make([]ExportCard, len(file.Cards)),
	}
	for i, c := range file.Categories {
		data.Categories[i] = ExportCategory{ID: c.ID, Name: c.Name}
	}
	for i, c := range file.Cards {
		data.Cards[i] = ExportCard{
			ID:           c.ID,
			FrontContent: *c.FrontContent,
			BackContent:  *c.BackContent,
			CategoryIDs:  c.CategoryIDs,
		}
	}
	return data, nil
}

// FindConflicts returns the imported categories whose names already exist.
func (imp *Importer) FindConflicts(ctx context.Context, data *ExportData) ([]Conflict, error) {
	var conflicts []Conflict
	for _, c := range data.Categories {
		existing, err := imp.categories.FindByName(ctx, c.Name)
		if err != nil {
			return nil, fmt.Errorf("categories.FindByName(%s) > %w", c.Name, err)
		}
		if existing == nil {
			continue
		}
		conflicts = append(conflicts, Conflict{
			ImportedID:   c.ID,
			ImportedName: c.Name,
			Existing:     *existing,
		})
	}
	return conflicts, nil
}

// Import writes the categories and cards of data. Every card gets a new id.
// Categories named like an existing one are merged into it or overwrite it, per opts.
func (imp *Importer) Import(ctx context.Context, data *ExportData, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{DeletedCardIDs: []string{}}

	// imported category id => stored category id
	categoryIDs := make(map[string]string, len(data.Categories))
	// name key => stored category id, for names repeated within the file
	seen := make(map[string]string, len(data.Categories))

	for _, c := range data.Categories {
		name := flashcard.NormalizeName(c.Name)
		key := flashcard.NameKey(name)
		if flashcard.IsUncategorized(c.ID) || key == flashcard.NameKey(flashcard.UncategorizedName) {
			fmt.Fprintf(imp.writer, "  [SKIP]  %q (reserved)\n", name)
			continue
		}
		if id, ok := seen[key]; ok {
			categoryIDs[c.ID] = id
			continue
		}

		existing, err := imp.categories.FindByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("categories.FindByName(%s) > %w", name, err)
		}

		var id string
		switch {
		case existing == nil:
			id = c.ID
			if !opts.DryRun {
				created, err := imp.categories.Create(ctx, name)
				if err != nil {
					return nil, fmt.Errorf("categories.Create(%s) > %w", name, err)
				}
				id = created.ID
			}
			fmt.Fprintf(imp.writer, "  [NEW]  %q\n", name)
			result.CategoriesImported++
		case opts.resolution(name) == ResolutionOverwrite:
			id = existing.ID
			if !opts.DryRun {
				deleted, err := imp.categories.DeleteExclusiveCards(ctx, existing.ID)
				if err != nil {
					return nil, fmt.Errorf("categories.DeleteExclusiveCards(%s) > %w", existing.ID, err)
				}
				if err := imp.categories.RemoveAssociations(ctx, existing.ID); err != nil {
					return nil, fmt.Errorf("categories.RemoveAssociations(%s) > %w", existing.ID, err)
				}
				result.DeletedCardIDs = append(result.DeletedCardIDs, deleted...)
			}
			fmt.Fprintf(imp.writer, "  [OVERWRITE]  %q\n", existing.Name)
		default:
			id = existing.ID
			fmt.Fprintf(imp.writer, "  [MERGE]  %q\n", existing.Name)
			result.CategoriesMerged++
		}
		categoryIDs[c.ID] = id
		seen[key] = id
	}

	for _, card := range data.Cards {
		var targets []string
		for _, sourceID := range card.CategoryIDs {
			id, ok := categoryIDs[sourceID]
			if !ok || slices.Contains(targets, id) {
				continue
			}
			targets = append(targets, id)
		}
		if !opts.DryRun {
			if _, err := imp.cards.Create(ctx, card.FrontContent, card.BackContent, targets); err != nil {
				return nil, fmt.Errorf("cards.Create(%s) > %w", card.ID, err)
			}
		}
		result.CardsImported++
	}
	fmt.Fprintf(imp.writer, "  %d cards imported\n", result.CardsImported)
	return result, nil
}
