// Package flashcard provides card and category domain models and repository interfaces.
package flashcard

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	// UncategorizedID is the id of the synthetic category holding cards without any category.
	// It is never stored as a row.
	UncategorizedID   = "__uncategorized__"
	UncategorizedName = "Uncategorized"
)

// Card is a flashcard with rich-text markup on both faces.
type Card struct {
	ID           string    `db:"id" json:"id" yaml:"id"`
	FrontContent string    `db:"front_content" json:"front_content" yaml:"front_content"`
	BackContent  string    `db:"back_content" json:"back_content" yaml:"back_content"`
	CreatedAt    time.Time `db:"created_at" json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at" yaml:"updated_at"`
}

// Category groups cards. Names are unique regardless of case.
type Category struct {
	ID        string    `db:"id" json:"id" yaml:"id"`
	Name      string    `db:"name" json:"name" yaml:"name"`
	NameKey   string    `db:"name_key" json:"-" yaml:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at" yaml:"updated_at"`
}

// CardWithCategories is a card together with the categories it belongs to, sorted by name.
type CardWithCategories struct {
	Card
	Categories []Category `db:"-" json:"categories" yaml:"categories"`
}

// CategoryWithCount is a category with the number of cards in it.
type CategoryWithCount struct {
	Category
	CardCount int `db:"card_count" json:"card_count" yaml:"card_count"`
}

// Uncategorized returns the synthetic category for cards without any category.
func Uncategorized() Category {
	return Category{
		ID:      UncategorizedID,
		Name:    UncategorizedName,
		NameKey: NameKey(UncategorizedName),
	}
}

// IsUncategorized reports whether id is the synthetic Uncategorized category.
func IsUncategorized(id string) bool {
	return id == UncategorizedID
}

// NormalizeName trims the name and puts it in Unicode NFC form.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// NameKey returns the case-folded form of a category name used for uniqueness checks.
func NameKey(name string) string {
	return cases.Fold().String(NormalizeName(name))
}

type SortField string

const (
	SortFieldAlphabetical SortField = "alphabetical"
	SortFieldCreatedAt    SortField = "created_at"
	SortFieldUpdatedAt    SortField = "updated_at"
)

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// SortOptions controls the order of card listings.
type SortOptions struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSortOptions sorts cards alphabetically by their front content.
func DefaultSortOptions() SortOptions {
	return SortOptions{Field: SortFieldAlphabetical, Direction: SortAscending}
}

// ParseSortOptions parses a field and a direction given on the command line or over RPC.
func ParseSortOptions(field, direction string) (SortOptions, error) {
	opts := DefaultSortOptions()
	switch SortField(field) {
	case "":
	case SortFieldAlphabetical, SortFieldCreatedAt, SortFieldUpdatedAt:
		opts.Field = SortField(field)
	default:
		return opts, fmt.Errorf("unknown sort field %q", field)
	}
	switch SortDirection(strings.ToLower(direction)) {
	case "":
	case SortAscending, SortDescending:
		opts.Direction = SortDirection(strings.ToLower(direction))
	default:
		return opts, fmt.Errorf("unknown sort direction %q", direction)
	}
	return opts, nil
}

func (o SortOptions) orderBy() string {
	direction := "ASC"
	if o.Direction == SortDescending {
		direction = "DESC"
	}
	switch o.Field {
	case SortFieldCreatedAt:
		return "created_at " + direction + ", id " + direction
	case SortFieldUpdatedAt:
		return "updated_at " + direction + ", id " + direction
	default:
		return "LOWER(front_content) " + direction + ", id " + direction
	}
}
