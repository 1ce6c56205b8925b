package flashcard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/flipset/internal/database"
)

//go:generate mockgen -source=card_repository.go -destination=../mocks/flashcard/mock_card_repository.go -package=mock_flashcard

// CardRepository defines operations for managing cards.
type CardRepository interface {
	FindAll(ctx context.Context, opts SortOptions, search string) ([]CardWithCategories, error)
	FindByID(ctx context.Context, id string) (*CardWithCategories, error)
	FindByCategories(ctx context.Context, categoryIDs []string) ([]Card, error)
	Create(ctx context.Context, frontContent, backContent string, categoryIDs []string) (*CardWithCategories, error)
	Update(ctx context.Context, id, frontContent, backContent string, categoryIDs []string) error
	Delete(ctx context.Context, id string) error
}

// DBCardRepository implements CardRepository using SQL.
type DBCardRepository struct {
	db    *sqlx.DB
	now   func() time.Time
	newID func() string
}

// NewDBCardRepository creates a new DBCardRepository.
func NewDBCardRepository(db *sqlx.DB) *DBCardRepository {
	return &DBCardRepository{
		db:    db,
		now:   utcNow,
		newID: uuid.NewString,
	}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// FindAll returns cards matching search on either face, sorted by opts, with their categories.
func (r *DBCardRepository) FindAll(ctx context.Context, opts SortOptions, search string) ([]CardWithCategories, error) {
	query := "SELECT * FROM cards"
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + search + "%"
		query += " WHERE front_content LIKE ? OR back_content LIKE ?"
		args = append(args, pattern, pattern)
	}
	query += " ORDER BY " + opts.orderBy()

	var cards []CardWithCategories
	if err := r.db.SelectContext(ctx, &cards, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(cards) > %w", err)
	}
	if err := r.loadCategories(ctx, cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// FindByID returns a card with its categories, or nil if not found.
func (r *DBCardRepository) FindByID(ctx context.Context, id string) (*CardWithCategories, error) {
	var card CardWithCategories
	err := r.db.GetContext(ctx, &card, r.db.Rebind("SELECT * FROM cards WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(card) > %w", err)
	}
	cards := []CardWithCategories{card}
	if err := r.loadCategories(ctx, cards); err != nil {
		return nil, err
	}
	return &cards[0], nil
}

// FindByCategories returns the distinct cards belonging to any of the categories.
// Including UncategorizedID adds every card without a category.
// Cards are ordered alphabetically by front content, real categories first.
func (r *DBCardRepository) FindByCategories(ctx context.Context, categoryIDs []string) ([]Card, error) {
	var realIDs []string
	hasUncategorized := false
	for _, id := range categoryIDs {
		if IsUncategorized(id) {
			hasUncategorized = true
			continue
		}
		realIDs = append(realIDs, id)
	}

	cards := []Card{}
	if len(realIDs) > 0 {
		query, args, err := sqlx.In(`SELECT * FROM cards
			WHERE id IN (SELECT card_id FROM card_categories WHERE category_id IN (?))
			ORDER BY LOWER(front_content), id`, realIDs)
		if err != nil {
			return nil, fmt.Errorf("sqlx.In(cards by categories) > %w", err)
		}
		if err := r.db.SelectContext(ctx, &cards, r.db.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("db.SelectContext(cards by categories) > %w", err)
		}
	}

	if hasUncategorized {
		var uncategorized []Card
		if err := r.db.SelectContext(ctx, &uncategorized, `SELECT * FROM cards
			WHERE id NOT IN (SELECT card_id FROM card_categories)
			ORDER BY LOWER(front_content), id`); err != nil {
			return nil, fmt.Errorf("db.SelectContext(uncategorized cards) > %w", err)
		}

		seen := make(map[string]bool, len(cards))
		for _, c := range cards {
			seen[c.ID] = true
		}
		for _, c := range uncategorized {
			if !seen[c.ID] {
				cards = append(cards, c)
			}
		}
	}
	return cards, nil
}

// Create inserts a card and its category links in a transaction.
// UncategorizedID in categoryIDs is ignored.
func (r *DBCardRepository) Create(ctx context.Context, frontContent, backContent string, categoryIDs []string) (*CardWithCategories, error) {
	now := r.now()
	card := Card{
		ID:           r.newID(),
		FrontContent: frontContent,
		BackContent:  backContent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("INSERT INTO cards (id, front_content, back_content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"),
			card.ID, card.FrontContent, card.BackContent, card.CreatedAt, card.UpdatedAt); err != nil {
			return fmt.Errorf("tx.ExecContext(insert card) > %w", err)
		}
		return insertCardCategories(ctx, tx, card.ID, categoryIDs)
	}); err != nil {
		return nil, err
	}

	cards := []CardWithCategories{{Card: card}}
	if err := r.loadCategories(ctx, cards); err != nil {
		return nil, err
	}
	return &cards[0], nil
}

// Update replaces a card's faces and its category links.
func (r *DBCardRepository) Update(ctx context.Context, id, frontContent, backContent string, categoryIDs []string) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			tx.Rebind("UPDATE cards SET front_content = ?, back_content = ?, updated_at = ? WHERE id = ?"),
			frontContent, backContent, r.now(), id)
		if err != nil {
			return fmt.Errorf("tx.ExecContext(update card) > %w", err)
		}
		if err := requireAffected(result, ErrCardNotFound); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM card_categories WHERE card_id = ?"), id); err != nil {
			return fmt.Errorf("tx.ExecContext(delete card_categories) > %w", err)
		}
		return insertCardCategories(ctx, tx, id, categoryIDs)
	})
}

// Delete removes a card. Its category links are removed by the foreign key cascade.
func (r *DBCardRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM cards WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("db.ExecContext(delete card) > %w", err)
	}
	return requireAffected(result, ErrCardNotFound)
}

func (r *DBCardRepository) loadCategories(ctx context.Context, cards []CardWithCategories) error {
	if len(cards) == 0 {
		return nil
	}

	cardIDs := make([]string, len(cards))
	cardMap := make(map[string]*CardWithCategories, len(cards))
	for i := range cards {
		cardIDs[i] = cards[i].ID
		cardMap[cards[i].ID] = &cards[i]
		cards[i].Categories = []Category{}
	}

	query, args, err := sqlx.In(`SELECT cc.card_id, c.* FROM categories c
		INNER JOIN card_categories cc ON c.id = cc.category_id
		WHERE cc.card_id IN (?)
		ORDER BY c.name_key, c.id`, cardIDs)
	if err != nil {
		return fmt.Errorf("sqlx.In(card categories) > %w", err)
	}
	var rows []struct {
		CardID string `db:"card_id"`
		Category
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("db.SelectContext(card categories) > %w", err)
	}
	for _, row := range rows {
		c := cardMap[row.CardID]
		c.Categories = append(c.Categories, row.Category)
	}
	return nil
}

func insertCardCategories(ctx context.Context, tx *sqlx.Tx, cardID string, categoryIDs []string) error {
	seen := make(map[string]bool, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		if IsUncategorized(categoryID) || seen[categoryID] {
			continue
		}
		seen[categoryID] = true
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("INSERT INTO card_categories (card_id, category_id) VALUES (?, ?)"),
			cardID, categoryID); err != nil {
			return fmt.Errorf("tx.ExecContext(insert card_category %s) > %w", categoryID, err)
		}
	}
	return nil
}

func requireAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
