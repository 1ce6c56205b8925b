package flashcard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/flipset/internal/database"
)

//go:generate mockgen -source=category_repository.go -destination=../mocks/flashcard/mock_category_repository.go -package=mock_flashcard

// CategoryRepository defines operations for managing categories and their card links.
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]CategoryWithCount, error)
	FindByID(ctx context.Context, id string) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	NameExists(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, name string) (*Category, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
	DeleteWithCards(ctx context.Context, id string) ([]string, error)
	DeleteExclusiveCards(ctx context.Context, id string) ([]string, error)
	MoveCardsTo(ctx context.Context, fromID, toID string) error
	RemoveAssociations(ctx context.Context, id string) error
	AddCard(ctx context.Context, cardID, categoryID string) error
}

// DBCategoryRepository implements CategoryRepository using SQL.
type DBCategoryRepository struct {
	db    *sqlx.DB
	now   func() time.Time
	newID func() string
}

// NewDBCategoryRepository creates a new DBCategoryRepository.
func NewDBCategoryRepository(db *sqlx.DB) *DBCategoryRepository {
	return &DBCategoryRepository{
		db:    db,
		now:   utcNow,
		newID: uuid.NewString,
	}
}

// FindAll returns Uncategorized first, followed by every category sorted by name regardless of case.
func (r *DBCategoryRepository) FindAll(ctx context.Context) ([]CategoryWithCount, error) {
	var categories []CategoryWithCount
	if err := r.db.SelectContext(ctx, &categories, `SELECT
			c.id, c.name, c.name_key, c.created_at, c.updated_at,
			COUNT(cc.card_id) AS card_count
		FROM categories c
		LEFT JOIN card_categories cc ON c.id = cc.category_id
		GROUP BY c.id, c.name, c.name_key, c.created_at, c.updated_at
		ORDER BY c.name_key, c.id`); err != nil {
		return nil, fmt.Errorf("db.SelectContext(categories) > %w", err)
	}

	var uncategorizedCount int
	if err := r.db.GetContext(ctx, &uncategorizedCount,
		"SELECT COUNT(*) FROM cards WHERE id NOT IN (SELECT card_id FROM card_categories)"); err != nil {
		return nil, fmt.Errorf("db.GetContext(uncategorized count) > %w", err)
	}

	result := make([]CategoryWithCount, 0, len(categories)+1)
	result = append(result, CategoryWithCount{Category: Uncategorized(), CardCount: uncategorizedCount})
	return append(result, categories...), nil
}

// FindByID returns a category, or nil if not found. UncategorizedID is always found.
func (r *DBCategoryRepository) FindByID(ctx context.Context, id string) (*Category, error) {
	if IsUncategorized(id) {
		c := Uncategorized()
		return &c, nil
	}
	return r.findOne(ctx, "SELECT * FROM categories WHERE id = ?", id)
}

// FindByName returns the category whose name matches regardless of case, or nil if not found.
func (r *DBCategoryRepository) FindByName(ctx context.Context, name string) (*Category, error) {
	return r.findOne(ctx, "SELECT * FROM categories WHERE name_key = ?", NameKey(name))
}

func (r *DBCategoryRepository) findOne(ctx context.Context, query string, args ...any) (*Category, error) {
	var c Category
	err := r.db.GetContext(ctx, &c, r.db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(category) > %w", err)
	}
	return &c, nil
}

// NameExists reports whether another category already uses name.
// The Uncategorized name is always taken.
func (r *DBCategoryRepository) NameExists(ctx context.Context, name, excludeID string) (bool, error) {
	key := NameKey(name)
	if key == NameKey(UncategorizedName) {
		return true, nil
	}

	query := "SELECT COUNT(*) FROM categories WHERE name_key = ?"
	args := []any{key}
	if excludeID != "" {
		query += " AND id <> ?"
		args = append(args, excludeID)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return false, fmt.Errorf("db.GetContext(category name count) > %w", err)
	}
	return count > 0, nil
}

// Create inserts a category after checking its name is free.
func (r *DBCategoryRepository) Create(ctx context.Context, name string) (*Category, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	exists, err := r.NameExists(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNameTaken, name)
	}

	now := r.now()
	c := Category{
		ID:        r.newID(),
		Name:      name,
		NameKey:   NameKey(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.db.ExecContext(ctx,
		r.db.Rebind("INSERT INTO categories (id, name, name_key, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"),
		c.ID, c.Name, c.NameKey, c.CreatedAt, c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("db.ExecContext(insert category) > %w", err)
	}
	return &c, nil
}

// Rename changes a category's name after checking the new name is free.
func (r *DBCategoryRepository) Rename(ctx context.Context, id, name string) error {
	if IsUncategorized(id) {
		return ErrUncategorizedReadOnly
	}
	name = NormalizeName(name)
	if name == "" {
		return ErrEmptyName
	}
	exists, err := r.NameExists(ctx, name, id)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %q", ErrCategoryNameTaken, name)
	}

	result, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE categories SET name = ?, name_key = ?, updated_at = ? WHERE id = ?"),
		name, NameKey(name), r.now(), id)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update category) > %w", err)
	}
	return requireAffected(result, ErrCategoryNotFound)
}

// Delete removes a category. Its cards stay and lose the link to it.
func (r *DBCategoryRepository) Delete(ctx context.Context, id string) error {
	if IsUncategorized(id) {
		return ErrUncategorizedReadOnly
	}
	result, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM categories WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("db.ExecContext(delete category) > %w", err)
	}
	return requireAffected(result, ErrCategoryNotFound)
}

// DeleteWithCards removes a category and the cards that belong to no other category.
// It returns the ids of the deleted cards.
func (r *DBCategoryRepository) DeleteWithCards(ctx context.Context, id string) ([]string, error) {
	if IsUncategorized(id) {
		return nil, ErrUncategorizedReadOnly
	}

	var deleted []string
	if err := database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		ids, err := deleteExclusiveCards(ctx, tx, id)
		if err != nil {
			return err
		}
		deleted = ids

		result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM categories WHERE id = ?"), id)
		if err != nil {
			return fmt.Errorf("tx.ExecContext(delete category) > %w", err)
		}
		return requireAffected(result, ErrCategoryNotFound)
	}); err != nil {
		return nil, err
	}
	return deleted, nil
}

// DeleteExclusiveCards removes the cards that belong to this category and no other one,
// keeping the category itself. It returns the ids of the deleted cards.
func (r *DBCategoryRepository) DeleteExclusiveCards(ctx context.Context, id string) ([]string, error) {
	if IsUncategorized(id) {
		return nil, ErrUncategorizedReadOnly
	}

	var deleted []string
	if err := database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		ids, err := deleteExclusiveCards(ctx, tx, id)
		deleted = ids
		return err
	}); err != nil {
		return nil, err
	}
	return deleted, nil
}

func deleteExclusiveCards(ctx context.Context, tx *sqlx.Tx, categoryID string) ([]string, error) {
	ids := []string{}
	if err := tx.SelectContext(ctx, &ids, tx.Rebind(`SELECT cc.card_id FROM card_categories cc
		WHERE cc.category_id = ?
		AND cc.card_id NOT IN (SELECT card_id FROM card_categories WHERE category_id <> ?)
		ORDER BY cc.card_id`), categoryID, categoryID); err != nil {
		return nil, fmt.Errorf("tx.SelectContext(exclusive cards) > %w", err)
	}
	if len(ids) == 0 {
		return ids, nil
	}

	query, args, err := sqlx.In("DELETE FROM cards WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In(delete cards) > %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("tx.ExecContext(delete cards) > %w", err)
	}
	return ids, nil
}

// MoveCardsTo links every card of fromID to toID and deletes fromID.
// An empty toID or UncategorizedID only drops the links, leaving cards without that category.
func (r *DBCategoryRepository) MoveCardsTo(ctx context.Context, fromID, toID string) error {
	if IsUncategorized(fromID) {
		return ErrUncategorizedReadOnly
	}
	if fromID == toID {
		return fmt.Errorf("cannot move cards of category %s to itself", fromID)
	}

	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if toID != "" && !IsUncategorized(toID) {
			var cardIDs []string
			if err := tx.SelectContext(ctx, &cardIDs, tx.Rebind(`SELECT card_id FROM card_categories
				WHERE category_id = ?
				AND card_id NOT IN (SELECT card_id FROM card_categories WHERE category_id = ?)`),
				fromID, toID); err != nil {
				return fmt.Errorf("tx.SelectContext(cards to move) > %w", err)
			}
			for _, cardID := range cardIDs {
				if _, err := tx.ExecContext(ctx,
					tx.Rebind("INSERT INTO card_categories (card_id, category_id) VALUES (?, ?)"),
					cardID, toID); err != nil {
					return fmt.Errorf("tx.ExecContext(insert card_category) > %w", err)
				}
			}
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM card_categories WHERE category_id = ?"), fromID); err != nil {
			return fmt.Errorf("tx.ExecContext(delete card_categories) > %w", err)
		}
		result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM categories WHERE id = ?"), fromID)
		if err != nil {
			return fmt.Errorf("tx.ExecContext(delete category) > %w", err)
		}
		return requireAffected(result, ErrCategoryNotFound)
	})
}

// RemoveAssociations unlinks every card from the category, keeping both.
func (r *DBCategoryRepository) RemoveAssociations(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM card_categories WHERE category_id = ?"), id); err != nil {
		return fmt.Errorf("db.ExecContext(delete card_categories) > %w", err)
	}
	return nil
}

// AddCard links a card to a category. Linking twice is a no-op.
func (r *DBCategoryRepository) AddCard(ctx context.Context, cardID, categoryID string) error {
	if IsUncategorized(categoryID) {
		return nil
	}
	var count int
	if err := r.db.GetContext(ctx, &count,
		r.db.Rebind("SELECT COUNT(*) FROM card_categories WHERE card_id = ? AND category_id = ?"),
		cardID, categoryID); err != nil {
		return fmt.Errorf("db.GetContext(card_category) > %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := r.db.ExecContext(ctx,
		r.db.Rebind("INSERT INTO card_categories (card_id, category_id) VALUES (?, ?)"),
		cardID, categoryID); err != nil {
		return fmt.Errorf("db.ExecContext(insert card_category) > %w", err)
	}
	return nil
}
