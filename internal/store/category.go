// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"cityguide/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, image, display_order, featured, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Image,
		&c.DisplayOrder, &c.Featured, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CategoryFilter narrows List results. Zero values mean "no filter".
type CategoryFilter struct {
	Query    string // free-text match on name and slug
	Featured *bool
}

// List returns all categories matching the filter, ordered by display_order
// then name. An empty store yields an empty slice, never an error.
func (s *CategoryStore) List(f CategoryFilter) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE 1=1`
	var args []any
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR slug ILIKE $%d)`, len(args), len(args))
	}
	if f.Featured != nil {
		args = append(args, *f.Featured)
		query += fmt.Sprintf(` AND featured = $%d`, len(args))
	}
	query += ` ORDER BY display_order, name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, image, display_order, featured)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.Image, c.DisplayOrder, c.Featured,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", mapConflict(err))
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(c *models.Category) error {
	_, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, image = $4,
			display_order = $5, featured = $6, updated_at = NOW()
		WHERE id = $7
	`, c.Name, c.Slug, c.Description, c.Image, c.DisplayOrder, c.Featured, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", mapConflict(err))
	}
	return nil
}

// Delete removes a category by ID. Returns ErrInUse while any business,
// attraction, event, or sub-event still references it.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	count, err := s.UsageCount(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}
	_, err = s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Reorder assigns display_order 0..n-1 to the given ids in order.
func (s *CategoryStore) Reorder(ids []uuid.UUID) error {
	return reorderRows(s.db, "categories", ids)
}

// UsageCount sums the number of directory entries related to this category
// across all junction tables that can reference it.
func (s *CategoryStore) UsageCount(id uuid.UUID) (int, error) {
	total := 0
	for _, table := range []string{
		"business_categories", "attraction_categories",
		"event_categories", "subevent_categories",
	} {
		n, err := countWhere(s.db, `SELECT COUNT(*) FROM `+table+` WHERE category_id = $1`, id)
		if err != nil {
			return 0, fmt.Errorf("category usage %s: %w", table, err)
		}
		total += n
	}
	return total, nil
}
