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

// TypeStore manages subcategory types in the database.
type TypeStore struct {
	db *sql.DB
}

// NewTypeStore returns a new TypeStore.
func NewTypeStore(db *sql.DB) *TypeStore {
	return &TypeStore{db: db}
}

const typeColumns = `id, name, slug, description, image, category_id, display_order, created_at, updated_at`

func scanType(scanner interface{ Scan(...any) error }) (*models.Type, error) {
	var t models.Type
	err := scanner.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Description, &t.Image,
		&t.CategoryID, &t.DisplayOrder, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TypeFilter narrows List results.
type TypeFilter struct {
	Query      string
	CategoryID *uuid.UUID
}

// List returns all types matching the filter, ordered by display_order then name.
func (s *TypeStore) List(f TypeFilter) ([]models.Type, error) {
	query := `SELECT ` + typeColumns + ` FROM types WHERE 1=1`
	var args []any
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR slug ILIKE $%d)`, len(args), len(args))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		query += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}
	query += ` ORDER BY display_order, name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	defer rows.Close()

	items := []models.Type{}
	for rows.Next() {
		t, err := scanType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan type: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a type by ID. Returns nil if not found.
func (s *TypeStore) FindByID(id uuid.UUID) (*models.Type, error) {
	row := s.db.QueryRow(`SELECT `+typeColumns+` FROM types WHERE id = $1`, id)
	t, err := scanType(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find type by id: %w", err)
	}
	return t, nil
}

// Create inserts a new type and returns it.
func (s *TypeStore) Create(t *models.Type) (*models.Type, error) {
	row := s.db.QueryRow(`
		INSERT INTO types (name, slug, description, image, category_id, display_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+typeColumns,
		t.Name, t.Slug, t.Description, t.Image, t.CategoryID, t.DisplayOrder,
	)
	result, err := scanType(row)
	if err != nil {
		return nil, fmt.Errorf("create type: %w", mapConflict(err))
	}
	return result, nil
}

// Update modifies an existing type.
func (s *TypeStore) Update(t *models.Type) error {
	_, err := s.db.Exec(`
		UPDATE types SET
			name = $1, slug = $2, description = $3, image = $4,
			category_id = $5, display_order = $6, updated_at = NOW()
		WHERE id = $7
	`, t.Name, t.Slug, t.Description, t.Image, t.CategoryID, t.DisplayOrder, t.ID)
	if err != nil {
		return fmt.Errorf("update type: %w", mapConflict(err))
	}
	return nil
}

// Delete removes a type by ID. Returns ErrInUse while any directory entry
// still references it.
func (s *TypeStore) Delete(id uuid.UUID) error {
	count, err := s.UsageCount(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}
	_, err = s.db.Exec(`DELETE FROM types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete type: %w", err)
	}
	return nil
}

// Reorder assigns display_order 0..n-1 to the given ids in order.
func (s *TypeStore) Reorder(ids []uuid.UUID) error {
	return reorderRows(s.db, "types", ids)
}

// UsageCount sums the number of directory entries related to this type.
func (s *TypeStore) UsageCount(id uuid.UUID) (int, error) {
	total := 0
	for _, table := range []string{
		"business_types", "attraction_types", "event_types", "subevent_types",
	} {
		n, err := countWhere(s.db, `SELECT COUNT(*) FROM `+table+` WHERE type_id = $1`, id)
		if err != nil {
			return 0, fmt.Errorf("type usage %s: %w", table, err)
		}
		total += n
	}
	return total, nil
}
