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

// BrandStore manages brands in the database. Brands form a self-referential
// tree via parent_id.
type BrandStore struct {
	db *sql.DB
}

// NewBrandStore returns a new BrandStore.
func NewBrandStore(db *sql.DB) *BrandStore {
	return &BrandStore{db: db}
}

const brandSelect = `
	SELECT b.id, b.name, b.slug, b.description, b.media, b.parent_id,
	       b.business_id, b.tax_id, b.created_at, b.updated_at,
	       COUNT(bu.id) AS business_count
	FROM brands b
	LEFT JOIN businesses bu ON bu.brand_id = b.id
`

func scanBrand(scanner interface{ Scan(...any) error }) (*models.Brand, error) {
	var b models.Brand
	err := scanner.Scan(
		&b.ID, &b.Name, &b.Slug, &b.Description, &b.Media, &b.ParentID,
		&b.BusinessID, &b.TaxID, &b.CreatedAt, &b.UpdatedAt, &b.BusinessCount,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns all brands with their derived business counts, ordered by name.
func (s *BrandStore) List(query string) ([]models.Brand, error) {
	q := brandSelect
	var args []any
	if query != "" {
		args = append(args, "%"+query+"%")
		q += ` WHERE b.name ILIKE $1 OR b.slug ILIKE $1`
	}
	q += ` GROUP BY b.id ORDER BY b.name`

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	items := []models.Brand{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// Tree returns brands as a nested tree structure.
func (s *BrandStore) Tree() ([]models.Brand, error) {
	flat, err := s.List("")
	if err != nil {
		return nil, err
	}
	return buildBrandTree(flat, nil, 0), nil
}

// buildBrandTree recursively builds a tree from a flat list.
func buildBrandTree(flat []models.Brand, parentID *uuid.UUID, depth int) []models.Brand {
	var result []models.Brand
	for _, b := range flat {
		if ptrEqual(b.ParentID, parentID) {
			b.Depth = depth
			b.Children = buildBrandTree(flat, &b.ID, depth+1)
			result = append(result, b)
		}
	}
	return result
}

// ptrEqual compares two *uuid.UUID for equality (both nil or same value).
func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// FindByID retrieves a brand by ID with its business count. Returns nil if
// not found.
func (s *BrandStore) FindByID(id uuid.UUID) (*models.Brand, error) {
	row := s.db.QueryRow(brandSelect+` WHERE b.id = $1 GROUP BY b.id`, id)
	b, err := scanBrand(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find brand by id: %w", err)
	}
	return b, nil
}

// Create inserts a new brand and returns it.
func (s *BrandStore) Create(b *models.Brand) (*models.Brand, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO brands (name, slug, description, media, parent_id, business_id, tax_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, b.Name, b.Slug, b.Description, b.Media, b.ParentID, b.BusinessID, b.TaxID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create brand: %w", mapConflict(err))
	}
	return s.FindByID(id)
}

// Update modifies an existing brand.
func (s *BrandStore) Update(b *models.Brand) error {
	_, err := s.db.Exec(`
		UPDATE brands SET
			name = $1, slug = $2, description = $3, media = $4,
			parent_id = $5, business_id = $6, tax_id = $7, updated_at = NOW()
		WHERE id = $8
	`, b.Name, b.Slug, b.Description, b.Media, b.ParentID, b.BusinessID, b.TaxID, b.ID)
	if err != nil {
		return fmt.Errorf("update brand: %w", mapConflict(err))
	}
	return nil
}

// Delete removes a brand by ID. Children are re-parented and businesses
// unlinked (ON DELETE SET NULL).
func (s *BrandStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	return nil
}
