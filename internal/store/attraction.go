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

// AttractionStore handles all attraction-related database operations.
// Attraction junction rows carry no presentation flags.
type AttractionStore struct {
	db *sql.DB
}

// NewAttractionStore creates a new AttractionStore with the given database connection.
func NewAttractionStore(db *sql.DB) *AttractionStore {
	return &AttractionStore{db: db}
}

const attractionColumns = `id, name, slug, description, address, location,
	featured_location, media, created_at, updated_at`

func scanAttraction(scanner interface{ Scan(...any) error }) (*models.Attraction, error) {
	var a models.Attraction
	err := scanner.Scan(
		&a.ID, &a.Name, &a.Slug, &a.Description, &a.Address, &a.Location,
		&a.FeaturedLocation, &a.Media, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AttractionFilter narrows List results.
type AttractionFilter struct {
	Query            string
	FeaturedLocation *bool
	CategoryID       *uuid.UUID
}

// List returns all attractions matching the filter, ordered by name, with
// relations resolved.
func (s *AttractionStore) List(f AttractionFilter) ([]models.Attraction, error) {
	query := `SELECT ` + attractionColumns + ` FROM attractions WHERE 1=1`
	var args []any
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR slug ILIKE $%d)`, len(args), len(args))
	}
	if f.FeaturedLocation != nil {
		args = append(args, *f.FeaturedLocation)
		query += fmt.Sprintf(` AND featured_location = $%d`, len(args))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		query += fmt.Sprintf(` AND id IN (SELECT attraction_id FROM attraction_categories WHERE category_id = $%d)`, len(args))
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attractions: %w", err)
	}
	defer rows.Close()

	items := []models.Attraction{}
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attraction: %w", err)
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachRelations(items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID retrieves an attraction by ID with relations resolved.
// Returns nil if not found.
func (s *AttractionStore) FindByID(id uuid.UUID) (*models.Attraction, error) {
	row := s.db.QueryRow(`SELECT `+attractionColumns+` FROM attractions WHERE id = $1`, id)
	a, err := scanAttraction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find attraction by id: %w", err)
	}
	items := []models.Attraction{*a}
	if err := s.attachRelations(items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// attachRelations resolves category and type junctions in two bulk queries.
func (s *AttractionStore) attachRelations(items []models.Attraction) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(items))
	index := make(map[uuid.UUID]*models.Attraction, len(items))
	for i := range items {
		ids[i] = items[i].ID
		index[items[i].ID] = &items[i]
	}

	rows, err := s.db.Query(`
		SELECT ac.attraction_id, `+prefixColumns("c", categoryColumns)+`
		FROM attraction_categories ac
		JOIN categories c ON c.id = ac.category_id
		WHERE ac.attraction_id = ANY($1)
		ORDER BY c.display_order, c.name
	`, ids)
	if err != nil {
		return fmt.Errorf("attraction categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var owner uuid.UUID
		var c models.Category
		if err := rows.Scan(
			&owner, &c.ID, &c.Name, &c.Slug, &c.Description, &c.Image,
			&c.DisplayOrder, &c.Featured, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan attraction category: %w", err)
		}
		a := index[owner]
		a.Categories = append(a.Categories, c)
		a.CategoryIDs = append(a.CategoryIDs, c.ID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.Query(`
		SELECT at.attraction_id, `+prefixColumns("t", typeColumns)+`
		FROM attraction_types at
		JOIN types t ON t.id = at.type_id
		WHERE at.attraction_id = ANY($1)
		ORDER BY t.display_order, t.name
	`, ids)
	if err != nil {
		return fmt.Errorf("attraction types: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var owner uuid.UUID
		var t models.Type
		if err := rows.Scan(
			&owner, &t.ID, &t.Name, &t.Slug, &t.Description, &t.Image,
			&t.CategoryID, &t.DisplayOrder, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan attraction type: %w", err)
		}
		a := index[owner]
		a.Types = append(a.Types, t)
		a.TypeIDs = append(a.TypeIDs, t.ID)
	}
	return rows.Err()
}

// Create inserts a new attraction with its junction rows in a single
// transaction and returns the fully joined entity.
func (s *AttractionStore) Create(a *models.Attraction, categories, types []models.RelationRef) (*models.Attraction, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRow(`
		INSERT INTO attractions (name, slug, description, address, location, featured_location, media)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, a.Name, a.Slug, a.Description, a.Address, a.Location, a.FeaturedLocation, a.Media).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create attraction: %w", mapConflict(err))
	}

	if err := replaceRelations(tx, "attraction_categories", "attraction_id", id, "category_id", categories, false); err != nil {
		return nil, err
	}
	if err := replaceRelations(tx, "attraction_types", "attraction_id", id, "type_id", types, false); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create attraction: %w", err)
	}
	return s.FindByID(id)
}

// Update modifies an existing attraction. Non-nil relation slices replace
// the corresponding junction rows wholesale.
func (s *AttractionStore) Update(a *models.Attraction, categories, types *[]models.RelationRef) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE attractions SET
			name = $1, slug = $2, description = $3, address = $4,
			location = $5, featured_location = $6, media = $7, updated_at = NOW()
		WHERE id = $8
	`, a.Name, a.Slug, a.Description, a.Address, a.Location, a.FeaturedLocation, a.Media, a.ID)
	if err != nil {
		return fmt.Errorf("update attraction: %w", mapConflict(err))
	}

	if categories != nil {
		if err := replaceRelations(tx, "attraction_categories", "attraction_id", a.ID, "category_id", *categories, false); err != nil {
			return err
		}
	}
	if types != nil {
		if err := replaceRelations(tx, "attraction_types", "attraction_id", a.ID, "type_id", *types, false); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes an attraction and all of its junction rows in one transaction.
func (s *AttractionStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = clearRelations(tx, "attraction_id", id,
		"attraction_categories", "attraction_types", "section_attractions")
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM attractions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete attraction: %w", err)
	}
	return tx.Commit()
}
