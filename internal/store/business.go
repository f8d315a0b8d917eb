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

// BusinessStore handles all business-related database operations,
// including the category/type/section junction tables and their
// relationship-scoped presentation flags.
type BusinessStore struct {
	db *sql.DB
}

// NewBusinessStore creates a new BusinessStore with the given database connection.
func NewBusinessStore(db *sql.DB) *BusinessStore {
	return &BusinessStore{db: db}
}

const businessColumns = `id, name, slug, brand_id, description, address, location,
	rating, working_hours, phone, website, email, price_range, social,
	featured, display_order, media, created_at, updated_at`

func scanBusiness(scanner interface{ Scan(...any) error }) (*models.Business, error) {
	var b models.Business
	var social []byte
	err := scanner.Scan(
		&b.ID, &b.Name, &b.Slug, &b.BrandID, &b.Description, &b.Address,
		&b.Location, &b.Rating, &b.WorkingHours, &b.Phone, &b.Website,
		&b.Email, &b.PriceRange, &social, &b.Featured, &b.DisplayOrder,
		&b.Media, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if b.Social, err = unmarshalJSONB(social); err != nil {
		return nil, err
	}
	return &b, nil
}

// BusinessFilter narrows List results. Zero values mean "no filter".
type BusinessFilter struct {
	Query      string
	Featured   *bool
	BrandID    *uuid.UUID
	CategoryID *uuid.UUID
	SectionID  *uuid.UUID
}

// List returns all businesses matching the filter, ordered by display_order
// then name, with relations resolved.
func (s *BusinessStore) List(f BusinessFilter) ([]models.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE 1=1`
	var args []any
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR slug ILIKE $%d)`, len(args), len(args))
	}
	if f.Featured != nil {
		args = append(args, *f.Featured)
		query += fmt.Sprintf(` AND featured = $%d`, len(args))
	}
	if f.BrandID != nil {
		args = append(args, *f.BrandID)
		query += fmt.Sprintf(` AND brand_id = $%d`, len(args))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		query += fmt.Sprintf(` AND id IN (SELECT business_id FROM business_categories WHERE category_id = $%d)`, len(args))
	}
	if f.SectionID != nil {
		args = append(args, *f.SectionID)
		query += fmt.Sprintf(` AND id IN (SELECT business_id FROM section_businesses WHERE section_id = $%d)`, len(args))
	}
	query += ` ORDER BY display_order, name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()

	items := []models.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachRelations(items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID retrieves a business by ID with all relations resolved.
// Returns nil if not found.
func (s *BusinessStore) FindByID(id uuid.UUID) (*models.Business, error) {
	row := s.db.QueryRow(`SELECT `+businessColumns+` FROM businesses WHERE id = $1`, id)
	b, err := scanBusiness(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find business by id: %w", err)
	}
	items := []models.Business{*b}
	if err := s.attachRelations(items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// attachRelations resolves category, type, and section junctions for the
// given businesses in three bulk queries. Junction metadata is flattened:
// each related entity carries only its own fields plus the two
// relationship-scoped flags, and the *_ids arrays are derived alongside.
func (s *BusinessStore) attachRelations(items []models.Business) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(items))
	index := make(map[uuid.UUID]*models.Business, len(items))
	for i := range items {
		ids[i] = items[i].ID
		index[items[i].ID] = &items[i]
	}

	// Categories with junction flags.
	rows, err := s.db.Query(`
		SELECT bc.business_id, bc.is_highlight, bc.is_premium, `+prefixColumns("c", categoryColumns)+`
		FROM business_categories bc
		JOIN categories c ON c.id = bc.category_id
		WHERE bc.business_id = ANY($1)
		ORDER BY c.display_order, c.name
	`, ids)
	if err != nil {
		return fmt.Errorf("business categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var owner uuid.UUID
		var rel models.RelatedCategory
		if err := rows.Scan(
			&owner, &rel.IsHighlight, &rel.IsPremium,
			&rel.ID, &rel.Name, &rel.Slug, &rel.Description, &rel.Image,
			&rel.DisplayOrder, &rel.Featured, &rel.CreatedAt, &rel.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan business category: %w", err)
		}
		b := index[owner]
		b.Categories = append(b.Categories, rel)
		b.CategoryIDs = append(b.CategoryIDs, rel.ID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Types with junction flags.
	rows, err = s.db.Query(`
		SELECT bt.business_id, bt.is_highlight, bt.is_premium, `+prefixColumns("t", typeColumns)+`
		FROM business_types bt
		JOIN types t ON t.id = bt.type_id
		WHERE bt.business_id = ANY($1)
		ORDER BY t.display_order, t.name
	`, ids)
	if err != nil {
		return fmt.Errorf("business types: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var owner uuid.UUID
		var rel models.RelatedType
		if err := rows.Scan(
			&owner, &rel.IsHighlight, &rel.IsPremium,
			&rel.ID, &rel.Name, &rel.Slug, &rel.Description, &rel.Image,
			&rel.CategoryID, &rel.DisplayOrder, &rel.CreatedAt, &rel.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan business type: %w", err)
		}
		b := index[owner]
		b.Types = append(b.Types, rel)
		b.TypeIDs = append(b.TypeIDs, rel.ID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Section membership ids only.
	rows, err = s.db.Query(`
		SELECT business_id, section_id FROM section_businesses WHERE business_id = ANY($1)
	`, ids)
	if err != nil {
		return fmt.Errorf("business sections: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var owner, sectionID uuid.UUID
		if err := rows.Scan(&owner, &sectionID); err != nil {
			return fmt.Errorf("scan business section: %w", err)
		}
		index[owner].SectionIDs = append(index[owner].SectionIDs, sectionID)
	}
	return rows.Err()
}

// Create inserts a new business with its relationship junction rows in a
// single transaction and returns the fully joined entity.
func (s *BusinessStore) Create(b *models.Business, categories, types []models.RelationRef, sections []uuid.UUID) (*models.Business, error) {
	social, err := marshalJSONB(b.Social)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRow(`
		INSERT INTO businesses (name, slug, brand_id, description, address, location,
			rating, working_hours, phone, website, email, price_range, social,
			featured, display_order, media)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`, b.Name, b.Slug, b.BrandID, b.Description, b.Address, b.Location,
		b.Rating, b.WorkingHours, b.Phone, b.Website, b.Email, b.PriceRange,
		social, b.Featured, b.DisplayOrder, b.Media,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create business: %w", mapConflict(err))
	}

	if err := s.writeRelations(tx, id, categories, types, sections); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create business: %w", err)
	}
	return s.FindByID(id)
}

// Update modifies an existing business. Relation slices replace the
// corresponding junction rows wholesale when non-nil; nil leaves the
// relation untouched. The whole write runs in one transaction.
func (s *BusinessStore) Update(b *models.Business, categories, types *[]models.RelationRef, sections *[]uuid.UUID) error {
	social, err := marshalJSONB(b.Social)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE businesses SET
			name = $1, slug = $2, brand_id = $3, description = $4, address = $5,
			location = $6, rating = $7, working_hours = $8, phone = $9,
			website = $10, email = $11, price_range = $12, social = $13,
			featured = $14, display_order = $15, media = $16, updated_at = NOW()
		WHERE id = $17
	`, b.Name, b.Slug, b.BrandID, b.Description, b.Address, b.Location,
		b.Rating, b.WorkingHours, b.Phone, b.Website, b.Email, b.PriceRange,
		social, b.Featured, b.DisplayOrder, b.Media, b.ID)
	if err != nil {
		return fmt.Errorf("update business: %w", mapConflict(err))
	}

	if categories != nil {
		if err := replaceRelations(tx, "business_categories", "business_id", b.ID, "category_id", *categories, true); err != nil {
			return err
		}
	}
	if types != nil {
		if err := replaceRelations(tx, "business_types", "business_id", b.ID, "type_id", *types, true); err != nil {
			return err
		}
	}
	if sections != nil {
		if err := s.replaceSections(tx, b.ID, *sections); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes a business and all of its junction rows in one transaction.
// Deleting an id that does not exist is not an error.
func (s *BusinessStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = clearRelations(tx, "business_id", id,
		"business_categories", "business_types", "section_businesses")
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM businesses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete business: %w", err)
	}
	return tx.Commit()
}

// Reorder assigns display_order 0..n-1 to the given ids in order. This is
// the global homepage rank.
func (s *BusinessStore) Reorder(ids []uuid.UUID) error {
	return reorderRows(s.db, "businesses", ids)
}

// writeRelations inserts all junction rows for a new business.
func (s *BusinessStore) writeRelations(tx *sql.Tx, id uuid.UUID, categories, types []models.RelationRef, sections []uuid.UUID) error {
	if err := replaceRelations(tx, "business_categories", "business_id", id, "category_id", categories, true); err != nil {
		return err
	}
	if err := replaceRelations(tx, "business_types", "business_id", id, "type_id", types, true); err != nil {
		return err
	}
	return s.replaceSections(tx, id, sections)
}

// replaceSections rewrites section membership for one business. Section
// junction flags are managed from the section side, so plain membership
// rows are written here.
func (s *BusinessStore) replaceSections(tx *sql.Tx, id uuid.UUID, sections []uuid.UUID) error {
	if _, err := tx.Exec(`DELETE FROM section_businesses WHERE business_id = $1`, id); err != nil {
		return fmt.Errorf("clear section_businesses: %w", err)
	}
	for _, sectionID := range sections {
		_, err := tx.Exec(`
			INSERT INTO section_businesses (section_id, business_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING
		`, sectionID, id)
		if err != nil {
			return fmt.Errorf("insert section_businesses: %w", err)
		}
	}
	return nil
}
