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

// SectionStore manages sections — named collections of businesses,
// attractions, and events used for homepage groupings and partner
// microsites.
type SectionStore struct {
	db *sql.DB
}

// NewSectionStore returns a new SectionStore.
func NewSectionStore(db *sql.DB) *SectionStore {
	return &SectionStore{db: db}
}

const sectionColumns = `id, name, slug, description, domain, image,
	display_order, is_active, featured, metadata, created_at, updated_at`

func scanSection(scanner interface{ Scan(...any) error }) (*models.Section, error) {
	var s models.Section
	var metadata []byte
	err := scanner.Scan(
		&s.ID, &s.Name, &s.Slug, &s.Description, &s.Domain, &s.Image,
		&s.DisplayOrder, &s.IsActive, &s.Featured, &metadata,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if s.Metadata, err = unmarshalJSONB(metadata); err != nil {
		return nil, err
	}
	return &s, nil
}

// SectionFilter narrows List results.
type SectionFilter struct {
	Query    string
	Domain   string // partner-site scoping
	IsActive *bool
	Featured *bool
}

// List returns all sections matching the filter, ordered by display_order
// then name.
func (s *SectionStore) List(f SectionFilter) ([]models.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE 1=1`
	var args []any
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR slug ILIKE $%d)`, len(args), len(args))
	}
	if f.Domain != "" {
		args = append(args, f.Domain)
		query += fmt.Sprintf(` AND domain = $%d`, len(args))
	}
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		query += fmt.Sprintf(` AND is_active = $%d`, len(args))
	}
	if f.Featured != nil {
		args = append(args, *f.Featured)
		query += fmt.Sprintf(` AND featured = $%d`, len(args))
	}
	query += ` ORDER BY display_order, name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	items := []models.Section{}
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		items = append(items, *sec)
	}
	return items, rows.Err()
}

// FindByID retrieves a section by ID with its membership resolved: full
// business entries (with junction flags) plus id arrays for every member
// kind. Returns nil if not found.
func (s *SectionStore) FindByID(id uuid.UUID) (*models.Section, error) {
	row := s.db.QueryRow(`SELECT `+sectionColumns+` FROM sections WHERE id = $1`, id)
	sec, err := scanSection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find section by id: %w", err)
	}

	// Member businesses with their junction flags.
	rows, err := s.db.Query(`
		SELECT sb.is_highlight, sb.is_premium, `+prefixColumns("b", businessColumns)+`
		FROM section_businesses sb
		JOIN businesses b ON b.id = sb.business_id
		WHERE sb.section_id = $1
		ORDER BY b.display_order, b.name
	`, id)
	if err != nil {
		return nil, fmt.Errorf("section businesses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rel models.RelatedBusiness
		var social []byte
		err := rows.Scan(
			&rel.IsHighlight, &rel.IsPremium,
			&rel.ID, &rel.Name, &rel.Slug, &rel.BrandID, &rel.Description,
			&rel.Address, &rel.Location, &rel.Rating, &rel.WorkingHours,
			&rel.Phone, &rel.Website, &rel.Email, &rel.PriceRange, &social,
			&rel.Featured, &rel.DisplayOrder, &rel.Media, &rel.CreatedAt, &rel.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan section business: %w", err)
		}
		if rel.Social, err = unmarshalJSONB(social); err != nil {
			return nil, err
		}
		sec.Businesses = append(sec.Businesses, rel)
		sec.BusinessIDs = append(sec.BusinessIDs, rel.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if sec.AttractionIDs, err = s.memberIDs("section_attractions", "attraction_id", id); err != nil {
		return nil, err
	}
	if sec.EventIDs, err = s.memberIDs("section_events", "event_id", id); err != nil {
		return nil, err
	}
	return sec, nil
}

// memberIDs loads the member id column of one section junction table.
func (s *SectionStore) memberIDs(table, col string, sectionID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.Query(`SELECT `+col+` FROM `+table+` WHERE section_id = $1`, sectionID)
	if err != nil {
		return nil, fmt.Errorf("section members %s: %w", table, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan section member: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SectionMembers carries the full membership payload for create/update.
// Nil slices leave the corresponding junction untouched on update.
type SectionMembers struct {
	Businesses  *[]models.RelationRef
	Attractions *[]uuid.UUID
	Events      *[]uuid.UUID
}

// Create inserts a new section with its membership junction rows in a
// single transaction and returns the fully joined entity.
func (s *SectionStore) Create(sec *models.Section, members SectionMembers) (*models.Section, error) {
	metadata, err := marshalJSONB(sec.Metadata)
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
		INSERT INTO sections (name, slug, description, domain, image,
			display_order, is_active, featured, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, sec.Name, sec.Slug, sec.Description, sec.Domain, sec.Image,
		sec.DisplayOrder, sec.IsActive, sec.Featured, metadata).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create section: %w", mapConflict(err))
	}

	if err := s.writeMembers(tx, id, members); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create section: %w", err)
	}
	return s.FindByID(id)
}

// Update modifies an existing section. Non-nil member slices replace the
// corresponding junction rows wholesale.
func (s *SectionStore) Update(sec *models.Section, members SectionMembers) error {
	metadata, err := marshalJSONB(sec.Metadata)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE sections SET
			name = $1, slug = $2, description = $3, domain = $4, image = $5,
			display_order = $6, is_active = $7, featured = $8, metadata = $9,
			updated_at = NOW()
		WHERE id = $10
	`, sec.Name, sec.Slug, sec.Description, sec.Domain, sec.Image,
		sec.DisplayOrder, sec.IsActive, sec.Featured, metadata, sec.ID)
	if err != nil {
		return fmt.Errorf("update section: %w", mapConflict(err))
	}

	if err := s.writeMembers(tx, sec.ID, members); err != nil {
		return err
	}
	return tx.Commit()
}

// writeMembers rewrites the junction tables named by non-nil member slices.
func (s *SectionStore) writeMembers(tx *sql.Tx, id uuid.UUID, members SectionMembers) error {
	if members.Businesses != nil {
		if err := replaceRelations(tx, "section_businesses", "section_id", id, "business_id", *members.Businesses, true); err != nil {
			return err
		}
	}
	if members.Attractions != nil {
		if err := s.replaceMemberIDs(tx, "section_attractions", "attraction_id", id, *members.Attractions); err != nil {
			return err
		}
	}
	if members.Events != nil {
		if err := s.replaceMemberIDs(tx, "section_events", "event_id", id, *members.Events); err != nil {
			return err
		}
	}
	return nil
}

func (s *SectionStore) replaceMemberIDs(tx *sql.Tx, table, col string, sectionID uuid.UUID, ids []uuid.UUID) error {
	if _, err := tx.Exec(`DELETE FROM `+table+` WHERE section_id = $1`, sectionID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for _, id := range ids {
		_, err := tx.Exec(`INSERT INTO `+table+` (section_id, `+col+`) VALUES ($1, $2) ON CONFLICT DO NOTHING`, sectionID, id)
		if err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

// Delete removes a section by ID. Returns ErrInUse while the section still
// has members; the CMS must empty membership first.
func (s *SectionStore) Delete(id uuid.UUID) error {
	count, err := s.UsageCount(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}
	_, err = s.db.Exec(`DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}

// Reorder assigns display_order 0..n-1 to the given ids in order.
func (s *SectionStore) Reorder(ids []uuid.UUID) error {
	return reorderRows(s.db, "sections", ids)
}

// UsageCount sums the number of members across the section junction tables.
func (s *SectionStore) UsageCount(id uuid.UUID) (int, error) {
	total := 0
	for _, table := range []string{"section_businesses", "section_attractions", "section_events"} {
		n, err := countWhere(s.db, `SELECT COUNT(*) FROM `+table+` WHERE section_id = $1`, id)
		if err != nil {
			return 0, fmt.Errorf("section usage %s: %w", table, err)
		}
		total += n
	}
	return total, nil
}
