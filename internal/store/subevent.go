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

// SubEventStore handles all sub-event database operations. Every sub-event
// belongs to exactly one parent event.
type SubEventStore struct {
	db *sql.DB
}

// NewSubEventStore creates a new SubEventStore with the given database connection.
func NewSubEventStore(db *sql.DB) *SubEventStore {
	return &SubEventStore{db: db}
}

const subEventColumns = `id, event_id, name, slug, description, status, media,
	starts_at, ends_at, show_event, created_at, updated_at`

func scanSubEvent(scanner interface{ Scan(...any) error }) (*models.SubEvent, error) {
	var e models.SubEvent
	err := scanner.Scan(
		&e.ID, &e.EventID, &e.Name, &e.Slug, &e.Description, &e.Status,
		&e.Media, &e.StartsAt, &e.EndsAt, &e.ShowEvent, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// SubEventFilter narrows List results.
type SubEventFilter struct {
	EventID *uuid.UUID
	Status  models.EventStatus
}

// List returns all sub-events matching the filter, ordered by start date,
// with relations resolved.
func (s *SubEventStore) List(f SubEventFilter) ([]models.SubEvent, error) {
	query := `SELECT ` + subEventColumns + ` FROM subevents WHERE 1=1`
	var args []any
	if f.EventID != nil {
		args = append(args, *f.EventID)
		query += fmt.Sprintf(` AND event_id = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY starts_at ASC NULLS LAST, name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subevents: %w", err)
	}
	defer rows.Close()

	items := []models.SubEvent{}
	for rows.Next() {
		e, err := scanSubEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subevent: %w", err)
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachRelations(items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID retrieves a sub-event by ID with relations resolved.
// Returns nil if not found.
func (s *SubEventStore) FindByID(id uuid.UUID) (*models.SubEvent, error) {
	row := s.db.QueryRow(`SELECT `+subEventColumns+` FROM subevents WHERE id = $1`, id)
	e, err := scanSubEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subevent by id: %w", err)
	}
	items := []models.SubEvent{*e}
	if err := s.attachRelations(items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// attachRelations resolves category and type junctions in two bulk queries.
func (s *SubEventStore) attachRelations(items []models.SubEvent) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(items))
	index := make(map[uuid.UUID]*models.SubEvent, len(items))
	for i := range items {
		ids[i] = items[i].ID
		index[items[i].ID] = &items[i]
	}

	rows, err := s.db.Query(`
		SELECT sc.subevent_id, `+prefixColumns("c", categoryColumns)+`
		FROM subevent_categories sc
		JOIN categories c ON c.id = sc.category_id
		WHERE sc.subevent_id = ANY($1)
		ORDER BY c.display_order, c.name
	`, ids)
	if err != nil {
		return fmt.Errorf("subevent categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var owner uuid.UUID
		var c models.Category
		if err := rows.Scan(
			&owner, &c.ID, &c.Name, &c.Slug, &c.Description, &c.Image,
			&c.DisplayOrder, &c.Featured, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan subevent category: %w", err)
		}
		e := index[owner]
		e.Categories = append(e.Categories, c)
		e.CategoryIDs = append(e.CategoryIDs, c.ID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.Query(`
		SELECT st.subevent_id, `+prefixColumns("t", typeColumns)+`
		FROM subevent_types st
		JOIN types t ON t.id = st.type_id
		WHERE st.subevent_id = ANY($1)
		ORDER BY t.display_order, t.name
	`, ids)
	if err != nil {
		return fmt.Errorf("subevent types: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var owner uuid.UUID
		var t models.Type
		if err := rows.Scan(
			&owner, &t.ID, &t.Name, &t.Slug, &t.Description, &t.Image,
			&t.CategoryID, &t.DisplayOrder, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan subevent type: %w", err)
		}
		e := index[owner]
		e.Types = append(e.Types, t)
		e.TypeIDs = append(e.TypeIDs, t.ID)
	}
	return rows.Err()
}

// Create inserts a new sub-event with its junction rows in a single
// transaction and returns the fully joined entity. EventID must reference
// an existing event; callers validate presence before reaching the store.
func (s *SubEventStore) Create(e *models.SubEvent, categories, types []models.RelationRef) (*models.SubEvent, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRow(`
		INSERT INTO subevents (event_id, name, slug, description, status, media, starts_at, ends_at, show_event)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, e.EventID, e.Name, e.Slug, e.Description, e.Status, e.Media, e.StartsAt, e.EndsAt, e.ShowEvent).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create subevent: %w", mapConflict(err))
	}

	if err := replaceRelations(tx, "subevent_categories", "subevent_id", id, "category_id", categories, false); err != nil {
		return nil, err
	}
	if err := replaceRelations(tx, "subevent_types", "subevent_id", id, "type_id", types, false); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create subevent: %w", err)
	}
	return s.FindByID(id)
}

// Update modifies an existing sub-event. Non-nil relation slices replace
// the corresponding junction rows wholesale.
func (s *SubEventStore) Update(e *models.SubEvent, categories, types *[]models.RelationRef) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE subevents SET
			event_id = $1, name = $2, slug = $3, description = $4, status = $5,
			media = $6, starts_at = $7, ends_at = $8, show_event = $9, updated_at = NOW()
		WHERE id = $10
	`, e.EventID, e.Name, e.Slug, e.Description, e.Status, e.Media, e.StartsAt, e.EndsAt, e.ShowEvent, e.ID)
	if err != nil {
		return fmt.Errorf("update subevent: %w", mapConflict(err))
	}

	if categories != nil {
		if err := replaceRelations(tx, "subevent_categories", "subevent_id", e.ID, "category_id", *categories, false); err != nil {
			return err
		}
	}
	if types != nil {
		if err := replaceRelations(tx, "subevent_types", "subevent_id", e.ID, "type_id", *types, false); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes a sub-event and all of its junction rows in one transaction.
func (s *SubEventStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = clearRelations(tx, "subevent_id", id, "subevent_categories", "subevent_types")
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM subevents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subevent: %w", err)
	}
	return tx.Commit()
}
