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

// EventStore handles all event-related database operations.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates a new EventStore with the given database connection.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

const eventColumns = `id, name, slug, description, status, media,
	starts_at, ends_at, show_date_range, created_at, updated_at`

func scanEvent(scanner interface{ Scan(...any) error }) (*models.Event, error) {
	var e models.Event
	err := scanner.Scan(
		&e.ID, &e.Name, &e.Slug, &e.Description, &e.Status, &e.Media,
		&e.StartsAt, &e.EndsAt, &e.ShowDateRange, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// EventFilter narrows List results.
type EventFilter struct {
	Query      string
	Status     models.EventStatus // empty = all statuses
	CategoryID *uuid.UUID
}

// List returns all events matching the filter, ordered by start date
// (soonest first, undated last), with relations resolved.
func (s *EventStore) List(f EventFilter) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	var args []any
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR slug ILIKE $%d)`, len(args), len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		query += fmt.Sprintf(` AND id IN (SELECT event_id FROM event_categories WHERE category_id = $%d)`, len(args))
	}
	query += ` ORDER BY starts_at ASC NULLS LAST, name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	items := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
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

// FindByID retrieves an event by ID with relations resolved.
// Returns nil if not found.
func (s *EventStore) FindByID(id uuid.UUID) (*models.Event, error) {
	row := s.db.QueryRow(`SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event by id: %w", err)
	}
	items := []models.Event{*e}
	if err := s.attachRelations(items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// attachRelations resolves category and type junctions in two bulk queries.
func (s *EventStore) attachRelations(items []models.Event) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(items))
	index := make(map[uuid.UUID]*models.Event, len(items))
	for i := range items {
		ids[i] = items[i].ID
		index[items[i].ID] = &items[i]
	}

	rows, err := s.db.Query(`
		SELECT ec.event_id, `+prefixColumns("c", categoryColumns)+`
		FROM event_categories ec
		JOIN categories c ON c.id = ec.category_id
		WHERE ec.event_id = ANY($1)
		ORDER BY c.display_order, c.name
	`, ids)
	if err != nil {
		return fmt.Errorf("event categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var owner uuid.UUID
		var c models.Category
		if err := rows.Scan(
			&owner, &c.ID, &c.Name, &c.Slug, &c.Description, &c.Image,
			&c.DisplayOrder, &c.Featured, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan event category: %w", err)
		}
		e := index[owner]
		e.Categories = append(e.Categories, c)
		e.CategoryIDs = append(e.CategoryIDs, c.ID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.Query(`
		SELECT et.event_id, `+prefixColumns("t", typeColumns)+`
		FROM event_types et
		JOIN types t ON t.id = et.type_id
		WHERE et.event_id = ANY($1)
		ORDER BY t.display_order, t.name
	`, ids)
	if err != nil {
		return fmt.Errorf("event types: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var owner uuid.UUID
		var t models.Type
		if err := rows.Scan(
			&owner, &t.ID, &t.Name, &t.Slug, &t.Description, &t.Image,
			&t.CategoryID, &t.DisplayOrder, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan event type: %w", err)
		}
		e := index[owner]
		e.Types = append(e.Types, t)
		e.TypeIDs = append(e.TypeIDs, t.ID)
	}
	return rows.Err()
}

// Create inserts a new event with its junction rows in a single transaction
// and returns the fully joined entity.
func (s *EventStore) Create(e *models.Event, categories, types []models.RelationRef) (*models.Event, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRow(`
		INSERT INTO events (name, slug, description, status, media, starts_at, ends_at, show_date_range)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, e.Name, e.Slug, e.Description, e.Status, e.Media, e.StartsAt, e.EndsAt, e.ShowDateRange).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", mapConflict(err))
	}

	if err := replaceRelations(tx, "event_categories", "event_id", id, "category_id", categories, false); err != nil {
		return nil, err
	}
	if err := replaceRelations(tx, "event_types", "event_id", id, "type_id", types, false); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create event: %w", err)
	}
	return s.FindByID(id)
}

// Update modifies an existing event. Non-nil relation slices replace the
// corresponding junction rows wholesale.
func (s *EventStore) Update(e *models.Event, categories, types *[]models.RelationRef) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE events SET
			name = $1, slug = $2, description = $3, status = $4, media = $5,
			starts_at = $6, ends_at = $7, show_date_range = $8, updated_at = NOW()
		WHERE id = $9
	`, e.Name, e.Slug, e.Description, e.Status, e.Media, e.StartsAt, e.EndsAt, e.ShowDateRange, e.ID)
	if err != nil {
		return fmt.Errorf("update event: %w", mapConflict(err))
	}

	if categories != nil {
		if err := replaceRelations(tx, "event_categories", "event_id", e.ID, "category_id", *categories, false); err != nil {
			return err
		}
	}
	if types != nil {
		if err := replaceRelations(tx, "event_types", "event_id", e.ID, "type_id", *types, false); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes an event, its junction rows, and its sub-events (with
// their junction rows) in one transaction.
func (s *EventStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Sub-events hang off the event; clear their junctions before the
	// cascade removes the rows themselves.
	_, err = tx.Exec(`
		DELETE FROM subevent_categories
		WHERE subevent_id IN (SELECT id FROM subevents WHERE event_id = $1)
	`, id)
	if err != nil {
		return fmt.Errorf("clear subevent_categories: %w", err)
	}
	_, err = tx.Exec(`
		DELETE FROM subevent_types
		WHERE subevent_id IN (SELECT id FROM subevents WHERE event_id = $1)
	`, id)
	if err != nil {
		return fmt.Errorf("clear subevent_types: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM subevents WHERE event_id = $1`, id); err != nil {
		return fmt.Errorf("delete subevents: %w", err)
	}

	err = clearRelations(tx, "event_id", id,
		"event_categories", "event_types", "section_events")
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return tx.Commit()
}
