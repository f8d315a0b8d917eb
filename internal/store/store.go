// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all CityGuide
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods. Multi-row writes (base row plus relationship junction rows)
// run inside a single transaction.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"cityguide/internal/models"
)

// ErrInUse is returned when deleting a category, type, or section that is
// still referenced by directory entries.
var ErrInUse = errors.New("entity is still referenced and cannot be deleted")

// ErrInvalidCredentials is the single error returned for every login
// failure, so callers cannot distinguish an unknown identifier from a
// wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// FieldConflictError reports a uniqueness violation on a named field,
// mapped from a Postgres unique-constraint error.
type FieldConflictError struct {
	Field string
}

func (e *FieldConflictError) Error() string {
	return e.Field + " already exists"
}

// mapConflict translates Postgres unique violations (SQLSTATE 23505) into
// FieldConflictError naming the conflicting field. Other errors pass
// through unchanged.
func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	field := "value"
	switch {
	case strings.Contains(pgErr.ConstraintName, "username"):
		field = "username"
	case strings.Contains(pgErr.ConstraintName, "email"):
		field = "email"
	case strings.Contains(pgErr.ConstraintName, "slug"):
		field = "slug"
	}
	return &FieldConflictError{Field: field}
}

// replaceRelations rewrites one junction table for one owner row:
// delete-all-then-insert-all, inside the caller's transaction. Tables with
// presentation flags carry is_highlight / is_premium from the refs.
func replaceRelations(tx *sql.Tx, table, ownerCol string, ownerID uuid.UUID, relatedCol string, refs []models.RelationRef, withFlags bool) error {
	if _, err := tx.Exec(`DELETE FROM `+table+` WHERE `+ownerCol+` = $1`, ownerID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for _, ref := range refs {
		var err error
		if withFlags {
			_, err = tx.Exec(
				`INSERT INTO `+table+` (`+ownerCol+`, `+relatedCol+`, is_highlight, is_premium)
				 VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
				ownerID, ref.ID, ref.IsHighlight, ref.IsPremium,
			)
		} else {
			_, err = tx.Exec(
				`INSERT INTO `+table+` (`+ownerCol+`, `+relatedCol+`)
				 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				ownerID, ref.ID,
			)
		}
		if err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

// clearRelations removes all junction rows owned by the given row. Used
// before deleting the base row so no orphaned relationships remain.
func clearRelations(tx *sql.Tx, ownerCol string, ownerID uuid.UUID, tables ...string) error {
	for _, table := range tables {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE `+ownerCol+` = $1`, ownerID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// reorderRows assigns display_order = index for each id in order, as a
// single bulk statement inside a transaction. Ids not present in the table
// are ignored.
func reorderRows(db *sql.DB, table string, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE `+table+` AS t
		SET display_order = v.ord, updated_at = NOW()
		FROM (
			SELECT unnest($1::uuid[]) AS id,
			       generate_subscripts($1::uuid[], 1) - 1 AS ord
		) v
		WHERE t.id = v.id
	`, ids)
	if err != nil {
		return fmt.Errorf("reorder %s: %w", table, err)
	}

	return tx.Commit()
}

// prefixColumns qualifies each column in a comma-separated list with a
// table alias, for use in joined selects.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// countWhere runs a single COUNT query and returns the result.
func countWhere(db *sql.DB, query string, args ...any) (int, error) {
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// marshalJSONB encodes an optional map for a nullable jsonb column.
func marshalJSONB(m map[string]any) (any, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	return b, nil
}

// unmarshalJSONB decodes a nullable jsonb column into a map.
func unmarshalJSONB(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal jsonb: %w", err)
	}
	return m, nil
}
