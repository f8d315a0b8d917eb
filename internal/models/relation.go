// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// RelationRef is the normalized form of a relationship payload item.
// API clients may send relation fields either as a bare list of ids or as
// a list of objects carrying the junction-scoped flags; both decode into
// this record form before the store layer is touched.
type RelationRef struct {
	ID          uuid.UUID `json:"id"`
	IsHighlight bool      `json:"is_highlight"`
	IsPremium   bool      `json:"is_premium"`
}

// UnmarshalJSON accepts either "uuid-string" or
// {"id": ..., "is_highlight": ..., "is_premium": ...}.
func (r *RelationRef) UnmarshalJSON(data []byte) error {
	// Bare id form.
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return fmt.Errorf("relation ref: invalid id %q", id)
		}
		*r = RelationRef{ID: parsed}
		return nil
	}

	// Object form. Alias avoids recursing into this method.
	type refAlias RelationRef
	var obj refAlias
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("relation ref: %w", err)
	}
	if obj.ID == uuid.Nil {
		return fmt.Errorf("relation ref: missing id")
	}
	*r = RelationRef(obj)
	return nil
}

// RelationIDs extracts the bare ids from a slice of refs.
func RelationIDs(refs []RelationRef) []uuid.UUID {
	if refs == nil {
		return nil
	}
	ids := make([]uuid.UUID, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	return ids
}
