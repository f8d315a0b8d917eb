// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Section is a named collection of businesses, attractions, and events,
// used for homepage groupings and partner microsites. Domain scopes a
// section to a partner site when set.
type Section struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Slug         string         `json:"slug"`
	Description  *string        `json:"description,omitempty"`
	Domain       *string        `json:"domain,omitempty"`
	Image        *string        `json:"image,omitempty"`
	DisplayOrder int            `json:"display_order"`
	IsActive     bool           `json:"is_active"`
	Featured     bool           `json:"featured"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	// Membership, resolved on single-section reads.
	Businesses    []RelatedBusiness `json:"businesses,omitempty"`
	BusinessIDs   []uuid.UUID       `json:"business_ids,omitempty"`
	AttractionIDs []uuid.UUID       `json:"attraction_ids,omitempty"`
	EventIDs      []uuid.UUID       `json:"event_ids,omitempty"`
}

// RelatedBusiness is a business as seen through a section junction row,
// carrying the relationship-scoped presentation flags.
type RelatedBusiness struct {
	Business
	IsHighlight bool `json:"is_highlight"`
	IsPremium   bool `json:"is_premium"`
}
