// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Attraction is a directory listing for a point of interest. Unlike
// businesses, attraction junction rows carry no presentation flags.
type Attraction struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Slug             string     `json:"slug"`
	Description      *string    `json:"description,omitempty"`
	Address          *string    `json:"address,omitempty"`
	Location         *string    `json:"location,omitempty"`
	FeaturedLocation bool       `json:"featured_location"`
	Media            *string    `json:"media,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Categories  []Category  `json:"categories,omitempty"`
	Types       []Type      `json:"types,omitempty"`
	CategoryIDs []uuid.UUID `json:"category_ids,omitempty"`
	TypeIDs     []uuid.UUID `json:"type_ids,omitempty"`
}
