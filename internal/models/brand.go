// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Brand groups businesses under a commercial identity. Brands form a
// self-referential tree via ParentID (depth unconstrained).
type Brand struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description,omitempty"`
	Media       *string    `json:"media,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	BusinessID  *uuid.UUID `json:"business_id,omitempty"`
	TaxID       *string    `json:"tax_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// BusinessCount is a derived read-only aggregate: the number of
	// businesses whose brand_id points at this brand.
	BusinessCount int `json:"business_count"`

	// Children and Depth are populated by tree queries only.
	Children []Brand `json:"children,omitempty"`
	Depth    int     `json:"-"`
}
