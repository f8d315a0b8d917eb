// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Business is a directory listing for a commercial venue. Location is a
// free-text "lat,long" string; WorkingHours uses the "HH:MM-HH:MM" format.
type Business struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Slug         string         `json:"slug"`
	BrandID      *uuid.UUID     `json:"brand_id,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Address      *string        `json:"address,omitempty"`
	Location     *string        `json:"location,omitempty"`
	Rating       *float64       `json:"rating,omitempty"`
	WorkingHours *string        `json:"working_hours,omitempty"`
	Phone        *string        `json:"phone,omitempty"`
	Website      *string        `json:"website,omitempty"`
	Email        *string        `json:"email,omitempty"`
	PriceRange   *string        `json:"price_range,omitempty"`
	Social       map[string]any `json:"social,omitempty"`
	Featured     bool           `json:"featured"`
	DisplayOrder int            `json:"display_order"`
	Media        *string        `json:"media,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	// Relations, resolved on reads. The Related* wrappers carry the
	// junction-scoped is_highlight / is_premium flags.
	Categories []RelatedCategory `json:"categories,omitempty"`
	Types      []RelatedType     `json:"types,omitempty"`

	CategoryIDs []uuid.UUID `json:"category_ids,omitempty"`
	TypeIDs     []uuid.UUID `json:"type_ids,omitempty"`
	SectionIDs  []uuid.UUID `json:"section_ids,omitempty"`
}

// RelatedCategory is a category as seen through a junction row.
type RelatedCategory struct {
	Category
	IsHighlight bool `json:"is_highlight"`
	IsPremium   bool `json:"is_premium"`
}

// RelatedType is a type as seen through a junction row.
type RelatedType struct {
	Type
	IsHighlight bool `json:"is_highlight"`
	IsPremium   bool `json:"is_premium"`
}

// OpenAt reports whether the business is open at the given time according
// to its working-hours string. Both bounds are inclusive. A range whose
// end precedes its start crosses midnight. Missing or malformed hours
// always report closed.
func (b *Business) OpenAt(t time.Time) bool {
	if b.WorkingHours == nil {
		return false
	}
	start, end, ok := parseHours(*b.WorkingHours)
	if !ok {
		return false
	}
	cur := t.Hour()*60 + t.Minute()
	if end < start {
		// Overnight range, e.g. "22:00-03:00".
		return cur >= start || cur <= end
	}
	return cur >= start && cur <= end
}

// IsOpenNow reports whether the business is open at the current wall-clock time.
func (b *Business) IsOpenNow() bool {
	return b.OpenAt(time.Now())
}

// parseHours parses a "HH:MM-HH:MM" string into minutes since midnight.
func parseHours(s string) (start, end int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, ok = parseClock(parts[0])
	if !ok {
		return 0, 0, false
	}
	end, ok = parseClock(parts[1])
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, bool) {
	h, m, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, false
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 {
		return 0, false
	}
	return hours*60 + mins, true
}
