// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the publishing state of an event or sub-event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusArchived  EventStatus = "archived"
)

// Valid reports whether the status is one of the known states.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusArchived:
		return true
	}
	return false
}

// Event is a dated directory listing. The date range is closed when both
// bounds are set, open-ended when only StartsAt is set, and absent when
// neither is (no date constraint).
type Event struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Slug          string      `json:"slug"`
	Description   *string     `json:"description,omitempty"`
	Status        EventStatus `json:"status"`
	Media         *string     `json:"media,omitempty"`
	StartsAt      *time.Time  `json:"starts_at,omitempty"`
	EndsAt        *time.Time  `json:"ends_at,omitempty"`
	ShowDateRange bool        `json:"show_date_range"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	Categories  []Category  `json:"categories,omitempty"`
	Types       []Type      `json:"types,omitempty"`
	CategoryIDs []uuid.UUID `json:"category_ids,omitempty"`
	TypeIDs     []uuid.UUID `json:"type_ids,omitempty"`
}

// IsPublished returns true if the event is in published status.
func (e *Event) IsPublished() bool {
	return e.Status == EventStatusPublished
}

// ActiveAt reports whether the event's date range covers the given time.
// An open-ended range covers everything from StartsAt onward; an absent
// range covers all times.
func (e *Event) ActiveAt(t time.Time) bool {
	return rangeActiveAt(e.StartsAt, e.EndsAt, t)
}

// SubEvent belongs to exactly one parent event and carries its own date
// range, status, and category/type relations.
type SubEvent struct {
	ID            uuid.UUID   `json:"id"`
	EventID       uuid.UUID   `json:"event_id"`
	Name          string      `json:"name"`
	Slug          string      `json:"slug"`
	Description   *string     `json:"description,omitempty"`
	Status        EventStatus `json:"status"`
	Media         *string     `json:"media,omitempty"`
	StartsAt      *time.Time  `json:"starts_at,omitempty"`
	EndsAt        *time.Time  `json:"ends_at,omitempty"`
	ShowEvent     bool        `json:"show_event"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	Categories  []Category  `json:"categories,omitempty"`
	Types       []Type      `json:"types,omitempty"`
	CategoryIDs []uuid.UUID `json:"category_ids,omitempty"`
	TypeIDs     []uuid.UUID `json:"type_ids,omitempty"`
}

// ActiveAt reports whether the sub-event's date range covers the given time.
func (s *SubEvent) ActiveAt(t time.Time) bool {
	return rangeActiveAt(s.StartsAt, s.EndsAt, t)
}

func rangeActiveAt(start, end *time.Time, t time.Time) bool {
	if start == nil {
		return true
	}
	if t.Before(*start) {
		return false
	}
	if end == nil {
		return true
	}
	return !t.After(*end)
}
