// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"time"

	"cityguide/internal/cache"
	"cityguide/internal/middleware"
	"cityguide/internal/models"
	"cityguide/internal/slug"
	"cityguide/internal/store"
)

// Events groups the event HTTP handlers.
type Events struct {
	store *store.EventStore
	cache *cache.ResponseCache
}

// NewEvents creates an Events handler group. cache may be nil.
func NewEvents(s *store.EventStore, rc *cache.ResponseCache) *Events {
	return &Events{store: s, cache: rc}
}

type eventRequest struct {
	Name          *string               `json:"name"`
	Slug          *string               `json:"slug"`
	Description   *string               `json:"description"`
	Status        *string               `json:"status"`
	Media         *string               `json:"media"`
	StartsAt      *time.Time            `json:"starts_at"`
	EndsAt        *time.Time            `json:"ends_at"`
	ShowDateRange *bool                 `json:"show_date_range"`
	Categories    *[]models.RelationRef `json:"categories"`
	Types         *[]models.RelationRef `json:"types"`
}

type eventDetail struct {
	*models.Event
	DescriptionHTML string `json:"description_html,omitempty"`
}

// List handles GET /api/events with q, status, and category_id filters.
// Unauthenticated requests see published events only regardless of the
// status filter.
func (h *Events) List(w http.ResponseWriter, r *http.Request) {
	f := store.EventFilter{
		Query:      r.URL.Query().Get("q"),
		Status:     models.EventStatus(r.URL.Query().Get("status")),
		CategoryID: queryUUID(r, "category_id"),
	}

	sess := middleware.SessionFromCtx(r.Context())
	public := sess == nil || !sess.TwoFADone
	if public {
		f.Status = models.EventStatusPublished
	}

	// Only public responses go through the shared cache; operator views
	// include drafts and must not be served to anonymous clients.
	if public && cachedList(r.Context(), h.cache, w, "events", r.URL.RawQuery) {
		return
	}

	items, err := h.store.List(f)
	if err != nil {
		respondStoreError(w, err, "list events")
		return
	}

	if public {
		cacheAndRespond(r.Context(), h.cache, w, "events", r.URL.RawQuery, items)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Get handles GET /api/events/{id}. Draft and archived events are hidden
// from unauthenticated requests.
func (h *Events) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	e, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find event")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if e != nil && !e.IsPublished() && (sess == nil || !sess.TwoFADone) {
		e = nil
	}
	if e == nil {
		respondError(w, http.StatusNotFound, "event not found")
		return
	}

	respondJSON(w, http.StatusOK, eventDetail{
		Event:           e,
		DescriptionHTML: renderDescription(e.Description),
	})
}

// Create handles POST /api/events. Status defaults to draft.
func (h *Events) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == nil {
		respondError(w, http.StatusBadRequest, "Name is required.")
		return
	}
	if msg := validateName(*req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	e := &models.Event{
		Name:   *req.Name,
		Slug:   slug.Generate(*req.Name),
		Status: models.EventStatusDraft,
	}
	if msg := applyEvent(e, &req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	var categories, types []models.RelationRef
	if req.Categories != nil {
		categories = *req.Categories
	}
	if req.Types != nil {
		types = *req.Types
	}

	created, err := h.store.Create(e, categories, types)
	if err != nil {
		respondStoreError(w, err, "create event")
		return
	}

	invalidate(r.Context(), h.cache, "events", "sections")
	respondJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/events/{id} with partial semantics.
func (h *Events) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	e, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find event")
		return
	}
	if e == nil {
		respondError(w, http.StatusNotFound, "event not found")
		return
	}

	if req.Name != nil {
		if msg := validateName(*req.Name); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		e.Name = *req.Name
	}
	if msg := applyEvent(e, &req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.Update(e, req.Categories, req.Types); err != nil {
		respondStoreError(w, err, "update event")
		return
	}

	updated, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find event")
		return
	}

	invalidate(r.Context(), h.cache, "events", "subevents", "sections")
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/events/{id}. Sub-events and all junction
// rows go with the parent in one transaction.
func (h *Events) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.Delete(id); err != nil {
		respondStoreError(w, err, "delete event")
		return
	}

	invalidate(r.Context(), h.cache, "events", "subevents", "sections")
	w.WriteHeader(http.StatusNoContent)
}

// applyEvent copies present optional fields onto the model. Returns a
// validation message for unknown statuses or inverted date ranges.
func applyEvent(e *models.Event, req *eventRequest) string {
	if req.Slug != nil && *req.Slug != "" {
		e.Slug = slug.Generate(*req.Slug)
	}
	optText(req.Description, &e.Description)
	optText(req.Media, &e.Media)
	if req.Status != nil {
		status := models.EventStatus(*req.Status)
		if !status.Valid() {
			return "Status must be draft, published, or archived."
		}
		e.Status = status
	}
	if req.StartsAt != nil {
		t := *req.StartsAt
		e.StartsAt = &t
	}
	if req.EndsAt != nil {
		t := *req.EndsAt
		e.EndsAt = &t
	}
	if e.StartsAt != nil && e.EndsAt != nil && e.EndsAt.Before(*e.StartsAt) {
		return "End date must not be before start date."
	}
	if e.StartsAt == nil && e.EndsAt != nil {
		return "End date requires a start date."
	}
	if req.ShowDateRange != nil {
		e.ShowDateRange = *req.ShowDateRange
	}
	return ""
}
