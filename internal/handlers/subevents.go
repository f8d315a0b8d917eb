// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"cityguide/internal/cache"
	"cityguide/internal/middleware"
	"cityguide/internal/models"
	"cityguide/internal/slug"
	"cityguide/internal/store"
)

// SubEvents groups the sub-event HTTP handlers.
type SubEvents struct {
	store *store.SubEventStore
	cache *cache.ResponseCache
}

// NewSubEvents creates a SubEvents handler group. cache may be nil.
func NewSubEvents(s *store.SubEventStore, rc *cache.ResponseCache) *SubEvents {
	return &SubEvents{store: s, cache: rc}
}

type subEventRequest struct {
	EventID     *uuid.UUID            `json:"event_id"`
	Name        *string               `json:"name"`
	Slug        *string               `json:"slug"`
	Description *string               `json:"description"`
	Status      *string               `json:"status"`
	Media       *string               `json:"media"`
	StartsAt    *time.Time            `json:"starts_at"`
	EndsAt      *time.Time            `json:"ends_at"`
	ShowEvent   *bool                 `json:"show_event"`
	Categories  *[]models.RelationRef `json:"categories"`
	Types       *[]models.RelationRef `json:"types"`
}

type subEventDetail struct {
	*models.SubEvent
	DescriptionHTML string `json:"description_html,omitempty"`
}

// List handles GET /api/subevents with event_id and status filters.
// Unauthenticated requests see published sub-events only.
func (h *SubEvents) List(w http.ResponseWriter, r *http.Request) {
	f := store.SubEventFilter{
		EventID: queryUUID(r, "event_id"),
		Status:  models.EventStatus(r.URL.Query().Get("status")),
	}

	sess := middleware.SessionFromCtx(r.Context())
	public := sess == nil || !sess.TwoFADone
	if public {
		f.Status = models.EventStatusPublished
	}

	if public && cachedList(r.Context(), h.cache, w, "subevents", r.URL.RawQuery) {
		return
	}

	items, err := h.store.List(f)
	if err != nil {
		respondStoreError(w, err, "list subevents")
		return
	}

	if public {
		cacheAndRespond(r.Context(), h.cache, w, "subevents", r.URL.RawQuery, items)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Get handles GET /api/subevents/{id}.
func (h *SubEvents) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	se, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find subevent")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if se != nil && se.Status != models.EventStatusPublished && (sess == nil || !sess.TwoFADone) {
		se = nil
	}
	if se == nil {
		respondError(w, http.StatusNotFound, "subevent not found")
		return
	}

	respondJSON(w, http.StatusOK, subEventDetail{
		SubEvent:        se,
		DescriptionHTML: renderDescription(se.Description),
	})
}

// Create handles POST /api/subevents. A parent event_id is required.
func (h *SubEvents) Create(w http.ResponseWriter, r *http.Request) {
	var req subEventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.EventID == nil || *req.EventID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "A parent event_id is required.")
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

	se := &models.SubEvent{
		EventID: *req.EventID,
		Name:    *req.Name,
		Slug:    slug.Generate(*req.Name),
		Status:  models.EventStatusDraft,
	}
	if msg := applySubEvent(se, &req); msg != "" {
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

	created, err := h.store.Create(se, categories, types)
	if err != nil {
		respondStoreError(w, err, "create subevent")
		return
	}

	invalidate(r.Context(), h.cache, "subevents", "events")
	respondJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/subevents/{id} with partial semantics. The
// parent event cannot be changed.
func (h *SubEvents) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req subEventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	se, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find subevent")
		return
	}
	if se == nil {
		respondError(w, http.StatusNotFound, "subevent not found")
		return
	}

	if req.Name != nil {
		if msg := validateName(*req.Name); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		se.Name = *req.Name
	}
	if msg := applySubEvent(se, &req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.Update(se, req.Categories, req.Types); err != nil {
		respondStoreError(w, err, "update subevent")
		return
	}

	updated, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find subevent")
		return
	}

	invalidate(r.Context(), h.cache, "subevents", "events")
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/subevents/{id}.
func (h *SubEvents) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.Delete(id); err != nil {
		respondStoreError(w, err, "delete subevent")
		return
	}

	invalidate(r.Context(), h.cache, "subevents", "events")
	w.WriteHeader(http.StatusNoContent)
}

func applySubEvent(se *models.SubEvent, req *subEventRequest) string {
	if req.Slug != nil && *req.Slug != "" {
		se.Slug = slug.Generate(*req.Slug)
	}
	optText(req.Description, &se.Description)
	optText(req.Media, &se.Media)
	if req.Status != nil {
		status := models.EventStatus(*req.Status)
		if !status.Valid() {
			return "Status must be draft, published, or archived."
		}
		se.Status = status
	}
	if req.StartsAt != nil {
		t := *req.StartsAt
		se.StartsAt = &t
	}
	if req.EndsAt != nil {
		t := *req.EndsAt
		se.EndsAt = &t
	}
	if se.StartsAt != nil && se.EndsAt != nil && se.EndsAt.Before(*se.StartsAt) {
		return "End date must not be before start date."
	}
	if se.StartsAt == nil && se.EndsAt != nil {
		return "End date requires a start date."
	}
	if req.ShowEvent != nil {
		se.ShowEvent = *req.ShowEvent
	}
	return ""
}
