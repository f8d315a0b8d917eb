// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"cityguide/internal/cache"
	"cityguide/internal/models"
	"cityguide/internal/slug"
	"cityguide/internal/store"
)

// Sections groups the section HTTP handlers.
type Sections struct {
	store *store.SectionStore
	cache *cache.ResponseCache
}

// NewSections creates a Sections handler group. cache may be nil.
func NewSections(s *store.SectionStore, rc *cache.ResponseCache) *Sections {
	return &Sections{store: s, cache: rc}
}

// sectionRequest carries section create/update payloads. The businesses
// array accepts bare ids or {id, is_highlight, is_premium} records; nil
// member arrays leave that junction untouched on update.
type sectionRequest struct {
	Name         *string               `json:"name"`
	Slug         *string               `json:"slug"`
	Description  *string               `json:"description"`
	Domain       *string               `json:"domain"`
	Image        *string               `json:"image"`
	DisplayOrder *int                  `json:"display_order"`
	IsActive     *bool                 `json:"is_active"`
	Featured     *bool                 `json:"featured"`
	Metadata     map[string]any        `json:"metadata"`
	Businesses   *[]models.RelationRef `json:"businesses"`
	Attractions  *[]uuid.UUID          `json:"attractions"`
	Events       *[]uuid.UUID          `json:"events"`
}

type sectionDetail struct {
	*models.Section
	DescriptionHTML string `json:"description_html,omitempty"`
}

// List handles GET /api/sections with q, domain, is_active, and featured
// filters.
func (h *Sections) List(w http.ResponseWriter, r *http.Request) {
	if cachedList(r.Context(), h.cache, w, "sections", r.URL.RawQuery) {
		return
	}

	items, err := h.store.List(store.SectionFilter{
		Query:    r.URL.Query().Get("q"),
		Domain:   r.URL.Query().Get("domain"),
		IsActive: queryBool(r, "is_active"),
		Featured: queryBool(r, "featured"),
	})
	if err != nil {
		respondStoreError(w, err, "list sections")
		return
	}

	cacheAndRespond(r.Context(), h.cache, w, "sections", r.URL.RawQuery, items)
}

// Get handles GET /api/sections/{id}, resolving member businesses with
// their junction flags plus attraction/event id arrays.
func (h *Sections) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	sec, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find section")
		return
	}
	if sec == nil {
		respondError(w, http.StatusNotFound, "section not found")
		return
	}

	respondJSON(w, http.StatusOK, sectionDetail{
		Section:         sec,
		DescriptionHTML: renderDescription(sec.Description),
	})
}

// Create handles POST /api/sections.
func (h *Sections) Create(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
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

	sec := &models.Section{Name: *req.Name, Slug: slug.Generate(*req.Name), IsActive: true}
	applySection(sec, &req)

	created, err := h.store.Create(sec, store.SectionMembers{
		Businesses:  req.Businesses,
		Attractions: req.Attractions,
		Events:      req.Events,
	})
	if err != nil {
		respondStoreError(w, err, "create section")
		return
	}

	invalidate(r.Context(), h.cache, "sections", "businesses")
	respondJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/sections/{id} with partial semantics for both
// scalars and member arrays.
func (h *Sections) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req sectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sec, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find section")
		return
	}
	if sec == nil {
		respondError(w, http.StatusNotFound, "section not found")
		return
	}

	if req.Name != nil {
		if msg := validateName(*req.Name); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		sec.Name = *req.Name
	}
	applySection(sec, &req)

	if err := h.store.Update(sec, store.SectionMembers{
		Businesses:  req.Businesses,
		Attractions: req.Attractions,
		Events:      req.Events,
	}); err != nil {
		respondStoreError(w, err, "update section")
		return
	}

	updated, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find section")
		return
	}

	invalidate(r.Context(), h.cache, "sections", "businesses")
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/sections/{id}; 409 while the section still
// has members.
func (h *Sections) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.Delete(id); err != nil {
		respondStoreError(w, err, "delete section")
		return
	}

	invalidate(r.Context(), h.cache, "sections")
	w.WriteHeader(http.StatusNoContent)
}

// Reorder handles PUT /api/sections/reorder.
func (h *Sections) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.IDs) == 0 {
		respondError(w, http.StatusBadRequest, "ids must not be empty")
		return
	}

	if err := h.store.Reorder(req.IDs); err != nil {
		respondStoreError(w, err, "reorder sections")
		return
	}

	invalidate(r.Context(), h.cache, "sections")
	w.WriteHeader(http.StatusNoContent)
}

// Usage handles GET /api/sections/{id}/usage.
func (h *Sections) Usage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	count, err := h.store.UsageCount(id)
	if err != nil {
		respondStoreError(w, err, "section usage")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"usage": count})
}

func applySection(sec *models.Section, req *sectionRequest) {
	if req.Slug != nil && *req.Slug != "" {
		sec.Slug = slug.Generate(*req.Slug)
	}
	optText(req.Description, &sec.Description)
	optText(req.Domain, &sec.Domain)
	optText(req.Image, &sec.Image)
	if req.DisplayOrder != nil {
		sec.DisplayOrder = *req.DisplayOrder
	}
	if req.IsActive != nil {
		sec.IsActive = *req.IsActive
	}
	if req.Featured != nil {
		sec.Featured = *req.Featured
	}
	if req.Metadata != nil {
		sec.Metadata = req.Metadata
	}
}
