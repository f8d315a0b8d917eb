// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"cityguide/internal/cache"
	"cityguide/internal/models"
	"cityguide/internal/slug"
	"cityguide/internal/store"
)

// Attractions groups the attraction HTTP handlers.
type Attractions struct {
	store *store.AttractionStore
	cache *cache.ResponseCache
}

// NewAttractions creates an Attractions handler group. cache may be nil.
func NewAttractions(s *store.AttractionStore, rc *cache.ResponseCache) *Attractions {
	return &Attractions{store: s, cache: rc}
}

type attractionRequest struct {
	Name             *string               `json:"name"`
	Slug             *string               `json:"slug"`
	Description      *string               `json:"description"`
	Address          *string               `json:"address"`
	Location         *string               `json:"location"`
	FeaturedLocation *bool                 `json:"featured_location"`
	Media            *string               `json:"media"`
	Categories       *[]models.RelationRef `json:"categories"`
	Types            *[]models.RelationRef `json:"types"`
}

type attractionDetail struct {
	*models.Attraction
	DescriptionHTML string `json:"description_html,omitempty"`
}

// List handles GET /api/attractions with q, featured_location, and
// category_id filters.
func (h *Attractions) List(w http.ResponseWriter, r *http.Request) {
	if cachedList(r.Context(), h.cache, w, "attractions", r.URL.RawQuery) {
		return
	}

	items, err := h.store.List(store.AttractionFilter{
		Query:            r.URL.Query().Get("q"),
		FeaturedLocation: queryBool(r, "featured_location"),
		CategoryID:       queryUUID(r, "category_id"),
	})
	if err != nil {
		respondStoreError(w, err, "list attractions")
		return
	}

	cacheAndRespond(r.Context(), h.cache, w, "attractions", r.URL.RawQuery, items)
}

// Get handles GET /api/attractions/{id}.
func (h *Attractions) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	a, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find attraction")
		return
	}
	if a == nil {
		respondError(w, http.StatusNotFound, "attraction not found")
		return
	}

	respondJSON(w, http.StatusOK, attractionDetail{
		Attraction:      a,
		DescriptionHTML: renderDescription(a.Description),
	})
}

// Create handles POST /api/attractions.
func (h *Attractions) Create(w http.ResponseWriter, r *http.Request) {
	var req attractionRequest
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

	a := &models.Attraction{Name: *req.Name, Slug: slug.Generate(*req.Name)}
	applyAttraction(a, &req)

	var categories, types []models.RelationRef
	if req.Categories != nil {
		categories = *req.Categories
	}
	if req.Types != nil {
		types = *req.Types
	}

	created, err := h.store.Create(a, categories, types)
	if err != nil {
		respondStoreError(w, err, "create attraction")
		return
	}

	invalidate(r.Context(), h.cache, "attractions", "sections")
	respondJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/attractions/{id} with partial semantics.
func (h *Attractions) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req attractionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	a, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find attraction")
		return
	}
	if a == nil {
		respondError(w, http.StatusNotFound, "attraction not found")
		return
	}

	if req.Name != nil {
		if msg := validateName(*req.Name); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		a.Name = *req.Name
	}
	applyAttraction(a, &req)

	if err := h.store.Update(a, req.Categories, req.Types); err != nil {
		respondStoreError(w, err, "update attraction")
		return
	}

	updated, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find attraction")
		return
	}

	invalidate(r.Context(), h.cache, "attractions", "sections")
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/attractions/{id}.
func (h *Attractions) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.Delete(id); err != nil {
		respondStoreError(w, err, "delete attraction")
		return
	}

	invalidate(r.Context(), h.cache, "attractions", "sections")
	w.WriteHeader(http.StatusNoContent)
}

func applyAttraction(a *models.Attraction, req *attractionRequest) {
	if req.Slug != nil && *req.Slug != "" {
		a.Slug = slug.Generate(*req.Slug)
	}
	optText(req.Description, &a.Description)
	optText(req.Address, &a.Address)
	optText(req.Location, &a.Location)
	optText(req.Media, &a.Media)
	if req.FeaturedLocation != nil {
		a.FeaturedLocation = *req.FeaturedLocation
	}
}
