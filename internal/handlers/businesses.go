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

// Businesses groups the business HTTP handlers.
type Businesses struct {
	store *store.BusinessStore
	cache *cache.ResponseCache
}

// NewBusinesses creates a Businesses handler group. cache may be nil.
func NewBusinesses(s *store.BusinessStore, rc *cache.ResponseCache) *Businesses {
	return &Businesses{store: s, cache: rc}
}

// businessRequest carries business create/update payloads. Relation
// arrays accept bare id strings or {id, is_highlight, is_premium} records
// (models.RelationRef normalizes both); a nil relation array leaves the
// junction untouched on update.
type businessRequest struct {
	Name         *string               `json:"name"`
	Slug         *string               `json:"slug"`
	BrandID      *uuid.UUID            `json:"brand_id"`
	Description  *string               `json:"description"`
	Address      *string               `json:"address"`
	Location     *string               `json:"location"`
	Rating       *float64              `json:"rating"`
	WorkingHours *string               `json:"working_hours"`
	Phone        *string               `json:"phone"`
	Website      *string               `json:"website"`
	Email        *string               `json:"email"`
	PriceRange   *string               `json:"price_range"`
	Social       map[string]any        `json:"social"`
	Featured     *bool                 `json:"featured"`
	DisplayOrder *int                  `json:"display_order"`
	Media        *string               `json:"media"`
	Categories   *[]models.RelationRef `json:"categories"`
	Types        *[]models.RelationRef `json:"types"`
	Sections     *[]uuid.UUID          `json:"sections"`
}

// businessDetail is the public single-business payload.
type businessDetail struct {
	*models.Business
	DescriptionHTML string `json:"description_html,omitempty"`
	OpenNow         bool   `json:"open_now"`
}

// List handles GET /api/businesses with q, featured, brand_id,
// category_id, and section_id filters.
func (h *Businesses) List(w http.ResponseWriter, r *http.Request) {
	if cachedList(r.Context(), h.cache, w, "businesses", r.URL.RawQuery) {
		return
	}

	items, err := h.store.List(store.BusinessFilter{
		Query:      r.URL.Query().Get("q"),
		Featured:   queryBool(r, "featured"),
		BrandID:    queryUUID(r, "brand_id"),
		CategoryID: queryUUID(r, "category_id"),
		SectionID:  queryUUID(r, "section_id"),
	})
	if err != nil {
		respondStoreError(w, err, "list businesses")
		return
	}

	cacheAndRespond(r.Context(), h.cache, w, "businesses", r.URL.RawQuery, items)
}

// Get handles GET /api/businesses/{id}.
func (h *Businesses) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	b, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find business")
		return
	}
	if b == nil {
		respondError(w, http.StatusNotFound, "business not found")
		return
	}

	respondJSON(w, http.StatusOK, businessDetail{
		Business:        b,
		DescriptionHTML: renderDescription(b.Description),
		OpenNow:         b.IsOpenNow(),
	})
}

// Create handles POST /api/businesses. Base row and junction rows are
// written in one transaction by the store.
func (h *Businesses) Create(w http.ResponseWriter, r *http.Request) {
	var req businessRequest
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
	if req.Description != nil {
		if msg := validateDescription(*req.Description); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
	}

	b := &models.Business{Name: *req.Name, Slug: slug.Generate(*req.Name)}
	applyBusiness(b, &req)

	var categories, types []models.RelationRef
	var sections []uuid.UUID
	if req.Categories != nil {
		categories = *req.Categories
	}
	if req.Types != nil {
		types = *req.Types
	}
	if req.Sections != nil {
		sections = *req.Sections
	}

	created, err := h.store.Create(b, categories, types, sections)
	if err != nil {
		respondStoreError(w, err, "create business")
		return
	}

	invalidate(r.Context(), h.cache, "businesses", "sections")
	respondJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/businesses/{id}. Absent scalar fields keep
// their values; absent relation arrays leave junctions untouched; present
// relation arrays replace the junction wholesale.
func (h *Businesses) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req businessRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find business")
		return
	}
	if b == nil {
		respondError(w, http.StatusNotFound, "business not found")
		return
	}

	if req.Name != nil {
		if msg := validateName(*req.Name); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		b.Name = *req.Name
	}
	if req.Description != nil {
		if msg := validateDescription(*req.Description); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
	}
	applyBusiness(b, &req)

	if err := h.store.Update(b, req.Categories, req.Types, req.Sections); err != nil {
		respondStoreError(w, err, "update business")
		return
	}

	// Re-read to return the denormalized payload with fresh relations.
	updated, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find business")
		return
	}

	invalidate(r.Context(), h.cache, "businesses", "sections")
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/businesses/{id}; junction rows go in the
// same transaction.
func (h *Businesses) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.Delete(id); err != nil {
		respondStoreError(w, err, "delete business")
		return
	}

	invalidate(r.Context(), h.cache, "businesses", "sections")
	w.WriteHeader(http.StatusNoContent)
}

// Reorder handles PUT /api/businesses/reorder.
func (h *Businesses) Reorder(w http.ResponseWriter, r *http.Request) {
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
		respondStoreError(w, err, "reorder businesses")
		return
	}

	invalidate(r.Context(), h.cache, "businesses")
	w.WriteHeader(http.StatusNoContent)
}

func applyBusiness(b *models.Business, req *businessRequest) {
	if req.Slug != nil && *req.Slug != "" {
		b.Slug = slug.Generate(*req.Slug)
	}
	if req.BrandID != nil {
		if *req.BrandID == uuid.Nil {
			b.BrandID = nil
		} else {
			id := *req.BrandID
			b.BrandID = &id
		}
	}
	optText(req.Description, &b.Description)
	optText(req.Address, &b.Address)
	optText(req.Location, &b.Location)
	optText(req.WorkingHours, &b.WorkingHours)
	optText(req.Phone, &b.Phone)
	optText(req.Website, &b.Website)
	optText(req.Email, &b.Email)
	optText(req.PriceRange, &b.PriceRange)
	optText(req.Media, &b.Media)
	if req.Rating != nil {
		v := *req.Rating
		b.Rating = &v
	}
	if req.Social != nil {
		b.Social = req.Social
	}
	if req.Featured != nil {
		b.Featured = *req.Featured
	}
	if req.DisplayOrder != nil {
		b.DisplayOrder = *req.DisplayOrder
	}
}
