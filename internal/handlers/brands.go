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

// Brands groups the brand HTTP handlers.
type Brands struct {
	store *store.BrandStore
	cache *cache.ResponseCache
}

// NewBrands creates a Brands handler group. cache may be nil.
func NewBrands(s *store.BrandStore, rc *cache.ResponseCache) *Brands {
	return &Brands{store: s, cache: rc}
}

type brandRequest struct {
	Name        *string    `json:"name"`
	Slug        *string    `json:"slug"`
	Description *string    `json:"description"`
	Media       *string    `json:"media"`
	ParentID    *uuid.UUID `json:"parent_id"`
	BusinessID  *uuid.UUID `json:"business_id"`
	TaxID       *string    `json:"tax_id"`
}

type brandDetail struct {
	*models.Brand
	DescriptionHTML string `json:"description_html,omitempty"`
}

// List handles GET /api/brands. With ?tree=true the flat list becomes a
// nested parent/children tree.
func (h *Brands) List(w http.ResponseWriter, r *http.Request) {
	if cachedList(r.Context(), h.cache, w, "brands", r.URL.RawQuery) {
		return
	}

	var (
		items []models.Brand
		err   error
	)
	if tree := queryBool(r, "tree"); tree != nil && *tree {
		items, err = h.store.Tree()
	} else {
		items, err = h.store.List(r.URL.Query().Get("q"))
	}
	if err != nil {
		respondStoreError(w, err, "list brands")
		return
	}

	cacheAndRespond(r.Context(), h.cache, w, "brands", r.URL.RawQuery, items)
}

// Get handles GET /api/brands/{id}.
func (h *Brands) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	b, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find brand")
		return
	}
	if b == nil {
		respondError(w, http.StatusNotFound, "brand not found")
		return
	}

	respondJSON(w, http.StatusOK, brandDetail{
		Brand:           b,
		DescriptionHTML: renderDescription(b.Description),
	})
}

// Create handles POST /api/brands.
func (h *Brands) Create(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
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

	b := &models.Brand{Name: *req.Name, Slug: slug.Generate(*req.Name)}
	applyBrand(b, &req)

	created, err := h.store.Create(b)
	if err != nil {
		respondStoreError(w, err, "create brand")
		return
	}

	invalidate(r.Context(), h.cache, "brands")
	respondJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/brands/{id} with partial semantics.
func (h *Brands) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req brandRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find brand")
		return
	}
	if b == nil {
		respondError(w, http.StatusNotFound, "brand not found")
		return
	}

	if req.Name != nil {
		if msg := validateName(*req.Name); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		b.Name = *req.Name
	}
	applyBrand(b, &req)

	if err := h.store.Update(b); err != nil {
		respondStoreError(w, err, "update brand")
		return
	}

	invalidate(r.Context(), h.cache, "brands", "businesses")
	respondJSON(w, http.StatusOK, b)
}

// Delete handles DELETE /api/brands/{id}. Businesses referencing the brand
// keep their rows; the FK sets brand_id to NULL.
func (h *Brands) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.Delete(id); err != nil {
		respondStoreError(w, err, "delete brand")
		return
	}

	invalidate(r.Context(), h.cache, "brands", "businesses")
	w.WriteHeader(http.StatusNoContent)
}

func applyBrand(b *models.Brand, req *brandRequest) {
	if req.Slug != nil && *req.Slug != "" {
		b.Slug = slug.Generate(*req.Slug)
	}
	optText(req.Description, &b.Description)
	optText(req.Media, &b.Media)
	optText(req.TaxID, &b.TaxID)
	if req.ParentID != nil {
		if *req.ParentID == uuid.Nil {
			b.ParentID = nil
		} else {
			id := *req.ParentID
			b.ParentID = &id
		}
	}
	if req.BusinessID != nil {
		if *req.BusinessID == uuid.Nil {
			b.BusinessID = nil
		} else {
			id := *req.BusinessID
			b.BusinessID = &id
		}
	}
}
