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

// Categories groups the category HTTP handlers.
type Categories struct {
	store *store.CategoryStore
	cache *cache.ResponseCache
}

// NewCategories creates a Categories handler group. cache may be nil.
func NewCategories(s *store.CategoryStore, rc *cache.ResponseCache) *Categories {
	return &Categories{store: s, cache: rc}
}

// categoryRequest carries category create/update payloads. Pointer fields
// distinguish absent from zero so updates can be partial.
type categoryRequest struct {
	Name         *string `json:"name"`
	Slug         *string `json:"slug"`
	Description  *string `json:"description"`
	Image        *string `json:"image"`
	DisplayOrder *int    `json:"display_order"`
	Featured     *bool   `json:"featured"`
}

// categoryDetail is the public single-category payload.
type categoryDetail struct {
	*models.Category
	DescriptionHTML string `json:"description_html,omitempty"`
}

// List handles GET /api/categories with optional q and featured filters.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	if cachedList(r.Context(), h.cache, w, "categories", r.URL.RawQuery) {
		return
	}

	items, err := h.store.List(store.CategoryFilter{
		Query:    r.URL.Query().Get("q"),
		Featured: queryBool(r, "featured"),
	})
	if err != nil {
		respondStoreError(w, err, "list categories")
		return
	}

	cacheAndRespond(r.Context(), h.cache, w, "categories", r.URL.RawQuery, items)
}

// Get handles GET /api/categories/{id}.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	c, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find category")
		return
	}
	if c == nil {
		respondError(w, http.StatusNotFound, "category not found")
		return
	}

	respondJSON(w, http.StatusOK, categoryDetail{
		Category:        c,
		DescriptionHTML: renderDescription(c.Description),
	})
}

// Create handles POST /api/categories.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
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

	c := &models.Category{Name: *req.Name, Slug: slug.Generate(*req.Name)}
	applyCategory(c, &req)
	if msg := validateSlug(c.Slug); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.store.Create(c)
	if err != nil {
		respondStoreError(w, err, "create category")
		return
	}

	invalidate(r.Context(), h.cache, "categories")
	respondJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/categories/{id} with partial semantics: absent
// fields keep their current values.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find category")
		return
	}
	if c == nil {
		respondError(w, http.StatusNotFound, "category not found")
		return
	}

	if req.Name != nil {
		if msg := validateName(*req.Name); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		c.Name = *req.Name
	}
	applyCategory(c, &req)
	if msg := validateSlug(c.Slug); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.Update(c); err != nil {
		respondStoreError(w, err, "update category")
		return
	}

	invalidate(r.Context(), h.cache, "categories", "businesses", "attractions", "events", "subevents")
	respondJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /api/categories/{id}. Deleting a category still
// referenced by listings returns 409.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.Delete(id); err != nil {
		respondStoreError(w, err, "delete category")
		return
	}

	invalidate(r.Context(), h.cache, "categories")
	w.WriteHeader(http.StatusNoContent)
}

// Reorder handles PUT /api/categories/reorder, assigning display_order by
// array position.
func (h *Categories) Reorder(w http.ResponseWriter, r *http.Request) {
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
		respondStoreError(w, err, "reorder categories")
		return
	}

	invalidate(r.Context(), h.cache, "categories")
	w.WriteHeader(http.StatusNoContent)
}

// Usage handles GET /api/categories/{id}/usage, returning how many
// listings reference the category.
func (h *Categories) Usage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	count, err := h.store.UsageCount(id)
	if err != nil {
		respondStoreError(w, err, "category usage")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"usage": count})
}

// applyCategory copies present optional fields from the request onto the model.
func applyCategory(c *models.Category, req *categoryRequest) {
	if req.Slug != nil && *req.Slug != "" {
		c.Slug = slug.Generate(*req.Slug)
	}
	optText(req.Description, &c.Description)
	optText(req.Image, &c.Image)
	if req.DisplayOrder != nil {
		c.DisplayOrder = *req.DisplayOrder
	}
	if req.Featured != nil {
		c.Featured = *req.Featured
	}
}
