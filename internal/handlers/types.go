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

// Types groups the type (subcategory) HTTP handlers.
type Types struct {
	store *store.TypeStore
	cache *cache.ResponseCache
}

// NewTypes creates a Types handler group. cache may be nil.
func NewTypes(s *store.TypeStore, rc *cache.ResponseCache) *Types {
	return &Types{store: s, cache: rc}
}

type typeRequest struct {
	Name         *string    `json:"name"`
	Slug         *string    `json:"slug"`
	Description  *string    `json:"description"`
	Image        *string    `json:"image"`
	CategoryID   *uuid.UUID `json:"category_id"`
	DisplayOrder *int       `json:"display_order"`
}

type typeDetail struct {
	*models.Type
	DescriptionHTML string `json:"description_html,omitempty"`
}

// List handles GET /api/types with optional q and category_id filters.
func (h *Types) List(w http.ResponseWriter, r *http.Request) {
	if cachedList(r.Context(), h.cache, w, "types", r.URL.RawQuery) {
		return
	}

	items, err := h.store.List(store.TypeFilter{
		Query:      r.URL.Query().Get("q"),
		CategoryID: queryUUID(r, "category_id"),
	})
	if err != nil {
		respondStoreError(w, err, "list types")
		return
	}

	cacheAndRespond(r.Context(), h.cache, w, "types", r.URL.RawQuery, items)
}

// Get handles GET /api/types/{id}.
func (h *Types) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	t, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find type")
		return
	}
	if t == nil {
		respondError(w, http.StatusNotFound, "type not found")
		return
	}

	respondJSON(w, http.StatusOK, typeDetail{
		Type:            t,
		DescriptionHTML: renderDescription(t.Description),
	})
}

// Create handles POST /api/types.
func (h *Types) Create(w http.ResponseWriter, r *http.Request) {
	var req typeRequest
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

	t := &models.Type{Name: *req.Name, Slug: slug.Generate(*req.Name)}
	applyType(t, &req)

	created, err := h.store.Create(t)
	if err != nil {
		respondStoreError(w, err, "create type")
		return
	}

	invalidate(r.Context(), h.cache, "types")
	respondJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/types/{id} with partial semantics.
func (h *Types) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req typeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	t, err := h.store.FindByID(id)
	if err != nil {
		respondStoreError(w, err, "find type")
		return
	}
	if t == nil {
		respondError(w, http.StatusNotFound, "type not found")
		return
	}

	if req.Name != nil {
		if msg := validateName(*req.Name); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		t.Name = *req.Name
	}
	applyType(t, &req)

	if err := h.store.Update(t); err != nil {
		respondStoreError(w, err, "update type")
		return
	}

	invalidate(r.Context(), h.cache, "types", "businesses", "attractions", "events", "subevents")
	respondJSON(w, http.StatusOK, t)
}

// Delete handles DELETE /api/types/{id}; 409 while still referenced.
func (h *Types) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.Delete(id); err != nil {
		respondStoreError(w, err, "delete type")
		return
	}

	invalidate(r.Context(), h.cache, "types")
	w.WriteHeader(http.StatusNoContent)
}

// Reorder handles PUT /api/types/reorder.
func (h *Types) Reorder(w http.ResponseWriter, r *http.Request) {
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
		respondStoreError(w, err, "reorder types")
		return
	}

	invalidate(r.Context(), h.cache, "types")
	w.WriteHeader(http.StatusNoContent)
}

// Usage handles GET /api/types/{id}/usage.
func (h *Types) Usage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	count, err := h.store.UsageCount(id)
	if err != nil {
		respondStoreError(w, err, "type usage")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"usage": count})
}

func applyType(t *models.Type, req *typeRequest) {
	if req.Slug != nil && *req.Slug != "" {
		t.Slug = slug.Generate(*req.Slug)
	}
	optText(req.Description, &t.Description)
	optText(req.Image, &t.Image)
	if req.CategoryID != nil {
		if *req.CategoryID == uuid.Nil {
			t.CategoryID = nil
		} else {
			id := *req.CategoryID
			t.CategoryID = &id
		}
	}
	if req.DisplayOrder != nil {
		t.DisplayOrder = *req.DisplayOrder
	}
}
