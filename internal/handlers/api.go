// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the CityGuide API.
// Handlers are grouped by entity (categories, businesses, events, ...)
// plus auth and upload, and receive their dependencies through the
// handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cityguide/internal/cache"
	"cityguide/internal/markdown"
	"cityguide/internal/store"
)

// maxBodyBytes caps JSON request bodies. Uploads have their own limit.
const maxBodyBytes = 1 << 20 // 1 MiB

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("encode response failed", "error", err)
		}
	}
}

// respondError writes a JSON error body {"error": msg}.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondStoreError maps store-layer failures onto HTTP statuses:
// field conflicts and in-use deletions become 409, everything else 500.
func respondStoreError(w http.ResponseWriter, err error, op string) {
	var conflict *store.FieldConflictError
	switch {
	case errors.As(err, &conflict):
		respondError(w, http.StatusConflict, conflict.Field+" already exists")
	case errors.Is(err, store.ErrInUse):
		respondError(w, http.StatusConflict, "entity is still referenced and cannot be deleted")
	default:
		slog.Error(op+" failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes the request body into v, enforcing the body size cap
// and rejecting unknown top-level junk after the value.
func decodeJSON(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

// idParam parses the {id} chi URL parameter as a UUID.
func idParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// reorderRequest is the body of PUT /api/<entity>/reorder.
type reorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// cachedList checks the response cache for a listing payload and writes it
// on hit. Returns true when the response was served from cache.
func cachedList(ctx context.Context, rc *cache.ResponseCache, w http.ResponseWriter, entity, rawQuery string) bool {
	if rc == nil {
		return false
	}
	payload, ok := rc.Get(ctx, cache.ListKey(entity, rawQuery))
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
	return true
}

// cacheAndRespond serializes v, stores it in the response cache under the
// listing key, and writes it to the client.
func cacheAndRespond(ctx context.Context, rc *cache.ResponseCache, w http.ResponseWriter, entity, rawQuery string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("encode response failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if rc != nil {
		rc.Set(ctx, cache.ListKey(entity, rawQuery), payload)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// invalidate drops cached responses for the given entity kinds. Mutations
// to one entity change denormalized payloads of related ones, so callers
// pass every affected kind.
func invalidate(ctx context.Context, rc *cache.ResponseCache, entities ...string) {
	if rc == nil {
		return
	}
	for _, e := range entities {
		rc.InvalidateEntity(ctx, e)
	}
}

// renderDescription converts a markdown description to HTML for public
// detail responses. Returns "" for nil or failing input.
func renderDescription(desc *string) string {
	if desc == nil || *desc == "" {
		return ""
	}
	html, err := markdown.ToHTML(*desc)
	if err != nil {
		slog.Warn("description render failed", "error", err)
		return ""
	}
	return html
}

// queryBool parses an optional ?name=true|false filter. Returns nil when
// the parameter is absent or not a boolean.
func queryBool(r *http.Request, name string) *bool {
	switch r.URL.Query().Get(name) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}

// queryUUID parses an optional UUID query parameter. Returns nil when
// absent or malformed.
func queryUUID(r *http.Request, name string) *uuid.UUID {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// optText applies an optional text field from a request onto a nullable
// model field. Absent leaves the field untouched; an empty string clears it.
func optText(req *string, dst **string) {
	if req == nil {
		return
	}
	if *req == "" {
		*dst = nil
		return
	}
	v := *req
	*dst = &v
}
