// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"cityguide/internal/models"
)

func createTestEvent(t *testing.T, env *testEnv, payload map[string]any) *models.Event {
	t.Helper()

	req := jsonRequest(t, http.MethodPost, "/api/events", payload)
	rec := httptest.NewRecorder()
	env.Events.Create(rec, asOperator(req))

	if rec.Code != http.StatusCreated {
		t.Fatalf("create event: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var e models.Event
	decodeBody(t, rec, &e)
	return &e
}

func TestEventCreate_DefaultsToDraft(t *testing.T) {
	env := newTestEnv(t)

	slug := uniqueSlug("test-event-draft")
	t.Cleanup(func() { cleanRows(t, env.DB, "events", slug) })

	e := createTestEvent(t, env, map[string]any{"name": "Draft Event", "slug": slug})
	if e.Status != models.EventStatusDraft {
		t.Errorf("status = %q, want %q", e.Status, models.EventStatusDraft)
	}
}

func TestEventCreate_InvalidStatus_Returns400(t *testing.T) {
	env := newTestEnv(t)

	req := jsonRequest(t, http.MethodPost, "/api/events", map[string]any{
		"name":   "Bad Status",
		"status": "cancelled-ish",
	})
	rec := httptest.NewRecorder()
	env.Events.Create(rec, asOperator(req))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestEventCreate_EndsBeforeStarts_Returns400(t *testing.T) {
	env := newTestEnv(t)

	req := jsonRequest(t, http.MethodPost, "/api/events", map[string]any{
		"name":      "Backwards Event",
		"starts_at": "2026-09-10T18:00:00Z",
		"ends_at":   "2026-09-09T18:00:00Z",
	})
	rec := httptest.NewRecorder()
	env.Events.Create(rec, asOperator(req))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestEventGet_DraftHiddenFromAnonymous(t *testing.T) {
	env := newTestEnv(t)

	slug := uniqueSlug("test-event-hidden")
	t.Cleanup(func() { cleanRows(t, env.DB, "events", slug) })

	e := createTestEvent(t, env, map[string]any{"name": "Hidden Event", "slug": slug})

	// Anonymous request: the draft must look like it does not exist.
	req := httptest.NewRequest(http.MethodGet, "/api/events/x", nil)
	req = withChiURLParam(req, "id", e.ID.String())
	rec := httptest.NewRecorder()
	env.Events.Get(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("anonymous draft get: got status %d, want %d", rec.Code, http.StatusNotFound)
	}

	// Operator request sees it.
	opReq := httptest.NewRequest(http.MethodGet, "/api/events/x", nil)
	opReq = withChiURLParam(asOperator(opReq), "id", e.ID.String())
	opRec := httptest.NewRecorder()
	env.Events.Get(opRec, opReq)
	if opRec.Code != http.StatusOK {
		t.Errorf("operator draft get: got status %d, want %d", opRec.Code, http.StatusOK)
	}
}

func TestEventList_AnonymousSeesOnlyPublished(t *testing.T) {
	env := newTestEnv(t)

	draftSlug := uniqueSlug("test-event-list-draft")
	pubSlug := uniqueSlug("test-event-list-pub")
	t.Cleanup(func() { cleanRows(t, env.DB, "events", draftSlug, pubSlug) })

	createTestEvent(t, env, map[string]any{"name": "List Draft", "slug": draftSlug})
	pub := createTestEvent(t, env, map[string]any{
		"name":   "List Published",
		"slug":   pubSlug,
		"status": "published",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/events?nocache="+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	env.Events.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
	}
	var items []models.Event
	decodeBody(t, rec, &items)

	foundPub := false
	for _, item := range items {
		if item.Slug == draftSlug {
			t.Error("draft event leaked into anonymous listing")
		}
		if item.ID == pub.ID {
			foundPub = true
		}
	}
	if !foundPub {
		t.Error("published event missing from anonymous listing")
	}
}

func TestEventList_OperatorSeesDrafts(t *testing.T) {
	env := newTestEnv(t)

	draftSlug := uniqueSlug("test-event-op-draft")
	t.Cleanup(func() { cleanRows(t, env.DB, "events", draftSlug) })

	draft := createTestEvent(t, env, map[string]any{"name": "Operator Draft", "slug": draftSlug})

	req := httptest.NewRequest(http.MethodGet, "/api/events?status=draft", nil)
	rec := httptest.NewRecorder()
	env.Events.List(rec, asOperator(req))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
	}
	var items []models.Event
	decodeBody(t, rec, &items)

	found := false
	for _, item := range items {
		if item.ID == draft.ID {
			found = true
		}
	}
	if !found {
		t.Error("draft event missing from operator listing")
	}
}

func TestEventUpdate_PublishMakesVisible(t *testing.T) {
	env := newTestEnv(t)

	slug := uniqueSlug("test-event-publish")
	t.Cleanup(func() { cleanRows(t, env.DB, "events", slug) })

	e := createTestEvent(t, env, map[string]any{"name": "Publishable Event", "slug": slug})

	upReq := jsonRequest(t, http.MethodPut, "/api/events/x", map[string]any{"status": "published"})
	upReq = withChiURLParam(asOperator(upReq), "id", e.ID.String())
	upRec := httptest.NewRecorder()
	env.Events.Update(upRec, upReq)
	if upRec.Code != http.StatusOK {
		t.Fatalf("publish: got status %d, body %s", upRec.Code, upRec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/events/x", nil)
	req = withChiURLParam(req, "id", e.ID.String())
	rec := httptest.NewRecorder()
	env.Events.Get(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("anonymous get after publish: got status %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestSubEventCreate_RequiresParentEvent(t *testing.T) {
	env := newTestEnv(t)

	req := jsonRequest(t, http.MethodPost, "/api/subevents", map[string]any{
		"name": "Orphan SubEvent",
	})
	rec := httptest.NewRecorder()
	env.SubEvents.Create(rec, asOperator(req))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSubEventCreate_UnderParent(t *testing.T) {
	env := newTestEnv(t)

	eventSlug := uniqueSlug("test-subevent-parent")
	subSlug := uniqueSlug("test-subevent-child")
	t.Cleanup(func() {
		cleanRows(t, env.DB, "subevents", subSlug)
		cleanRows(t, env.DB, "events", eventSlug)
	})

	parent := createTestEvent(t, env, map[string]any{"name": "Parent Event", "slug": eventSlug})

	req := jsonRequest(t, http.MethodPost, "/api/subevents", map[string]any{
		"name":     "Child Happening",
		"slug":     subSlug,
		"event_id": parent.ID.String(),
	})
	rec := httptest.NewRecorder()
	env.SubEvents.Create(rec, asOperator(req))

	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
	}
	var sub models.SubEvent
	decodeBody(t, rec, &sub)
	if sub.EventID != parent.ID {
		t.Errorf("event_id = %s, want %s", sub.EventID, parent.ID)
	}
}
