// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cityguide/internal/models"
)

func TestSectionCreate_WithMembers(t *testing.T) {
	env := newTestEnv(t)

	bizSlug := uniqueSlug("test-sec-biz")
	secSlug := uniqueSlug("test-sec-members")
	t.Cleanup(func() {
		cleanRows(t, env.DB, "sections", secSlug)
		cleanRows(t, env.DB, "businesses", bizSlug)
	})

	b := createTestBusiness(t, env, map[string]any{"name": "Section Member", "slug": bizSlug})

	req := jsonRequest(t, http.MethodPost, "/api/sections", map[string]any{
		"name":   "Member Section",
		"slug":   secSlug,
		"domain": "food",
		"businesses": []any{
			map[string]any{"id": b.ID.String(), "is_highlight": true},
		},
	})
	rec := httptest.NewRecorder()
	env.Sections.Create(rec, asOperator(req))

	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
	}
	var sec models.Section
	decodeBody(t, rec, &sec)

	getReq := httptest.NewRequest(http.MethodGet, "/api/sections/x", nil)
	getReq = withChiURLParam(getReq, "id", sec.ID.String())
	getRec := httptest.NewRecorder()
	env.Sections.Get(getRec, getReq)

	if getRec.Code != http.StatusOK {
		t.Fatalf("get: got status %d, body %s", getRec.Code, getRec.Body.String())
	}
	var detail models.Section
	decodeBody(t, getRec, &detail)
	if len(detail.Businesses) != 1 {
		t.Fatalf("businesses = %d, want 1", len(detail.Businesses))
	}
	if !detail.Businesses[0].IsHighlight {
		t.Error("is_highlight flag not persisted on membership")
	}
}

func TestSectionDelete_WithMembers_Returns409(t *testing.T) {
	env := newTestEnv(t)

	bizSlug := uniqueSlug("test-sec-del-biz")
	secSlug := uniqueSlug("test-sec-del")
	t.Cleanup(func() {
		cleanRows(t, env.DB, "sections", secSlug)
		cleanRows(t, env.DB, "businesses", bizSlug)
	})

	b := createTestBusiness(t, env, map[string]any{"name": "Blocking Member", "slug": bizSlug})

	req := jsonRequest(t, http.MethodPost, "/api/sections", map[string]any{
		"name":       "Occupied Section",
		"slug":       secSlug,
		"businesses": []string{b.ID.String()},
	})
	rec := httptest.NewRecorder()
	env.Sections.Create(rec, asOperator(req))
	var sec models.Section
	decodeBody(t, rec, &sec)

	delReq := httptest.NewRequest(http.MethodDelete, "/api/sections/x", nil)
	delReq = withChiURLParam(asOperator(delReq), "id", sec.ID.String())
	delRec := httptest.NewRecorder()
	env.Sections.Delete(delRec, delReq)

	if delRec.Code != http.StatusConflict {
		t.Fatalf("got status %d, want %d", delRec.Code, http.StatusConflict)
	}
}

func TestSectionUpdate_ClearMembersThenDelete(t *testing.T) {
	env := newTestEnv(t)

	bizSlug := uniqueSlug("test-sec-clear-biz")
	secSlug := uniqueSlug("test-sec-clear")
	t.Cleanup(func() {
		cleanRows(t, env.DB, "sections", secSlug)
		cleanRows(t, env.DB, "businesses", bizSlug)
	})

	b := createTestBusiness(t, env, map[string]any{"name": "Removable Member", "slug": bizSlug})

	req := jsonRequest(t, http.MethodPost, "/api/sections", map[string]any{
		"name":       "Emptied Section",
		"slug":       secSlug,
		"businesses": []string{b.ID.String()},
	})
	rec := httptest.NewRecorder()
	env.Sections.Create(rec, asOperator(req))
	var sec models.Section
	decodeBody(t, rec, &sec)

	upReq := jsonRequest(t, http.MethodPut, "/api/sections/x", map[string]any{
		"businesses": []string{},
	})
	upReq = withChiURLParam(asOperator(upReq), "id", sec.ID.String())
	upRec := httptest.NewRecorder()
	env.Sections.Update(upRec, upReq)
	if upRec.Code != http.StatusOK {
		t.Fatalf("clear members: got status %d, body %s", upRec.Code, upRec.Body.String())
	}

	delReq := httptest.NewRequest(http.MethodDelete, "/api/sections/x", nil)
	delReq = withChiURLParam(asOperator(delReq), "id", sec.ID.String())
	delRec := httptest.NewRecorder()
	env.Sections.Delete(delRec, delReq)
	if delRec.Code != http.StatusNoContent {
		t.Fatalf("delete emptied section: got status %d, want %d", delRec.Code, http.StatusNoContent)
	}
}

func TestSectionList_DomainFilter(t *testing.T) {
	env := newTestEnv(t)

	foodSlug := uniqueSlug("test-sec-food")
	stagesSlug := uniqueSlug("test-sec-stages")
	t.Cleanup(func() { cleanRows(t, env.DB, "sections", foodSlug, stagesSlug) })

	for slug, domain := range map[string]string{foodSlug: "food", stagesSlug: "stages"} {
		req := jsonRequest(t, http.MethodPost, "/api/sections", map[string]any{
			"name":   "Domain " + domain,
			"slug":   slug,
			"domain": domain,
		})
		rec := httptest.NewRecorder()
		env.Sections.Create(rec, asOperator(req))
		if rec.Code != http.StatusCreated {
			t.Fatalf("create: got status %d, body %s", rec.Code, rec.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sections?domain=food&nocache="+uniqueSlug("q"), nil)
	rec := httptest.NewRecorder()
	env.Sections.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
	}
	var items []models.Section
	decodeBody(t, rec, &items)
	for _, item := range items {
		if item.Slug == stagesSlug {
			t.Error("stages-domain section leaked into food listing")
		}
	}
}
