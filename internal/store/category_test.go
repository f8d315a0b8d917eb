// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"cityguide/internal/models"
)

func mustCreateCategory(t *testing.T, s *CategoryStore, name, slug string) *models.Category {
	t.Helper()
	c, err := s.Create(&models.Category{Name: name, Slug: slug})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

func TestCategoryStore_CreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	slug := testSlug("store-cat-create")
	t.Cleanup(func() { cleanBySlug(t, db, "categories", slug) })

	created := mustCreateCategory(t, s, "Store Category", slug)
	if created.ID == uuid.Nil {
		t.Fatal("no id assigned on create")
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found == nil || found.Name != "Store Category" {
		t.Errorf("found = %+v, want name Store Category", found)
	}
}

func TestCategoryStore_FindUnknown_ReturnsNil(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	found, err := s.FindByID(uuid.New())
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found != nil {
		t.Errorf("found = %+v, want nil", found)
	}
}

func TestCategoryStore_DuplicateSlug_FieldConflict(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	slug := testSlug("store-cat-dup")
	t.Cleanup(func() { cleanBySlug(t, db, "categories", slug) })

	mustCreateCategory(t, s, "First", slug)
	_, err := s.Create(&models.Category{Name: "Second", Slug: slug})

	var conflict *FieldConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want FieldConflictError", err)
	}
	if conflict.Field != "slug" {
		t.Errorf("conflict field = %q, want slug", conflict.Field)
	}
}

func TestCategoryStore_ListFeaturedFilter(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	featSlug := testSlug("store-cat-feat")
	plainSlug := testSlug("store-cat-plain")
	t.Cleanup(func() { cleanBySlug(t, db, "categories", featSlug, plainSlug) })

	if _, err := s.Create(&models.Category{Name: "Featured Cat", Slug: featSlug, Featured: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	mustCreateCategory(t, s, "Plain Cat", plainSlug)

	featured := true
	items, err := s.List(CategoryFilter{Featured: &featured})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, c := range items {
		if c.Slug == plainSlug {
			t.Error("non-featured category leaked into featured listing")
		}
	}
}

func TestCategoryStore_ListQueryCaseInsensitive(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	slug := testSlug("store-cat-query")
	t.Cleanup(func() { cleanBySlug(t, db, "categories", slug) })

	mustCreateCategory(t, s, "Cafenele Centrale", slug)

	items, err := s.List(CategoryFilter{Query: "cafenele cen"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, c := range items {
		if c.Slug == slug {
			found = true
		}
	}
	if !found {
		t.Error("name not matched by case-insensitive query")
	}
}

func TestCategoryStore_Reorder_BulkAssigns(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	slugs := []string{testSlug("store-cat-ord-a"), testSlug("store-cat-ord-b"), testSlug("store-cat-ord-c")}
	t.Cleanup(func() { cleanBySlug(t, db, "categories", slugs...) })

	var ids []uuid.UUID
	for i, sl := range slugs {
		c := mustCreateCategory(t, s, "Ordered "+string(rune('A'+i)), sl)
		ids = append(ids, c.ID)
	}

	// Reverse the order.
	reversed := []uuid.UUID{ids[2], ids[1], ids[0]}
	if err := s.Reorder(reversed); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	for pos, id := range reversed {
		var order int
		if err := db.QueryRow("SELECT display_order FROM categories WHERE id = $1", id).Scan(&order); err != nil {
			t.Fatalf("read order: %v", err)
		}
		if order != pos {
			t.Errorf("id %s: display_order = %d, want %d", id, order, pos)
		}
	}
}

func TestCategoryStore_DeleteInUse_Blocked(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	biz := NewBusinessStore(db)

	catSlug := testSlug("store-cat-used")
	bizSlug := testSlug("store-biz-user")
	t.Cleanup(func() {
		cleanBySlug(t, db, "businesses", bizSlug)
		cleanBySlug(t, db, "categories", catSlug)
	})

	c := mustCreateCategory(t, cats, "Used Category", catSlug)
	_, err := biz.Create(
		&models.Business{Name: "Using Business", Slug: bizSlug},
		[]models.RelationRef{{ID: c.ID}}, nil, nil,
	)
	if err != nil {
		t.Fatalf("create business: %v", err)
	}

	if err := cats.Delete(c.ID); !errors.Is(err, ErrInUse) {
		t.Fatalf("delete in-use: err = %v, want ErrInUse", err)
	}

	n, err := cats.UsageCount(c.ID)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if n != 1 {
		t.Errorf("usage = %d, want 1", n)
	}
}

func TestTypeStore_CategoryScope(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	types := NewTypeStore(db)

	catSlug := testSlug("store-type-cat")
	inSlug := testSlug("store-type-in")
	outSlug := testSlug("store-type-out")
	t.Cleanup(func() {
		cleanBySlug(t, db, "types", inSlug, outSlug)
		cleanBySlug(t, db, "categories", catSlug)
	})

	c := mustCreateCategory(t, cats, "Type Parent", catSlug)

	if _, err := types.Create(&models.Type{Name: "Scoped Type", Slug: inSlug, CategoryID: &c.ID}); err != nil {
		t.Fatalf("create scoped type: %v", err)
	}
	if _, err := types.Create(&models.Type{Name: "Global Type", Slug: outSlug}); err != nil {
		t.Fatalf("create global type: %v", err)
	}

	items, err := types.List(TypeFilter{CategoryID: &c.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	foundIn := false
	for _, ty := range items {
		if ty.Slug == outSlug {
			t.Error("unscoped type leaked into category-filtered listing")
		}
		if ty.Slug == inSlug {
			foundIn = true
		}
	}
	if !foundIn {
		t.Error("scoped type missing from category-filtered listing")
	}
}
