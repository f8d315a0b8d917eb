// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"

	"cityguide/internal/models"
)

func TestBusinessStore_CreateWithRelations(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	biz := NewBusinessStore(db)

	catSlug := testSlug("store-biz-cat")
	bizSlug := testSlug("store-biz-create")
	t.Cleanup(func() {
		cleanBySlug(t, db, "businesses", bizSlug)
		cleanBySlug(t, db, "categories", catSlug)
	})

	c := mustCreateCategory(t, cats, "Biz Category", catSlug)

	created, err := biz.Create(
		&models.Business{Name: "Created Business", Slug: bizSlug},
		[]models.RelationRef{{ID: c.ID, IsHighlight: true, IsPremium: true}},
		nil, nil,
	)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := biz.FindByID(created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found.Categories) != 1 {
		t.Fatalf("categories = %d, want 1", len(found.Categories))
	}
	rc := found.Categories[0]
	if rc.ID != c.ID || !rc.IsHighlight || !rc.IsPremium {
		t.Errorf("relation = %+v, want flagged category %s", rc, c.ID)
	}
}

func TestBusinessStore_CreateRollsBackOnBadRelation(t *testing.T) {
	db := testDB(t)
	biz := NewBusinessStore(db)

	bizSlug := testSlug("store-biz-rollback")
	t.Cleanup(func() { cleanBySlug(t, db, "businesses", bizSlug) })

	// Point the junction at a category that does not exist. The whole
	// insert must roll back, leaving no orphaned base row.
	_, err := biz.Create(
		&models.Business{Name: "Rollback Business", Slug: bizSlug},
		[]models.RelationRef{{ID: uuid.New()}},
		nil, nil,
	)
	if err == nil {
		t.Fatal("expected an error for an unknown relation id")
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM businesses WHERE slug = $1", bizSlug).Scan(&count)
	if count != 0 {
		t.Error("base row survived a failed relation insert")
	}
}

func TestBusinessStore_UpdateRelationSemantics(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	biz := NewBusinessStore(db)

	catSlug := testSlug("store-biz-up-cat")
	bizSlug := testSlug("store-biz-up")
	t.Cleanup(func() {
		cleanBySlug(t, db, "businesses", bizSlug)
		cleanBySlug(t, db, "categories", catSlug)
	})

	c := mustCreateCategory(t, cats, "Update Category", catSlug)
	created, err := biz.Create(
		&models.Business{Name: "Update Business", Slug: bizSlug},
		[]models.RelationRef{{ID: c.ID}},
		nil, nil,
	)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Nil relation slices leave the junctions untouched.
	created.Name = "Renamed Business"
	if err := biz.Update(created, nil, nil, nil); err != nil {
		t.Fatalf("update: %v", err)
	}
	found, _ := biz.FindByID(created.ID)
	if len(found.Categories) != 1 {
		t.Fatalf("categories = %d after nil update, want 1", len(found.Categories))
	}
	if found.Name != "Renamed Business" {
		t.Errorf("name = %q, want renamed", found.Name)
	}

	// An empty slice clears them.
	empty := []models.RelationRef{}
	if err := biz.Update(created, &empty, nil, nil); err != nil {
		t.Fatalf("clear update: %v", err)
	}
	found, _ = biz.FindByID(created.ID)
	if len(found.Categories) != 0 {
		t.Errorf("categories = %d after clear, want 0", len(found.Categories))
	}
}

func TestBusinessStore_BrandDeleteNullsReference(t *testing.T) {
	db := testDB(t)
	brands := NewBrandStore(db)
	biz := NewBusinessStore(db)

	brandSlug := testSlug("store-brand-del")
	bizSlug := testSlug("store-biz-brandless")
	t.Cleanup(func() {
		cleanBySlug(t, db, "businesses", bizSlug)
		cleanBySlug(t, db, "brands", brandSlug)
	})

	brand, err := brands.Create(&models.Brand{Name: "Doomed Brand", Slug: brandSlug})
	if err != nil {
		t.Fatalf("create brand: %v", err)
	}
	created, err := biz.Create(
		&models.Business{Name: "Orphaned Business", Slug: bizSlug, BrandID: &brand.ID},
		nil, nil, nil,
	)
	if err != nil {
		t.Fatalf("create business: %v", err)
	}

	if err := brands.Delete(brand.ID); err != nil {
		t.Fatalf("delete brand: %v", err)
	}

	found, err := biz.FindByID(created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found == nil {
		t.Fatal("business vanished with its brand")
	}
	if found.BrandID != nil {
		t.Errorf("brand_id = %v after brand delete, want nil", found.BrandID)
	}
}

func TestBrandStore_TreeNestsChildren(t *testing.T) {
	db := testDB(t)
	brands := NewBrandStore(db)

	parentSlug := testSlug("store-brand-parent")
	childSlug := testSlug("store-brand-child")
	t.Cleanup(func() { cleanBySlug(t, db, "brands", childSlug, parentSlug) })

	parent, err := brands.Create(&models.Brand{Name: "Parent Brand", Slug: parentSlug})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	if _, err := brands.Create(&models.Brand{Name: "Child Brand", Slug: childSlug, ParentID: &parent.ID}); err != nil {
		t.Fatalf("create child: %v", err)
	}

	tree, err := brands.Tree()
	if err != nil {
		t.Fatalf("tree: %v", err)
	}

	var node *models.Brand
	for i := range tree {
		if tree[i].ID == parent.ID {
			node = &tree[i]
		}
		if tree[i].Slug == childSlug {
			t.Error("child brand appeared at tree root")
		}
	}
	if node == nil {
		t.Fatal("parent brand missing from tree roots")
	}
	foundChild := false
	for _, ch := range node.Children {
		if ch.Slug == childSlug {
			foundChild = true
		}
	}
	if !foundChild {
		t.Error("child brand missing from parent's children")
	}
}
