package products

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/geosynthix/catalog-backend/pkg/pagination"
)

func TestRepositoryProductFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	plant := mustCreateTestPlant(t, tx)
	nature := mustCreateTestNature(t, tx, plant.ID)

	product := buildTestProduct(nature.ID, plant.ID)
	created, err := repo.CreateProduct(ctx, product)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected product id to be generated")
	}

	gallery := testGalleryRows(created.ID,
		"https://storage.googleapis.com/bucket/products/images/a.webp",
		"https://storage.googleapis.com/bucket/products/images/b.webp",
	)
	if err := repo.ReplaceProductImages(ctx, created.ID, gallery); err != nil {
		t.Fatalf("replace images: %v", err)
	}

	fetched, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if len(fetched.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(fetched.Images))
	}
	if fetched.Images[0].Position != 0 || fetched.Images[1].Position != 1 {
		t.Fatal("images should come back ordered by position")
	}

	bySlug, err := repo.FindByIDOrSlug(ctx, created.Slug)
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if bySlug.ID != created.ID {
		t.Fatalf("slug lookup returned %s, want %s", bySlug.ID, created.ID)
	}

	created.Description = "Updated description"
	if _, err := repo.UpdateProduct(ctx, created); err != nil {
		t.Fatalf("update product: %v", err)
	}
	fetched, err = repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find after update: %v", err)
	}
	if fetched.Description != "Updated description" {
		t.Fatalf("update not persisted, got %q", fetched.Description)
	}
	if len(fetched.Images) != 2 {
		t.Fatal("updating the row must not touch the gallery")
	}

	active := true
	rows, total, err := repo.ListProducts(ctx, ListFilters{IsActive: &active, NatureID: &nature.ID}, pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if total == 0 || len(rows) == 0 {
		t.Fatal("expected the created product in the listing")
	}

	replacement := testGalleryRows(created.ID, "https://storage.googleapis.com/bucket/products/images/c.webp")
	if err := repo.ReplaceProductImages(ctx, created.ID, replacement); err != nil {
		t.Fatalf("replace images again: %v", err)
	}
	fetched, err = repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find after replace: %v", err)
	}
	if len(fetched.Images) != 1 || fetched.Images[0].URL != replacement[0].URL {
		t.Fatalf("gallery replace left %v", fetched.Images)
	}

	if err := repo.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if _, err := repo.FindByID(ctx, created.ID); err == nil {
		t.Fatal("expected record to be gone")
	}
}
