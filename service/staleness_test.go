package service

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-catalog-cache/model"
	"github.com/goliatone/go-catalog-cache/repository"
)

// Exercises the full read-through lifecycle against real storage: a cached
// record keeps serving after its row is deleted out-of-band, then disappears
// once the entry's TTL elapses.
func TestBookService_CachedReadOutlivesRowUntilTTL(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	svc, err := NewBookService(BookServiceConfig{
		Repository: repository.New(db, "book", model.BookHandlers(), repository.Config{}),
		TTL:        50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewBookService() error = %v", err)
	}

	created, err := svc.Create(ctx, BookCreate{Title: "Dune", Author: "Herbert"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Prime the per-id entry.
	if _, found, err := svc.Get(ctx, created.UUID); err != nil || !found {
		t.Fatalf("priming Get() = %v, %v", found, err)
	}

	// Delete the row out-of-band, bypassing the service.
	if _, err := db.NewDelete().Model((*model.Book)(nil)).
		Where("uuid = ?", created.UUID).Exec(ctx); err != nil {
		t.Fatalf("out-of-band delete: %v", err)
	}

	// The cached entry still serves the record.
	got, found, err := svc.Get(ctx, created.UUID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || got.Title != "Dune" {
		t.Fatalf("Get() after out-of-band delete = %+v, %v, want cached record", got, found)
	}

	time.Sleep(100 * time.Millisecond)

	// TTL elapsed: the miss goes to storage and finds nothing.
	if _, found, err := svc.Get(ctx, created.UUID); err != nil || found {
		t.Errorf("Get() after TTL = %v, %v, want absent", found, err)
	}
}
