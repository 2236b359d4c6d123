package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog-cache/model"
	"github.com/goliatone/go-catalog-cache/notify"
	"github.com/goliatone/go-catalog-cache/repository"
)

var dbSeq int

func openTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", dbSeq)
	db, err := repository.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if _, err := db.NewCreateTable().Model((*model.Book)(nil)).Exec(ctx); err != nil {
		t.Fatalf("create books table: %v", err)
	}
	if _, err := db.NewCreateTable().Model((*model.User)(nil)).Exec(ctx); err != nil {
		t.Fatalf("create users table: %v", err)
	}
	return db
}

func newBookService(t *testing.T) (*BookService, *notify.Recorder) {
	t.Helper()

	rec := &notify.Recorder{}
	svc, err := NewBookService(BookServiceConfig{
		Repository: repository.New(openTestDB(t), "book", model.BookHandlers(), repository.Config{}),
		Publisher:  rec,
	})
	if err != nil {
		t.Fatalf("NewBookService() error = %v", err)
	}
	return svc, rec
}

func TestBookService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc, rec := newBookService(t)

	created, err := svc.Create(ctx, BookCreate{
		Title:         "Dune",
		Author:        "Herbert",
		PublishedDate: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, found, err := svc.Get(ctx, created.UUID)
	if err != nil || !found {
		t.Fatalf("Get() = %v, %v, %v", got, found, err)
	}
	if got.Title != "Dune" || got.Author != "Herbert" {
		t.Errorf("Get() = %+v", got)
	}

	msgs := rec.Messages()
	if len(msgs) != 1 || msgs[0].Message != `Book "Dune" was created` {
		t.Errorf("notifications = %+v", msgs)
	}
}

func TestBookService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBookService(t)

	tests := []struct {
		name string
		in   BookCreate
	}{
		{"empty title", BookCreate{Author: "Herbert"}},
		{"title too long", BookCreate{Title: string(make([]byte, 65))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			var invalid *repository.InvalidArgumentError
			if !errors.As(err, &invalid) {
				t.Fatalf("Create() error = %v, want *InvalidArgumentError", err)
			}
		})
	}
}

func TestBookService_DuplicateTitleRejected(t *testing.T) {
	ctx := context.Background()
	svc, rec := newBookService(t)

	if _, err := svc.Create(ctx, BookCreate{Title: "Dune"}); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	_, err := svc.Create(ctx, BookCreate{Title: "Dune", Author: "Someone Else"})
	var conflict *repository.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("duplicate Create() error = %v, want *ConflictError", err)
	}
	if conflict.Field != "title" {
		t.Errorf("conflict field = %q, want %q", conflict.Field, "title")
	}

	// Only the successful create notified.
	if msgs := rec.Messages(); len(msgs) != 1 {
		t.Errorf("notifications = %+v", msgs)
	}
}

func TestBookService_UpdateKeepsOwnTitle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBookService(t)

	created, err := svc.Create(ctx, BookCreate{Title: "Dune"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Re-sending the record's current title is not a conflict.
	title := "Dune"
	author := "Herbert"
	updated, err := svc.Update(ctx, created.UUID, BookUpdate{Title: &title, Author: &author})
	if err != nil {
		t.Fatalf("Update() with own title error = %v", err)
	}
	if updated.Author != "Herbert" {
		t.Errorf("Update() author = %q", updated.Author)
	}
}

func TestBookService_UpdateToTakenTitleRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBookService(t)

	if _, err := svc.Create(ctx, BookCreate{Title: "Dune"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	other, err := svc.Create(ctx, BookCreate{Title: "Hyperion"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	title := "Dune"
	_, err = svc.Update(ctx, other.UUID, BookUpdate{Title: &title})
	var conflict *repository.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Update() to taken title error = %v, want *ConflictError", err)
	}
}

func TestBookService_UpdateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBookService(t)

	created, err := svc.Create(ctx, BookCreate{Title: "Dune"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	empty := ""
	_, err = svc.Update(ctx, created.UUID, BookUpdate{Title: &empty})
	var invalid *repository.InvalidArgumentError
	if !errors.As(err, &invalid) {
		t.Fatalf("Update() with empty title error = %v, want *InvalidArgumentError", err)
	}
}

func TestBookService_RemoveAndCount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBookService(t)

	created, err := svc.Create(ctx, BookCreate{Title: "Dune"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if n, _ := svc.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}

	if _, err := svc.Remove(ctx, created.UUID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if n, _ := svc.Count(ctx); n != 0 {
		t.Errorf("Count() after Remove() = %d, want 0", n)
	}
}
