// Package model defines the persisted record types and the per-model
// handlers the generic repository uses to work with them.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Handlers bundles the per-model accessors the generic repository needs:
// allocating a record, reading and writing its identifier, stamping
// timestamps, and naming it for notifications.
type Handlers[T any] struct {
	NewRecord    func() T
	ID           func(T) uuid.UUID
	SetID        func(T, uuid.UUID)
	SetCreatedAt func(T, time.Time)
	SetUpdatedAt func(T, time.Time)

	// Label renders the record's human identity for notification text,
	// e.g. a book title or a user email.
	Label func(T) string
}

// Book is a catalog entry. Titles are unique across the table.
type Book struct {
	bun.BaseModel `bun:"table:books"`

	UUID          uuid.UUID `bun:"uuid,pk,type:uuid" json:"uuid"`
	Title         string    `bun:"title,notnull,unique" json:"title"`
	Author        string    `bun:"author" json:"author"`
	PublishedDate time.Time `bun:"published_date,nullzero" json:"published_date"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`
}

// BookHandlers returns the repository handlers for Book records.
func BookHandlers() Handlers[*Book] {
	return Handlers[*Book]{
		NewRecord:    func() *Book { return &Book{} },
		ID:           func(b *Book) uuid.UUID { return b.UUID },
		SetID:        func(b *Book, id uuid.UUID) { b.UUID = id },
		SetCreatedAt: func(b *Book, t time.Time) { b.CreatedAt = t },
		SetUpdatedAt: func(b *Book, t time.Time) { b.UpdatedAt = t },
		Label:        func(b *Book) string { return b.Title },
	}
}

// User is an account record. Email and username are unique across the table.
// Password holds the already-hashed credential; hashing itself happens at
// the transport layer and is not a concern of this module.
type User struct {
	bun.BaseModel `bun:"table:users"`

	UUID        uuid.UUID `bun:"uuid,pk,type:uuid" json:"uuid"`
	Email       string    `bun:"email,notnull,unique" json:"email"`
	Password    string    `bun:"password,notnull" json:"-"`
	Username    string    `bun:"username,unique" json:"username"`
	IsSuperuser bool      `bun:"is_superuser" json:"is_superuser"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at" json:"updated_at"`
}

// UserHandlers returns the repository handlers for User records.
func UserHandlers() Handlers[*User] {
	return Handlers[*User]{
		NewRecord:    func() *User { return &User{} },
		ID:           func(u *User) uuid.UUID { return u.UUID },
		SetID:        func(u *User, id uuid.UUID) { u.UUID = id },
		SetCreatedAt: func(u *User, t time.Time) { u.CreatedAt = t },
		SetUpdatedAt: func(u *User, t time.Time) { u.UpdatedAt = t },
		Label:        func(u *User) string { return u.Email },
	}
}
