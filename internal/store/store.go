package store

import (
	"context"
	"errors"

	"kontak/internal/models"
)

// SortOrder selects the direction of name-ordered listings.
type SortOrder string

const (
	// SortAsc orders contacts by name A to Z.
	SortAsc SortOrder = "asc"
	// SortDesc orders contacts by name Z to A.
	SortDesc SortOrder = "desc"
)

var (
	// ErrNotFound is returned when no contact matches the given identifier.
	ErrNotFound = errors.New("contact not found")
	// ErrDuplicateStudentID is returned when a write would leave two contacts
	// with the same student id.
	ErrDuplicateStudentID = errors.New("student id already in use")
	// ErrEmptyQuery is returned by Search for an empty or whitespace-only name.
	ErrEmptyQuery = errors.New("search name required")
)

// ContactStore persists and queries contact documents. Listings are ordered by
// name with case-insensitive comparison so "bob" interleaves with "Bob".
type ContactStore interface {
	FindAll(ctx context.Context, order SortOrder) ([]models.Contact, error)
	FindOne(ctx context.Context, id string) (models.Contact, error)
	FindByStudentID(ctx context.Context, npm string) (models.Contact, error)
	Search(ctx context.Context, name string) ([]models.Contact, error)
	Insert(ctx context.Context, contact models.Contact) (models.Contact, error)
	Update(ctx context.Context, id string, contact models.Contact) error
	Delete(ctx context.Context, id string) error
}
