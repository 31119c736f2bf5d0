package book

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates in and stores it as a new book.
func (s *Service) Create(ctx context.Context, in CreateInput) (Book, error) {
	b := in.book()
	if err := Validate(b); err != nil {
		return Book{}, err
	}
	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Get returns a book by its ID. Malformed IDs are reported as ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	id, ok := canonicalID(id)
	if !ok {
		return Book{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// GetByTitle returns the book with exactly the given title.
func (s *Service) GetByTitle(ctx context.Context, title string) (Book, error) {
	if title == "" {
		return Book{}, ErrNotFound
	}
	return s.repo.GetByTitle(ctx, title)
}

// List returns one page of books ordered by title.
func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	after, err := DecodeCursor(q.Cursor)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if after.AfterID != "" {
		id, ok := canonicalID(after.AfterID)
		if !ok {
			return Page{}, ErrInvalidCursor
		}
		after.AfterID = id
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	// Fetch one extra row to learn whether another page exists.
	books, err := s.repo.List(ctx, ListFilter{
		Author:     q.Author,
		Type:       q.Type,
		AfterTitle: after.AfterTitle,
		AfterID:    after.AfterID,
		Limit:      limit + 1,
	})
	if err != nil {
		return Page{}, err
	}

	page := Page{Books: books}
	if page.Books == nil {
		page.Books = []Book{}
	}
	if len(books) > limit {
		page.Books = books[:limit]
		last := page.Books[limit-1]
		page.NextCursor = EncodeCursor(CursorData{AfterID: last.ID, AfterTitle: last.Title})
	}
	return page, nil
}

// Update applies in to the stored book. The merged record is validated
// before it is written; an invalid result leaves the stored row untouched.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Book, error) {
	id, ok := canonicalID(id)
	if !ok {
		return Book{}, ErrNotFound
	}
	return s.repo.Update(ctx, id, func(b *Book) error {
		in.apply(b)
		return Validate(*b)
	})
}

// Delete removes a book. Deleting a missing book returns ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// canonicalID returns id in the lowercase hyphenated form stored in the table.
func canonicalID(id string) (string, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return u.String(), true
}
