package book

import (
	"errors"
	"time"

	"booklibrary/internal/platform/validate"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateTitle is returned when another book already uses the title.
	ErrDuplicateTitle = errors.New("book title already exists")
	// ErrInvalid is returned when a book violates a field constraint.
	ErrInvalid = errors.New("invalid book")
	// ErrInvalidCursor is returned for a list cursor that cannot be decoded.
	ErrInvalidCursor = errors.New("invalid cursor")
)

// Field limits. The books table enforces the same bounds.
const (
	MaxTitleLength  = 64
	MaxAuthorLength = 64
	MaxTypeLength   = 20
	MinYear         = 1
	MaxYear         = 9999
)

// Book represents a catalog entry.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title" validate:"required,max=64,no_control"`
	Author    string    `json:"author" validate:"required,max=64,no_control"`
	Year      int       `json:"year" validate:"gte=1,lte=9999"`
	Type      string    `json:"type" validate:"required,max=20,no_control"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput holds the fields needed to create a book.
type CreateInput struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
	Type   string `json:"type"`
}

func (in CreateInput) book() Book {
	return Book{
		Title:  in.Title,
		Author: in.Author,
		Year:   in.Year,
		Type:   in.Type,
	}
}

// UpdateInput holds a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Year   *int    `json:"year"`
	Type   *string `json:"type"`
}

func (in UpdateInput) apply(b *Book) {
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Author != nil {
		b.Author = *in.Author
	}
	if in.Year != nil {
		b.Year = *in.Year
	}
	if in.Type != nil {
		b.Type = *in.Type
	}
}

// ListQuery defines filters and pagination for listing books.
type ListQuery struct {
	Author string
	Type   string
	Cursor string
	Limit  int
}

// ListFilter is the decoded form of ListQuery handed to the repository.
type ListFilter struct {
	Author     string
	Type       string
	AfterTitle string
	AfterID    string
	Limit      int
}

// Page is one slice of a listing. NextCursor is empty on the last page.
type Page struct {
	Books      []Book `json:"books"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// ValidationError lists the fields that made a write invalid.
type ValidationError struct {
	Fields validate.Errors
}

func (e *ValidationError) Error() string {
	return ErrInvalid.Error() + ": " + e.Fields.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// Validate checks b against the catalog constraints.
func Validate(b Book) error {
	if errs := validate.Struct(b); errs != nil {
		return &ValidationError{Fields: errs}
	}
	return nil
}
