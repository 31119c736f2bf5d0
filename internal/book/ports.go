package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
//
// Every write runs in its own transaction: either the whole change is
// committed or nothing is persisted.
type Repository interface {
	// Create inserts b and fills in the generated ID and timestamps.
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id string) (Book, error)
	GetByTitle(ctx context.Context, title string) (Book, error)
	List(ctx context.Context, f ListFilter) ([]Book, error)
	// Update locks the row, passes it to mutate and writes the result back.
	// An error from mutate rolls the transaction back and is returned as-is.
	Update(ctx context.Context, id string, mutate func(*Book) error) (Book, error)
	Delete(ctx context.Context, id string) error
}
