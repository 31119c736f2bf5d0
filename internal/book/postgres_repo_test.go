package book_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"booklibrary/internal/book"
	"booklibrary/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBookTestDB(t *testing.T) (*book.Service, *book.PostgresRepo) {
	db := testutil.OpenTestDB(t)
	repo := book.NewPostgresRepo(db, 5*time.Second)
	return book.NewService(repo), repo
}

func countBooks(t *testing.T, svc *book.Service) int {
	t.Helper()
	page, err := svc.List(context.Background(), book.ListQuery{Limit: book.MaxListLimit})
	require.NoError(t, err)
	return len(page.Books)
}

func TestPostgresRepo_CRUD(t *testing.T) {
	svc, _ := setupBookTestDB(t)
	ctx := context.Background()

	t.Run("add book", func(t *testing.T) {
		b, err := svc.Create(ctx, book.CreateInput{Title: "Lalka", Author: "Boleslaw Prus", Year: 1890, Type: "proza"})
		require.NoError(t, err)
		assert.NotEmpty(t, b.ID)
		assert.False(t, b.CreatedAt.IsZero())
	})

	t.Run("add multiple books", func(t *testing.T) {
		b1, err := svc.Create(ctx, book.CreateInput{Title: "Pan Tadeusz", Author: "Adam Mickiewicz", Year: 1834, Type: "epopeja"})
		require.NoError(t, err)
		b2, err := svc.Create(ctx, book.CreateInput{Title: "Ogniem i Mieczem", Author: "Henryk Sienkiewicz", Year: 1884, Type: "proza"})
		require.NoError(t, err)
		assert.NotEqual(t, b1.ID, b2.ID)
	})

	t.Run("get by title", func(t *testing.T) {
		_, err := svc.Create(ctx, book.CreateInput{Title: "Dziady", Author: "Adam Mickiewicz", Year: 1823, Type: "dramat"})
		require.NoError(t, err)

		b, err := svc.GetByTitle(ctx, "Dziady")
		require.NoError(t, err)
		assert.Equal(t, 1823, b.Year)

		_, err = svc.GetByTitle(ctx, "dziady")
		assert.ErrorIs(t, err, book.ErrNotFound)
	})

	t.Run("update book", func(t *testing.T) {
		created, err := svc.Create(ctx, book.CreateInput{Title: "Hobbit", Author: "J.R.R. Tolkien", Year: 1937, Type: "proza"})
		require.NoError(t, err)

		title := "Hobbit, czyli tam i z powrotem"
		updated, err := svc.Update(ctx, created.ID, book.UpdateInput{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, title, updated.Title)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

		reloaded, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, title, reloaded.Title)
		assert.Equal(t, "J.R.R. Tolkien", reloaded.Author)
	})

	t.Run("delete book", func(t *testing.T) {
		created, err := svc.Create(ctx, book.CreateInput{Title: "Chlopi", Author: "Wladyslaw Reymont", Year: 1904, Type: "proza"})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, created.ID))

		_, err = svc.Get(ctx, created.ID)
		assert.ErrorIs(t, err, book.ErrNotFound)
	})

	t.Run("get all books", func(t *testing.T) {
		assert.Equal(t, 5, countBooks(t, svc))
	})
}

func TestPostgresRepo_Rejections(t *testing.T) {
	svc, repo := setupBookTestDB(t)
	ctx := context.Background()

	t.Run("duplicate title", func(t *testing.T) {
		_, err := svc.Create(ctx, book.CreateInput{Title: "Tytul", Author: "Autor", Year: 2000, Type: "proza"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, book.CreateInput{Title: "Tytul", Author: "Autor", Year: 2000, Type: "proza"})
		assert.ErrorIs(t, err, book.ErrDuplicateTitle)
	})

	t.Run("update to an existing title", func(t *testing.T) {
		other, err := svc.Create(ctx, book.CreateInput{Title: "Inny", Author: "Autor", Year: 2000, Type: "proza"})
		require.NoError(t, err)

		title := "Tytul"
		_, err = svc.Update(ctx, other.ID, book.UpdateInput{Title: &title})
		assert.ErrorIs(t, err, book.ErrDuplicateTitle)

		reloaded, err := svc.Get(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, "Inny", reloaded.Title)
	})

	t.Run("delete of deleted book fails", func(t *testing.T) {
		created, err := svc.Create(ctx, book.CreateInput{Title: "Do usuniecia", Author: "Autor", Year: 2000, Type: "proza"})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, created.ID))
		assert.ErrorIs(t, svc.Delete(ctx, created.ID), book.ErrNotFound)
	})

	t.Run("update of missing book fails", func(t *testing.T) {
		year := 2001
		_, err := svc.Update(ctx, "00000000-0000-0000-0000-000000000000", book.UpdateInput{Year: &year})
		assert.ErrorIs(t, err, book.ErrNotFound)
	})

	invalid := []struct {
		name string
		in   book.CreateInput
	}{
		{"empty title", book.CreateInput{Title: "", Author: "Autor", Year: 2000, Type: "proza"}},
		{"empty author", book.CreateInput{Title: "Pusty autor", Author: "", Year: 2000, Type: "proza"}},
		{"missing type", book.CreateInput{Title: "Brak typu", Author: "Autor", Year: 2000}},
		{"long title", book.CreateInput{Title: strings.Repeat("A", 65), Author: "Autor", Year: 1950, Type: "literatura piekna"}},
		{"long author", book.CreateInput{Title: "Dlugi autor", Author: strings.Repeat("B", 65), Year: 1950, Type: "literatura piekna"}},
		{"big year", book.CreateInput{Title: "Duzy rok", Author: "Autor", Year: 1000000, Type: "literatura piekna"}},
		{"long type", book.CreateInput{Title: "Dlugi typ", Author: "Autor", Year: 2000, Type: strings.Repeat("D", 21)}},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			before := countBooks(t, svc)

			_, err := svc.Create(ctx, tc.in)

			assert.ErrorIs(t, err, book.ErrInvalid)
			assert.Equal(t, before, countBooks(t, svc), "no row may be written")
		})
	}

	t.Run("table constraints reject what slips past the service", func(t *testing.T) {
		before := countBooks(t, svc)

		err := repo.Create(ctx, &book.Book{Title: strings.Repeat("A", 65), Author: "Autor", Year: 2000, Type: "proza"})
		assert.ErrorIs(t, err, book.ErrInvalid)

		err = repo.Create(ctx, &book.Book{Title: "Rok zero", Author: "Autor", Year: 0, Type: "proza"})
		assert.ErrorIs(t, err, book.ErrInvalid)

		err = repo.Create(ctx, &book.Book{Title: "Bez typu", Author: "Autor", Year: 2000, Type: ""})
		assert.ErrorIs(t, err, book.ErrInvalid)

		assert.Equal(t, before, countBooks(t, svc))
	})

	t.Run("mutate error rolls back the update", func(t *testing.T) {
		created, err := svc.Create(ctx, book.CreateInput{Title: "Niezmienny", Author: "Autor", Year: 2000, Type: "proza"})
		require.NoError(t, err)

		boom := errors.New("boom")
		_, err = repo.Update(ctx, created.ID, func(b *book.Book) error {
			b.Title = "Zmieniony"
			return boom
		})
		assert.ErrorIs(t, err, boom)

		reloaded, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Niezmienny", reloaded.Title)
	})
}

func TestPostgresRepo_StoresValuesVerbatim(t *testing.T) {
	svc, _ := setupBookTestDB(t)
	ctx := context.Background()

	t.Run("sql injection on create", func(t *testing.T) {
		author := `Autor'); DROP TABLE books; --`
		b, err := svc.Create(ctx, book.CreateInput{Title: "Tytul SQL", Author: author, Year: 1900, Type: "dramat"})
		require.NoError(t, err)
		assert.NotEmpty(t, b.ID)

		stored, err := svc.Get(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, author, stored.Author)
	})

	t.Run("sql injection on update", func(t *testing.T) {
		b, err := svc.Create(ctx, book.CreateInput{Title: "Tytul SQL 2", Author: "Autor", Year: 1900, Type: "dramat"})
		require.NoError(t, err)

		title := `'); DROP TABLE books; --`
		_, err = svc.Update(ctx, b.ID, book.UpdateInput{Title: &title})
		require.NoError(t, err)

		stored, err := svc.GetByTitle(ctx, title)
		require.NoError(t, err)
		assert.Equal(t, b.ID, stored.ID)
	})

	t.Run("script on create", func(t *testing.T) {
		author := `Autor<script>alert("XSS");</script>`
		b, err := svc.Create(ctx, book.CreateInput{Title: "Tytul JS", Author: author, Year: 1900, Type: "dramat"})
		require.NoError(t, err)

		stored, err := svc.Get(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, author, stored.Author)
	})

	t.Run("script on update", func(t *testing.T) {
		b, err := svc.Create(ctx, book.CreateInput{Title: "Tytul JS 2", Author: "Autor", Year: 1900, Type: "dramat"})
		require.NoError(t, err)

		title := `<script>alert(document.cookie);</script>`
		updated, err := svc.Update(ctx, b.ID, book.UpdateInput{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, title, updated.Title)
	})

	t.Run("multibyte at the limit", func(t *testing.T) {
		title := strings.Repeat("ż", book.MaxTitleLength)
		b, err := svc.Create(ctx, book.CreateInput{Title: title, Author: "Autor", Year: 1900, Type: "proza"})
		require.NoError(t, err)

		stored, err := svc.Get(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, title, stored.Title)
	})

	t.Run("table survives", func(t *testing.T) {
		assert.Equal(t, 5, countBooks(t, svc))
	})
}

func TestPostgresRepo_ListPagination(t *testing.T) {
	svc, _ := setupBookTestDB(t)
	ctx := context.Background()

	titles := []string{"E", "A", "D", "B", "C"}
	for _, title := range titles {
		typ := "proza"
		if title == "B" || title == "D" {
			typ = "dramat"
		}
		_, err := svc.Create(ctx, book.CreateInput{Title: title, Author: "Autor", Year: 2000, Type: typ})
		require.NoError(t, err)
	}

	var got []string
	cursor := ""
	for {
		page, err := svc.List(ctx, book.ListQuery{Limit: 2, Cursor: cursor})
		require.NoError(t, err)
		for _, b := range page.Books {
			got = append(got, b.Title)
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, got)

	page, err := svc.List(ctx, book.ListQuery{Type: "dramat"})
	require.NoError(t, err)
	require.Len(t, page.Books, 2)
	assert.Equal(t, "B", page.Books[0].Title)
	assert.Equal(t, "D", page.Books[1].Title)
}
