package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"booklibrary/internal/book"
	"booklibrary/internal/config"
	"booklibrary/internal/platform/postgres"
)

var classics = []book.CreateInput{
	{Title: "Lalka", Author: "Boleslaw Prus", Year: 1890, Type: "powiesc"},
	{Title: "Pan Tadeusz", Author: "Adam Mickiewicz", Year: 1834, Type: "epopeja"},
	{Title: "Dziady", Author: "Adam Mickiewicz", Year: 1823, Type: "dramat"},
	{Title: "Ogniem i Mieczem", Author: "Henryk Sienkiewicz", Year: 1884, Type: "powiesc"},
	{Title: "W pustyni i w puszczy", Author: "Henryk Sienkiewicz", Year: 1911, Type: "powiesc"},
	{Title: "Chlopi", Author: "Wladyslaw Reymont", Year: 1904, Type: "powiesc"},
	{Title: "Wesele", Author: "Stanislaw Wyspianski", Year: 1901, Type: "dramat"},
	{Title: "Hobbit", Author: "J.R.R. Tolkien", Year: 1937, Type: "fantasy"},
	{Title: "Dzieci z Bullerbyn", Author: "Astrid Lindgren", Year: 1947, Type: "literatura dziecieca"},
	{Title: "Solaris", Author: "Stanislaw Lem", Year: 1961, Type: "science fiction"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx := context.Background()
	pool, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	service := book.NewService(book.NewPostgresRepo(pool, cfg.DBTimeout))
	created, skipped, err := seed(ctx, service, classics)
	if err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seed complete", "created", created, "skipped", skipped)
}

// seed creates each book, skipping titles that are already stored.
func seed(ctx context.Context, service *book.Service, books []book.CreateInput) (created, skipped int, err error) {
	for _, in := range books {
		if _, err := service.Create(ctx, in); err != nil {
			if errors.Is(err, book.ErrDuplicateTitle) {
				skipped++
				continue
			}
			return created, skipped, err
		}
		created++
	}
	return created, skipped, nil
}
