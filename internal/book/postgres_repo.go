package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the dialect
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	tableBooks = "books"

	colID        = "id"
	colTitle     = "title"
	colAuthor    = "author"
	colYear      = "year"
	colType      = "type"
	colCreatedAt = "created_at"
	colUpdatedAt = "updated_at"

	constraintUniqueTitle = "books_title_key"
)

// SQLSTATE codes mapped to domain errors.
const (
	pgUniqueViolation  = "23505"
	pgCheckViolation   = "23514"
	pgNotNullViolation = "23502"
	pgStringTooLong    = "22001"
)

var bookColumns = []any{colID, colTitle, colAuthor, colYear, colType, colCreatedAt, colUpdatedAt}

// PostgresRepo stores books in PostgreSQL. Statements are built by goqu in
// prepared mode, so every value reaches the server as a bind parameter.
type PostgresRepo struct {
	db      *pgxpool.Pool
	sql     goqu.DialectWrapper
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, sql: goqu.Dialect("postgres"), timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	query, args, err := r.sql.Insert(tableBooks).Prepared(true).
		Rows(goqu.Record{
			colTitle:  b.Title,
			colAuthor: b.Author,
			colYear:   b.Year,
			colType:   b.Type,
		}).
		Returning(colID, colCreatedAt, colUpdatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert book: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = pgx.BeginFunc(timeoutCtx, r.db, func(tx pgx.Tx) error {
		return tx.QueryRow(timeoutCtx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	})
	if err != nil {
		return fmt.Errorf("insert book: %w", translateError(err))
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	return r.getOne(ctx, goqu.Ex{colID: id})
}

func (r *PostgresRepo) GetByTitle(ctx context.Context, title string) (Book, error) {
	return r.getOne(ctx, goqu.Ex{colTitle: title})
}

func (r *PostgresRepo) getOne(ctx context.Context, where goqu.Ex) (Book, error) {
	query, args, err := r.sql.From(tableBooks).Prepared(true).
		Select(bookColumns...).
		Where(where).
		ToSQL()
	if err != nil {
		return Book{}, fmt.Errorf("build select book: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		return Book{}, translateError(err)
	}
	return b, nil
}

func (r *PostgresRepo) List(ctx context.Context, f ListFilter) ([]Book, error) {
	ds := r.sql.From(tableBooks).Prepared(true).Select(bookColumns...)

	if f.Author != "" {
		ds = ds.Where(goqu.C(colAuthor).Eq(f.Author))
	}
	if f.Type != "" {
		ds = ds.Where(goqu.C(colType).Eq(f.Type))
	}
	if f.AfterID != "" {
		ds = ds.Where(goqu.Or(
			goqu.C(colTitle).Gt(f.AfterTitle),
			goqu.And(goqu.C(colTitle).Eq(f.AfterTitle), goqu.C(colID).Gt(f.AfterID)),
		))
	}
	ds = ds.Order(goqu.C(colTitle).Asc(), goqu.C(colID).Asc())
	if f.Limit > 0 {
		ds = ds.Limit(uint(f.Limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list books: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, id string, mutate func(*Book) error) (Book, error) {
	selectSQL, selectArgs, err := r.sql.From(tableBooks).Prepared(true).
		Select(bookColumns...).
		Where(goqu.Ex{colID: id}).
		ForUpdate(exp.Wait).
		ToSQL()
	if err != nil {
		return Book{}, fmt.Errorf("build select book for update: %w", err)
	}

	var updated Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = pgx.BeginFunc(timeoutCtx, r.db, func(tx pgx.Tx) error {
		current, err := scanBook(tx.QueryRow(timeoutCtx, selectSQL, selectArgs...))
		if err != nil {
			return translateError(err)
		}
		if err := mutate(&current); err != nil {
			return err
		}

		updateSQL, updateArgs, err := r.sql.Update(tableBooks).Prepared(true).
			Set(goqu.Record{
				colTitle:     current.Title,
				colAuthor:    current.Author,
				colYear:      current.Year,
				colType:      current.Type,
				colUpdatedAt: goqu.L("NOW()"),
			}).
			Where(goqu.Ex{colID: id}).
			Returning(colUpdatedAt).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update book: %w", err)
		}
		if err := tx.QueryRow(timeoutCtx, updateSQL, updateArgs...).Scan(&current.UpdatedAt); err != nil {
			return fmt.Errorf("update book: %w", translateError(err))
		}
		updated = current
		return nil
	})
	if err != nil {
		return Book{}, err
	}
	return updated, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	query, args, err := r.sql.Delete(tableBooks).Prepared(true).
		Where(goqu.Ex{colID: id}).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete book: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return pgx.BeginFunc(timeoutCtx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(timeoutCtx, query, args...)
		if err != nil {
			return fmt.Errorf("delete book: %w", translateError(err))
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.Type, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// translateError maps driver errors onto the package's sentinel errors.
func translateError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		if pgErr.ConstraintName == constraintUniqueTitle {
			return ErrDuplicateTitle
		}
	case pgCheckViolation, pgNotNullViolation, pgStringTooLong:
		return fmt.Errorf("%w: %s", ErrInvalid, pgErr.Message)
	}
	return err
}
