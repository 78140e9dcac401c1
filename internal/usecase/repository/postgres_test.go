package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/project/quickstart/internal/entity"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// assign copies values into Scan destinations. A nil value leaves a pointer
// destination nil, the way pgx scans NULL.
func assign(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(values))
	}

	for i, v := range values {
		target := reflect.ValueOf(dest[i]).Elem()

		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}

		value := reflect.ValueOf(v)
		if target.Kind() == reflect.Pointer && value.Kind() != reflect.Pointer {
			ptr := reflect.New(target.Type().Elem())
			ptr.Elem().Set(value)
			value = ptr
		}

		target.Set(value)
	}

	return nil
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.values)
}

type fakeRows struct {
	rows   [][]any
	cursor int
	err    error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.cursor >= len(r.rows) {
		return false
	}
	r.cursor++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(dest, r.rows[r.cursor-1])
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.cursor-1], nil
}

// fakeQuerier answers statements in the order they are expected.
type fakeQuerier struct {
	t     *testing.T
	steps []any
}

func (q *fakeQuerier) next() any {
	q.t.Helper()

	require.NotEmpty(q.t, q.steps, "unexpected statement")
	step := q.steps[0]
	q.steps = q.steps[1:]
	return step
}

func (q *fakeQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	switch step := q.next().(type) {
	case pgconn.CommandTag:
		return step, nil
	case error:
		return pgconn.CommandTag{}, step
	default:
		q.t.Fatalf("Exec got step %T", step)
		return pgconn.CommandTag{}, nil
	}
}

func (q *fakeQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	switch step := q.next().(type) {
	case *fakeRows:
		return step, nil
	case error:
		return nil, step
	default:
		q.t.Fatalf("Query got step %T", step)
		return nil, nil
	}
}

func (q *fakeQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	step, ok := q.next().(fakeRow)
	require.True(q.t, ok, "QueryRow expects a row step")
	return step
}

func newTestRepository(t *testing.T, steps ...any) *postgresImpl {
	t.Helper()

	q := &fakeQuerier{t: t, steps: steps}
	t.Cleanup(func() {
		require.Empty(t, q.steps, "statements left unused")
	})

	return NewPostgresRepository(zap.NewNop(), q)
}

var foreignKeyViolation = &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}

func TestCreateAuthorAssignsID(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, fakeRow{values: []any{int64(7)}})

	author, err := repo.CreateAuthor(context.Background(), entity.Author{Name: "Kamran", Age: 25})
	require.NoError(t, err)
	require.Equal(t, entity.Author{ID: 7, Name: "Kamran", Age: 25}, author)
}

func TestRepositoryNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	testCases := []struct {
		name     string
		steps    []any
		call     func(r *postgresImpl) error
		expected error
	}{
		{
			name:  "Update missing author",
			steps: []any{pgconn.NewCommandTag("UPDATE 0")},
			call: func(r *postgresImpl) error {
				_, err := r.UpdateAuthor(ctx, entity.Author{ID: 9, Name: "x"})
				return err
			},
			expected: entity.ErrAuthorNotFound,
		},
		{
			name:  "Update missing book",
			steps: []any{pgconn.NewCommandTag("UPDATE 0")},
			call: func(r *postgresImpl) error {
				return r.UpdateBook(ctx, entity.Book{ISBN: "1", Title: "x"})
			},
			expected: entity.ErrBookNotFound,
		},
		{
			name:  "Update book with unknown author",
			steps: []any{foreignKeyViolation},
			call: func(r *postgresImpl) error {
				return r.UpdateBook(ctx, entity.Book{ISBN: "1", Author: &entity.Author{ID: 99}})
			},
			expected: entity.ErrAuthorNotFound,
		},
		{
			name:  "Upsert book with unknown author",
			steps: []any{fakeRow{err: foreignKeyViolation}},
			call: func(r *postgresImpl) error {
				_, err := r.UpsertBook(ctx, entity.Book{ISBN: "1", Author: &entity.Author{ID: 99}})
				return err
			},
			expected: entity.ErrAuthorNotFound,
		},
		{
			name:  "Get missing author",
			steps: []any{fakeRow{err: pgx.ErrNoRows}},
			call: func(r *postgresImpl) error {
				_, err := r.GetAuthor(ctx, 9)
				return err
			},
			expected: entity.ErrAuthorNotFound,
		},
		{
			name:  "Lock missing book",
			steps: []any{fakeRow{err: pgx.ErrNoRows}},
			call: func(r *postgresImpl) error {
				_, err := r.GetBookForUpdate(ctx, "1")
				return err
			},
			expected: entity.ErrBookNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := newTestRepository(t, tc.steps...)
			require.ErrorIs(t, tc.call(repo), tc.expected)
		})
	}
}

func TestUpdateAuthorAffectsRow(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, pgconn.NewCommandTag("UPDATE 1"))

	author, err := repo.UpdateAuthor(context.Background(), entity.Author{ID: 1, Name: "MKM", Age: 25})
	require.NoError(t, err)
	require.Equal(t, entity.Author{ID: 1, Name: "MKM", Age: 25}, author)
}

func TestUnexpectedErrorsPassThrough(t *testing.T) {
	t.Parallel()

	broken := errors.New("connection reset")
	repo := newTestRepository(t, fakeRow{err: broken})

	_, err := repo.GetBook(context.Background(), "1")
	require.ErrorIs(t, err, broken)
}

func TestGetBookAuthorColumns(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		values   []any
		expected entity.Book
	}{
		{
			name:     "With author",
			values:   []any{"1234567890", "The Hobbit", int64(1), "Kamran", 25},
			expected: entity.Book{ISBN: "1234567890", Title: "The Hobbit", Author: &entity.Author{ID: 1, Name: "Kamran", Age: 25}},
		},
		{
			name:     "Without author",
			values:   []any{"9876543210", "Orphan", nil, nil, nil},
			expected: entity.Book{ISBN: "9876543210", Title: "Orphan"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := newTestRepository(t, fakeRow{values: tc.values})

			book, err := repo.GetBook(context.Background(), tc.expected.ISBN)
			require.NoError(t, err)
			require.Equal(t, tc.expected, book)
		})
	}
}

func TestUpsertBookCreatedFlag(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepository(t, fakeRow{values: []any{true}}, fakeRow{values: []any{false}})

	created, err := repo.UpsertBook(ctx, entity.Book{ISBN: "1", Title: "a"})
	require.NoError(t, err)
	require.True(t, created)

	created, err = repo.UpsertBook(ctx, entity.Book{ISBN: "1", Title: "b"})
	require.NoError(t, err)
	require.False(t, created)
}

func TestListBooks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("Page within range", func(t *testing.T) {
		t.Parallel()

		repo := newTestRepository(t,
			fakeRow{values: []any{int64(3)}},
			&fakeRows{rows: [][]any{
				{"1", "A", int64(1), "Kamran", 25},
				{"2", "B", nil, nil, nil},
			}},
		)

		page, err := repo.ListBooks(ctx, entity.PageRequest{Page: 0, Size: 2})
		require.NoError(t, err)
		require.Equal(t, int64(3), page.TotalElements)
		require.Equal(t, 2, page.TotalPages())
		require.Equal(t, []entity.Book{
			{ISBN: "1", Title: "A", Author: &entity.Author{ID: 1, Name: "Kamran", Age: 25}},
			{ISBN: "2", Title: "B"},
		}, page.Content)
	})

	t.Run("Page past the end skips the select", func(t *testing.T) {
		t.Parallel()

		repo := newTestRepository(t, fakeRow{values: []any{int64(5)}})

		page, err := repo.ListBooks(ctx, entity.PageRequest{Page: 3, Size: 2})
		require.NoError(t, err)
		require.NotNil(t, page.Content)
		require.Empty(t, page.Content)
		require.Equal(t, 3, page.Page)
		require.Equal(t, int64(5), page.TotalElements)
	})

	t.Run("Huge page does not wrap around", func(t *testing.T) {
		t.Parallel()

		repo := newTestRepository(t, fakeRow{values: []any{int64(5)}})

		page, err := repo.ListBooks(ctx, entity.PageRequest{Page: 922337203685477580, Size: 20})
		require.NoError(t, err)
		require.Empty(t, page.Content)
	})

	t.Run("Row error", func(t *testing.T) {
		t.Parallel()

		broken := errors.New("connection reset")
		repo := newTestRepository(t,
			fakeRow{values: []any{int64(1)}},
			&fakeRows{err: broken},
		)

		_, err := repo.ListBooks(ctx, entity.PageRequest{Page: 0, Size: 2})
		require.ErrorIs(t, err, broken)
	})
}

func TestListAuthorsEmpty(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, &fakeRows{})

	authors, err := repo.ListAuthors(context.Background(), entity.AuthorFilter{})
	require.NoError(t, err)
	require.NotNil(t, authors)
	require.Empty(t, authors)
}

func TestListBookISBNsByAuthor(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, &fakeRows{rows: [][]any{{"111"}, {"222"}}})

	isbns, err := repo.ListBookISBNsByAuthor(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, []string{"111", "222"}, isbns)
}

func TestDeleteReportsAffectedRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepository(t,
		pgconn.NewCommandTag("DELETE 1"),
		pgconn.NewCommandTag("DELETE 0"),
		pgconn.NewCommandTag("DELETE 1"),
		pgconn.NewCommandTag("DELETE 0"),
	)

	deleted, err := repo.DeleteAuthor(ctx, 1)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = repo.DeleteAuthor(ctx, 1)
	require.NoError(t, err)
	require.False(t, deleted)

	deleted, err = repo.DeleteBook(ctx, "1")
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = repo.DeleteBook(ctx, "1")
	require.NoError(t, err)
	require.False(t, deleted)
}
