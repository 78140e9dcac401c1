package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/project/quickstart/internal/entity"
	"go.uber.org/zap"
)

var _ AuthorRepository = (*postgresImpl)(nil)
var _ BooksRepository = (*postgresImpl)(nil)

// Querier is the subset shared by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresImpl struct {
	logger *zap.Logger
	db     Querier
}

var _ Querier = (*pgxpool.Pool)(nil)

func NewPostgresRepository(logger *zap.Logger, db Querier) *postgresImpl {
	return &postgresImpl{
		logger: logger,
		db:     db,
	}
}

// conn returns the transaction carried by ctx, falling back to the pool.
func (r *postgresImpl) conn(ctx context.Context) Querier {
	if tx, err := extractTx(ctx); err == nil {
		return tx
	}
	return r.db
}

func (r *postgresImpl) mapErr(err error) error {
	const ErrForeignKeyViolation = "23503"

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == ErrForeignKeyViolation {
		return entity.ErrAuthorNotFound
	}

	r.logger.Error("Error while accessing to data base.", zap.Error(err))
	return err
}

func (r *postgresImpl) count(ctx context.Context, query string, args []any) (int64, error) {
	var n int64
	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, r.mapErr(err)
	}
	return n, nil
}

func (r *postgresImpl) CreateAuthor(ctx context.Context, author entity.Author) (entity.Author, error) {
	query, args, err := insertAuthorQuery(author)
	if err != nil {
		return entity.Author{}, fmt.Errorf("build insert author query: %w", err)
	}

	if err = r.conn(ctx).QueryRow(ctx, query, args...).Scan(&author.ID); err != nil {
		return entity.Author{}, r.mapErr(err)
	}

	return author, nil
}

func (r *postgresImpl) UpdateAuthor(ctx context.Context, author entity.Author) (entity.Author, error) {
	query, args, err := updateAuthorQuery(author)
	if err != nil {
		return entity.Author{}, fmt.Errorf("build update author query: %w", err)
	}

	result, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return entity.Author{}, r.mapErr(err)
	}
	if result.RowsAffected() == 0 {
		return entity.Author{}, entity.ErrAuthorNotFound
	}

	return author, nil
}

func (r *postgresImpl) getAuthor(ctx context.Context, id int64, forUpdate bool) (entity.Author, error) {
	query, args, err := selectAuthorQuery(id, forUpdate)
	if err != nil {
		return entity.Author{}, fmt.Errorf("build select author query: %w", err)
	}

	var author entity.Author
	err = r.conn(ctx).QueryRow(ctx, query, args...).Scan(&author.ID, &author.Name, &author.Age)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Author{}, entity.ErrAuthorNotFound
	}
	if err != nil {
		return entity.Author{}, r.mapErr(err)
	}

	return author, nil
}

func (r *postgresImpl) GetAuthor(ctx context.Context, id int64) (entity.Author, error) {
	return r.getAuthor(ctx, id, false)
}

func (r *postgresImpl) GetAuthorForUpdate(ctx context.Context, id int64) (entity.Author, error) {
	return r.getAuthor(ctx, id, true)
}

func (r *postgresImpl) AuthorExists(ctx context.Context, id int64) (bool, error) {
	query, args, err := countAuthorQuery(id)
	if err != nil {
		return false, fmt.Errorf("build count author query: %w", err)
	}

	n, err := r.count(ctx, query, args)
	return n > 0, err
}

func (r *postgresImpl) ListAuthors(ctx context.Context, filter entity.AuthorFilter) ([]entity.Author, error) {
	query, args, err := listAuthorsQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build list authors query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapErr(err)
	}

	defer rows.Close()

	authors := make([]entity.Author, 0)

	for rows.Next() {
		var author entity.Author
		if err := rows.Scan(&author.ID, &author.Name, &author.Age); err != nil {
			r.logger.Error("Error while working with row.", zap.Error(err))
			return nil, err
		}
		authors = append(authors, author)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapErr(err)
	}

	return authors, nil
}

func (r *postgresImpl) DeleteAuthor(ctx context.Context, id int64) (bool, error) {
	query, args, err := deleteAuthorQuery(id)
	if err != nil {
		return false, fmt.Errorf("build delete author query: %w", err)
	}

	result, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return false, r.mapErr(err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *postgresImpl) UpsertBook(ctx context.Context, book entity.Book) (bool, error) {
	query, args, err := upsertBookQuery(book)
	if err != nil {
		return false, fmt.Errorf("build upsert book query: %w", err)
	}

	var created bool
	if err = r.conn(ctx).QueryRow(ctx, query, args...).Scan(&created); err != nil {
		return false, r.mapErr(err)
	}

	return created, nil
}

func (r *postgresImpl) UpdateBook(ctx context.Context, book entity.Book) error {
	query, args, err := updateBookQuery(book)
	if err != nil {
		return fmt.Errorf("build update book query: %w", err)
	}

	result, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return r.mapErr(err)
	}
	if result.RowsAffected() == 0 {
		return entity.ErrBookNotFound
	}

	return nil
}

func scanBook(row pgx.Row) (entity.Book, error) {
	var (
		book       entity.Book
		authorID   *int64
		authorName *string
		authorAge  *int
	)

	if err := row.Scan(&book.ISBN, &book.Title, &authorID, &authorName, &authorAge); err != nil {
		return entity.Book{}, err
	}

	if authorID != nil {
		book.Author = &entity.Author{ID: *authorID}
		if authorName != nil {
			book.Author.Name = *authorName
		}
		if authorAge != nil {
			book.Author.Age = *authorAge
		}
	}

	return book, nil
}

func (r *postgresImpl) getBook(ctx context.Context, isbn string, forUpdate bool) (entity.Book, error) {
	query, args, err := selectBookQuery(isbn, forUpdate)
	if err != nil {
		return entity.Book{}, fmt.Errorf("build select book query: %w", err)
	}

	book, err := scanBook(r.conn(ctx).QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Book{}, entity.ErrBookNotFound
	}
	if err != nil {
		return entity.Book{}, r.mapErr(err)
	}

	return book, nil
}

func (r *postgresImpl) GetBook(ctx context.Context, isbn string) (entity.Book, error) {
	return r.getBook(ctx, isbn, false)
}

func (r *postgresImpl) GetBookForUpdate(ctx context.Context, isbn string) (entity.Book, error) {
	return r.getBook(ctx, isbn, true)
}

func (r *postgresImpl) BookExists(ctx context.Context, isbn string) (bool, error) {
	query, args, err := countBookQuery(isbn)
	if err != nil {
		return false, fmt.Errorf("build count book query: %w", err)
	}

	n, err := r.count(ctx, query, args)
	return n > 0, err
}

func (r *postgresImpl) ListBooks(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Book], error) {
	result := entity.Page[entity.Book]{
		Content: make([]entity.Book, 0),
		Page:    page.Page,
		Size:    page.Size,
	}

	countQuery, countArgs, err := countBooksQuery()
	if err != nil {
		return result, fmt.Errorf("build count books query: %w", err)
	}

	if result.TotalElements, err = r.count(ctx, countQuery, countArgs); err != nil {
		return result, err
	}

	if int64(page.Offset()) >= result.TotalElements {
		return result, nil
	}

	query, args, err := listBooksQuery(page)
	if err != nil {
		return result, fmt.Errorf("build list books query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return result, r.mapErr(err)
	}

	defer rows.Close()

	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			r.logger.Error("Error while working with row.", zap.Error(err))
			return result, err
		}
		result.Content = append(result.Content, book)
	}

	if err := rows.Err(); err != nil {
		return result, r.mapErr(err)
	}

	return result, nil
}

func (r *postgresImpl) ListBookISBNsByAuthor(ctx context.Context, authorID int64) ([]string, error) {
	query, args, err := listBookISBNsByAuthorQuery(authorID)
	if err != nil {
		return nil, fmt.Errorf("build list author books query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapErr(err)
	}

	isbns, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, r.mapErr(err)
	}

	return isbns, nil
}

func (r *postgresImpl) DeleteBook(ctx context.Context, isbn string) (bool, error) {
	query, args, err := deleteBookQuery(isbn)
	if err != nil {
		return false, fmt.Errorf("build delete book query: %w", err)
	}

	result, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return false, r.mapErr(err)
	}

	return result.RowsAffected() > 0, nil
}
