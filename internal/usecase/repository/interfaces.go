package repository

//go:generate ../../../bin/mockgen --build_flags=--mod=mod -destination=../../../generated/mocks/repository_mock.go -package=mocks . AuthorRepository,BooksRepository,Transactor,OutboxRepository

import (
	"context"
	"time"

	"github.com/project/quickstart/internal/entity"
)

type (
	AuthorRepository interface {
		CreateAuthor(ctx context.Context, author entity.Author) (entity.Author, error)
		UpdateAuthor(ctx context.Context, author entity.Author) (entity.Author, error)
		GetAuthor(ctx context.Context, id int64) (entity.Author, error)
		GetAuthorForUpdate(ctx context.Context, id int64) (entity.Author, error)
		AuthorExists(ctx context.Context, id int64) (bool, error)
		ListAuthors(ctx context.Context, filter entity.AuthorFilter) ([]entity.Author, error)
		DeleteAuthor(ctx context.Context, id int64) (bool, error)
	}

	BooksRepository interface {
		// UpsertBook inserts the book or replaces the stored one with the same
		// isbn in a single statement. created reports which of the two happened.
		UpsertBook(ctx context.Context, book entity.Book) (created bool, err error)
		UpdateBook(ctx context.Context, book entity.Book) error
		GetBook(ctx context.Context, isbn string) (entity.Book, error)
		GetBookForUpdate(ctx context.Context, isbn string) (entity.Book, error)
		BookExists(ctx context.Context, isbn string) (bool, error)
		ListBooks(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Book], error)
		ListBookISBNsByAuthor(ctx context.Context, authorID int64) ([]string, error)
		DeleteBook(ctx context.Context, isbn string) (bool, error)
	}

	Transactor interface {
		WithTx(context.Context, func(ctx context.Context) error) error
	}

	OutboxRepository interface {
		SendMessage(ctx context.Context, idempotencyKey string, kind OutboxKind, message []byte) error
		GetMessages(ctx context.Context, batchSize int, inProgressTTL time.Duration) ([]OutboxData, error)
		MarkAsProcessed(ctx context.Context, idempotencyKeys []string) error
	}

	OutboxData struct {
		IdempotencyKey string
		Kind           OutboxKind
		RawData        []byte
	}
)

type OutboxKind int

const (
	OutboxKindUndefined OutboxKind = iota
	OutboxKindBook
	OutboxKindAuthor
	OutboxKindBookDeleted
	OutboxKindAuthorDeleted
)

func (o OutboxKind) String() string {
	switch o {
	case OutboxKindBook:
		return "book"
	case OutboxKindAuthor:
		return "author"
	case OutboxKindBookDeleted:
		return "book_deleted"
	case OutboxKindAuthorDeleted:
		return "author_deleted"
	default:
		return "undefined"
	}
}
