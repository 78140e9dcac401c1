package library

//go:generate ../../../bin/mockgen --build_flags=--mod=mod -destination=../../../generated/mocks/use_case_mock.go -package=mocks . AuthorUseCase,BooksUseCase

import (
	"context"

	"github.com/project/quickstart/internal/entity"
	"github.com/project/quickstart/internal/usecase/repository"
	"go.uber.org/zap"
)

type (
	AuthorUseCase interface {
		CreateAuthor(ctx context.Context, author entity.Author) (entity.Author, error)
		ListAuthors(ctx context.Context, filter entity.AuthorFilter) ([]entity.Author, error)
		GetAuthor(ctx context.Context, id int64) (entity.Author, error)
		AuthorExists(ctx context.Context, id int64) (bool, error)
		UpdateAuthor(ctx context.Context, author entity.Author) (entity.Author, error)
		PartialUpdateAuthor(ctx context.Context, id int64, patch entity.AuthorPatch) (entity.Author, error)
		DeleteAuthor(ctx context.Context, id int64) error
	}

	BooksUseCase interface {
		CreateUpdateBook(ctx context.Context, isbn string, book entity.Book) (entity.Book, bool, error)
		ListBooks(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Book], error)
		GetBook(ctx context.Context, isbn string) (entity.Book, error)
		BookExists(ctx context.Context, isbn string) (bool, error)
		PartialUpdateBook(ctx context.Context, isbn string, patch entity.BookPatch) (entity.Book, error)
		DeleteBook(ctx context.Context, isbn string) error
	}
)

var _ AuthorUseCase = (*libraryImpl)(nil)
var _ BooksUseCase = (*libraryImpl)(nil)

type libraryImpl struct {
	logger           *zap.Logger
	transactor       repository.Transactor
	outboxRepository repository.OutboxRepository
	authorRepository repository.AuthorRepository
	booksRepository  repository.BooksRepository
}

func New(
	logger *zap.Logger,
	transactor repository.Transactor,
	outboxRepository repository.OutboxRepository,
	authorRepository repository.AuthorRepository,
	booksRepository repository.BooksRepository,
) *libraryImpl {
	return &libraryImpl{
		logger:           logger,
		transactor:       transactor,
		outboxRepository: outboxRepository,
		authorRepository: authorRepository,
		booksRepository:  booksRepository,
	}
}
