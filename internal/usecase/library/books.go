package library

import (
	"context"

	"github.com/project/quickstart/internal/entity"
	"github.com/project/quickstart/internal/usecase/repository"
)

// resolveAuthor persists an inline author that has no id yet, so the book
// can reference it. An author with an id is only a reference: its name and
// age are not written, use the authors endpoints for that.
func (l *libraryImpl) resolveAuthor(ctx context.Context, author *entity.Author) (*entity.Author, error) {
	if author == nil || author.ID != 0 {
		return author, nil
	}

	created, err := l.authorRepository.CreateAuthor(ctx, *author)

	if err != nil {
		return nil, err
	}

	if err = l.sendEvent(ctx, repository.OutboxKindAuthor, authorKey(created.ID), created); err != nil {
		return nil, err
	}

	return &created, nil
}

// CreateUpdateBook stores book under isbn, replacing any previous version.
// The returned flag is true when the book did not exist before.
func (l *libraryImpl) CreateUpdateBook(ctx context.Context, isbn string, book entity.Book) (entity.Book, bool, error) {
	var (
		stored  entity.Book
		created bool
	)

	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		l.logger.Info("Create or update book request is being made to the database.")

		author, txErr := l.resolveAuthor(ctx, book.Author)

		if txErr != nil {
			return txErr
		}

		book.ISBN = isbn
		book.Author = author

		created, txErr = l.booksRepository.UpsertBook(ctx, book)

		if txErr != nil {
			return txErr
		}

		stored, txErr = l.booksRepository.GetBook(ctx, isbn)

		if txErr != nil {
			return txErr
		}

		return l.sendEvent(ctx, repository.OutboxKindBook, isbn, stored)
	})

	if err != nil {
		return entity.Book{}, false, l.convertErr(err)
	}

	return stored, created, nil
}

func (l *libraryImpl) ListBooks(ctx context.Context, page entity.PageRequest) (entity.Page[entity.Book], error) {
	l.logger.Info("List books request is being made to the database.")
	books, err := l.booksRepository.ListBooks(ctx, page)

	if err != nil {
		return entity.Page[entity.Book]{}, l.convertErr(err)
	}

	return books, nil
}

func (l *libraryImpl) GetBook(ctx context.Context, isbn string) (entity.Book, error) {
	l.logger.Info("Get book request is being made to the database.")
	book, err := l.booksRepository.GetBook(ctx, isbn)

	if err != nil {
		return entity.Book{}, l.convertErr(err)
	}

	return book, nil
}

func (l *libraryImpl) BookExists(ctx context.Context, isbn string) (bool, error) {
	exists, err := l.booksRepository.BookExists(ctx, isbn)

	if err != nil {
		return false, l.convertErr(err)
	}

	return exists, nil
}

func (l *libraryImpl) PartialUpdateBook(ctx context.Context, isbn string, patch entity.BookPatch) (entity.Book, error) {
	var updated entity.Book

	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		l.logger.Info("Partial update book request is being made to the database.")

		stored, txErr := l.booksRepository.GetBookForUpdate(ctx, isbn)

		if txErr != nil {
			return txErr
		}

		if patch.IsEmpty() {
			updated = stored
			return nil
		}

		merged := patch.Apply(stored)

		if merged.Author, txErr = l.resolveAuthor(ctx, merged.Author); txErr != nil {
			return txErr
		}

		if txErr = l.booksRepository.UpdateBook(ctx, merged); txErr != nil {
			return txErr
		}

		updated, txErr = l.booksRepository.GetBook(ctx, isbn)

		if txErr != nil {
			return txErr
		}

		return l.sendEvent(ctx, repository.OutboxKindBook, isbn, updated)
	})

	if err != nil {
		return entity.Book{}, l.convertErr(err)
	}

	return updated, nil
}

// DeleteBook is idempotent: an unknown isbn is not an error.
func (l *libraryImpl) DeleteBook(ctx context.Context, isbn string) error {
	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		l.logger.Info("Delete book request is being made to the database.")

		deleted, txErr := l.booksRepository.DeleteBook(ctx, isbn)

		if txErr != nil || !deleted {
			return txErr
		}

		return l.sendEvent(ctx, repository.OutboxKindBookDeleted, isbn, entity.Book{ISBN: isbn})
	})

	if err != nil {
		return l.convertErr(err)
	}

	return nil
}
