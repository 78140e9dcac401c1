package library

import (
	"context"
	"errors"
	"strconv"

	"github.com/project/quickstart/internal/entity"
	"github.com/project/quickstart/internal/usecase/repository"
)

func authorKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (l *libraryImpl) CreateAuthor(ctx context.Context, author entity.Author) (entity.Author, error) {
	var created entity.Author

	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		l.logger.Info("Create author request is being made to the database.")

		var txErr error
		created, txErr = l.authorRepository.CreateAuthor(ctx, entity.Author{
			Name: author.Name,
			Age:  author.Age,
		})

		if txErr != nil {
			return txErr
		}

		return l.sendEvent(ctx, repository.OutboxKindAuthor, authorKey(created.ID), created)
	})

	if err != nil {
		return entity.Author{}, l.convertErr(err)
	}

	return created, nil
}

func (l *libraryImpl) ListAuthors(ctx context.Context, filter entity.AuthorFilter) ([]entity.Author, error) {
	l.logger.Info("List authors request is being made to the database.")
	authors, err := l.authorRepository.ListAuthors(ctx, filter)

	if err != nil {
		return nil, l.convertErr(err)
	}

	return authors, nil
}

func (l *libraryImpl) GetAuthor(ctx context.Context, id int64) (entity.Author, error) {
	l.logger.Info("Get author request is being made to the database.")
	author, err := l.authorRepository.GetAuthor(ctx, id)

	if err != nil {
		return entity.Author{}, l.convertErr(err)
	}

	return author, nil
}

func (l *libraryImpl) AuthorExists(ctx context.Context, id int64) (bool, error) {
	exists, err := l.authorRepository.AuthorExists(ctx, id)

	if err != nil {
		return false, l.convertErr(err)
	}

	return exists, nil
}

// UpdateAuthor replaces every field of the stored author.
func (l *libraryImpl) UpdateAuthor(ctx context.Context, author entity.Author) (entity.Author, error) {
	var updated entity.Author

	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		l.logger.Info("Update author request is being made to the database.")

		var txErr error
		updated, txErr = l.authorRepository.UpdateAuthor(ctx, author)

		if txErr != nil {
			return txErr
		}

		return l.sendEvent(ctx, repository.OutboxKindAuthor, authorKey(updated.ID), updated)
	})

	if err != nil {
		return entity.Author{}, l.convertErr(err)
	}

	return updated, nil
}

// PartialUpdateAuthor merges patch into the stored author. The row is locked
// between read and write.
func (l *libraryImpl) PartialUpdateAuthor(ctx context.Context, id int64, patch entity.AuthorPatch) (entity.Author, error) {
	var updated entity.Author

	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		l.logger.Info("Partial update author request is being made to the database.")

		stored, txErr := l.authorRepository.GetAuthorForUpdate(ctx, id)

		if txErr != nil {
			return txErr
		}

		if patch.IsEmpty() {
			updated = stored
			return nil
		}

		updated, txErr = l.authorRepository.UpdateAuthor(ctx, patch.Apply(stored))

		if txErr != nil {
			return txErr
		}

		return l.sendEvent(ctx, repository.OutboxKindAuthor, authorKey(updated.ID), updated)
	})

	if err != nil {
		return entity.Author{}, l.convertErr(err)
	}

	return updated, nil
}

// DeleteAuthor removes the author and, through the foreign key, its books.
// Every removed book gets its own deletion event. Deleting an unknown id is
// not an error.
func (l *libraryImpl) DeleteAuthor(ctx context.Context, id int64) error {
	err := l.transactor.WithTx(ctx, func(ctx context.Context) error {
		l.logger.Info("Delete author request is being made to the database.")

		// The row lock keeps new books from referencing the author until commit.
		_, txErr := l.authorRepository.GetAuthorForUpdate(ctx, id)

		if errors.Is(txErr, entity.ErrAuthorNotFound) {
			return nil
		}

		if txErr != nil {
			return txErr
		}

		isbns, txErr := l.booksRepository.ListBookISBNsByAuthor(ctx, id)

		if txErr != nil {
			return txErr
		}

		deleted, txErr := l.authorRepository.DeleteAuthor(ctx, id)

		if txErr != nil || !deleted {
			return txErr
		}

		for _, isbn := range isbns {
			if txErr = l.sendEvent(ctx, repository.OutboxKindBookDeleted, isbn, entity.Book{ISBN: isbn}); txErr != nil {
				return txErr
			}
		}

		return l.sendEvent(ctx, repository.OutboxKindAuthorDeleted, authorKey(id), entity.Author{ID: id})
	})

	if err != nil {
		return l.convertErr(err)
	}

	return nil
}
