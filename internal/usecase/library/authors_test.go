package library

import (
	"context"
	"errors"
	"testing"

	"github.com/project/quickstart/generated/mocks"
	"github.com/project/quickstart/internal/entity"
	"github.com/project/quickstart/internal/usecase/repository"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func passThroughTransactor(ctrl *gomock.Controller) *mocks.MockTransactor {
	transactor := mocks.NewMockTransactor(ctrl)
	transactor.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, f func(ctx context.Context) error) error {
			return f(ctx)
		},
	).AnyTimes()
	return transactor
}

func getDefaultAuthorUseCaseWithOutbox(
	ctrl *gomock.Controller,
	authorsRepository *mocks.MockAuthorRepository,
	outboxRepository *mocks.MockOutboxRepository,
) *libraryImpl {
	booksRepo := mocks.NewMockBooksRepository(ctrl)
	logger := zap.NewNop()

	return New(logger, passThroughTransactor(ctrl), outboxRepository, authorsRepository, booksRepo)
}

func getDefaultAuthorUseCase(ctrl *gomock.Controller, authorsRepository *mocks.MockAuthorRepository) *libraryImpl {
	return getDefaultAuthorUseCaseWithOutbox(ctrl, authorsRepository, mocks.NewMockOutboxRepository(ctrl))
}

func TestCreateAuthor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name            string
		request         entity.Author
		assignedID      int64
		repositoryError error
		outboxError     error
		expectedCode    codes.Code
	}{
		{
			name:         "Run without errors",
			request:      entity.Author{Name: "Kamran", Age: 25},
			assignedID:   1,
			expectedCode: codes.OK,
		},
		{
			name:         "Client supplied id is ignored",
			request:      entity.Author{ID: 42, Name: "Kamran", Age: 25},
			assignedID:   2,
			expectedCode: codes.OK,
		},
		{
			name:            "Run with internal errors",
			request:         entity.Author{Name: "Kamran", Age: 25},
			repositoryError: errors.New("test"),
			expectedCode:    codes.Internal,
		},
		{
			name:         "Run with outbox errors",
			request:      entity.Author{Name: "Kamran", Age: 25},
			assignedID:   3,
			outboxError:  errors.New("test"),
			expectedCode: codes.Internal,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			ctx := context.Background()

			saved := entity.Author{ID: tc.assignedID, Name: tc.request.Name, Age: tc.request.Age}

			authorRepo := mocks.NewMockAuthorRepository(ctrl)
			authorRepo.EXPECT().CreateAuthor(ctx, entity.Author{Name: tc.request.Name, Age: tc.request.Age}).
				Return(saved, tc.repositoryError)

			times := 0
			if tc.repositoryError == nil {
				times = 1
			}
			outboxRepo := mocks.NewMockOutboxRepository(ctrl)
			outboxRepo.EXPECT().SendMessage(ctx, gomock.Any(), repository.OutboxKindAuthor, gomock.Any()).
				Return(tc.outboxError).Times(times)

			uc := getDefaultAuthorUseCaseWithOutbox(ctrl, authorRepo, outboxRepo)
			resp, err := uc.CreateAuthor(ctx, tc.request)

			require.Equal(t, tc.expectedCode, status.Code(err))
			if tc.expectedCode == codes.OK {
				require.Equal(t, saved, resp)
			}
		})
	}
}

func TestListAuthors(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	ctx := context.Background()

	filter := entity.AuthorFilter{AgeGreaterThan: lo.ToPtr(24)}
	expected := []entity.Author{{ID: 1, Name: "Kamran", Age: 25}, {ID: 3, Name: "Aamir", Age: 29}}

	authorRepo := mocks.NewMockAuthorRepository(ctrl)
	authorRepo.EXPECT().ListAuthors(ctx, filter).Return(expected, nil)
	authorRepo.EXPECT().ListAuthors(ctx, entity.AuthorFilter{}).Return(nil, errors.New("test"))

	uc := getDefaultAuthorUseCase(ctrl, authorRepo)

	authors, err := uc.ListAuthors(ctx, filter)
	require.NoError(t, err)
	require.Equal(t, expected, authors)

	_, err = uc.ListAuthors(ctx, entity.AuthorFilter{})
	require.Equal(t, codes.Internal, status.Code(err))
}

func TestGetAuthor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name            string
		id              int64
		stored          entity.Author
		repositoryError error
		expectedCode    codes.Code
	}{
		{
			name:         "Run without errors",
			id:           1,
			stored:       entity.Author{ID: 1, Name: "Kamran", Age: 25},
			expectedCode: codes.OK,
		},
		{
			name:            "Run with internal errors",
			id:              1,
			repositoryError: errors.New("test error"),
			expectedCode:    codes.Internal,
		},
		{
			name:            "Run with not found errors",
			id:              99,
			repositoryError: entity.ErrAuthorNotFound,
			expectedCode:    codes.NotFound,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			ctx := context.Background()

			authorRepo := mocks.NewMockAuthorRepository(ctrl)
			authorRepo.EXPECT().GetAuthor(ctx, tc.id).Return(tc.stored, tc.repositoryError)

			uc := getDefaultAuthorUseCase(ctrl, authorRepo)
			resp, err := uc.GetAuthor(ctx, tc.id)

			require.Equal(t, tc.expectedCode, status.Code(err))
			if tc.expectedCode == codes.OK {
				require.Equal(t, tc.stored, resp)
			}
		})
	}
}

func TestAuthorExists(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	ctx := context.Background()

	authorRepo := mocks.NewMockAuthorRepository(ctrl)
	authorRepo.EXPECT().AuthorExists(ctx, int64(1)).Return(true, nil)
	authorRepo.EXPECT().AuthorExists(ctx, int64(2)).Return(false, nil)
	authorRepo.EXPECT().AuthorExists(ctx, int64(3)).Return(false, errors.New("test"))

	uc := getDefaultAuthorUseCase(ctrl, authorRepo)

	exists, err := uc.AuthorExists(ctx, 1)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = uc.AuthorExists(ctx, 2)
	require.NoError(t, err)
	require.False(t, exists)

	_, err = uc.AuthorExists(ctx, 3)
	require.Equal(t, codes.Internal, status.Code(err))
}

func TestUpdateAuthor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name            string
		request         entity.Author
		repositoryError error
		expectedCode    codes.Code
	}{
		{
			name:         "Run without errors",
			request:      entity.Author{ID: 1, Name: "Danish", Age: 24},
			expectedCode: codes.OK,
		},
		{
			name:            "Run with internal errors",
			request:         entity.Author{ID: 1, Name: "Danish", Age: 24},
			repositoryError: errors.New("test error"),
			expectedCode:    codes.Internal,
		},
		{
			name:            "Run with not found errors",
			request:         entity.Author{ID: 7, Name: "Danish", Age: 24},
			repositoryError: entity.ErrAuthorNotFound,
			expectedCode:    codes.NotFound,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			ctx := context.Background()

			authorRepo := mocks.NewMockAuthorRepository(ctrl)
			authorRepo.EXPECT().UpdateAuthor(ctx, tc.request).Return(tc.request, tc.repositoryError)

			times := 0
			if tc.repositoryError == nil {
				times = 1
			}
			outboxRepo := mocks.NewMockOutboxRepository(ctrl)
			outboxRepo.EXPECT().SendMessage(ctx, gomock.Any(), repository.OutboxKindAuthor, gomock.Any()).
				Return(nil).Times(times)

			uc := getDefaultAuthorUseCaseWithOutbox(ctrl, authorRepo, outboxRepo)
			resp, err := uc.UpdateAuthor(ctx, tc.request)

			require.Equal(t, tc.expectedCode, status.Code(err))
			if tc.expectedCode == codes.OK {
				require.Equal(t, tc.request, resp)
			}
		})
	}
}

func TestPartialUpdateAuthor(t *testing.T) {
	t.Parallel()

	stored := entity.Author{ID: 1, Name: "Kamran", Age: 25}

	testCases := []struct {
		name          string
		patch         entity.AuthorPatch
		readError     error
		writeError    error
		expected      entity.Author
		expectedWrite bool
		expectedCode  codes.Code
	}{
		{
			name:          "Patch name keeps age",
			patch:         entity.AuthorPatch{Name: lo.ToPtr("MKM")},
			expected:      entity.Author{ID: 1, Name: "MKM", Age: 25},
			expectedWrite: true,
			expectedCode:  codes.OK,
		},
		{
			name:          "Patch age keeps name",
			patch:         entity.AuthorPatch{Age: lo.ToPtr(26)},
			expected:      entity.Author{ID: 1, Name: "Kamran", Age: 26},
			expectedWrite: true,
			expectedCode:  codes.OK,
		},
		{
			name:         "Empty patch returns stored author",
			patch:        entity.AuthorPatch{},
			expected:     stored,
			expectedCode: codes.OK,
		},
		{
			name:         "Not found",
			patch:        entity.AuthorPatch{Name: lo.ToPtr("MKM")},
			readError:    entity.ErrAuthorNotFound,
			expectedCode: codes.NotFound,
		},
		{
			name:          "Write error",
			patch:         entity.AuthorPatch{Name: lo.ToPtr("MKM")},
			writeError:    errors.New("test"),
			expected:      entity.Author{ID: 1, Name: "MKM", Age: 25},
			expectedWrite: true,
			expectedCode:  codes.Internal,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			ctx := context.Background()

			authorRepo := mocks.NewMockAuthorRepository(ctrl)
			authorRepo.EXPECT().GetAuthorForUpdate(ctx, stored.ID).Return(stored, tc.readError)

			outboxRepo := mocks.NewMockOutboxRepository(ctrl)

			if tc.expectedWrite {
				authorRepo.EXPECT().UpdateAuthor(ctx, tc.expected).Return(tc.expected, tc.writeError)

				if tc.writeError == nil {
					outboxRepo.EXPECT().SendMessage(ctx, gomock.Any(), repository.OutboxKindAuthor, gomock.Any()).Return(nil)
				}
			}

			uc := getDefaultAuthorUseCaseWithOutbox(ctrl, authorRepo, outboxRepo)
			resp, err := uc.PartialUpdateAuthor(ctx, stored.ID, tc.patch)

			require.Equal(t, tc.expectedCode, status.Code(err))
			if tc.expectedCode == codes.OK {
				require.Equal(t, tc.expected, resp)
			}
		})
	}
}

func TestDeleteAuthor(t *testing.T) {
	t.Parallel()

	const id = int64(5)

	testCases := []struct {
		name         string
		setup        func(ctx context.Context, m bookMocks)
		expectedCode codes.Code
	}{
		{
			name: "Author with books emits an event per removed book",
			setup: func(ctx context.Context, m bookMocks) {
				m.authors.EXPECT().GetAuthorForUpdate(ctx, id).Return(entity.Author{ID: id}, nil)
				m.books.EXPECT().ListBookISBNsByAuthor(ctx, id).Return([]string{"111", "222"}, nil)
				m.authors.EXPECT().DeleteAuthor(ctx, id).Return(true, nil)

				gomock.InOrder(
					m.outbox.EXPECT().SendMessage(ctx, gomock.Any(), repository.OutboxKindBookDeleted, []byte(`{"isbn":"111","title":""}`)).Return(nil),
					m.outbox.EXPECT().SendMessage(ctx, gomock.Any(), repository.OutboxKindBookDeleted, []byte(`{"isbn":"222","title":""}`)).Return(nil),
					m.outbox.EXPECT().SendMessage(ctx, gomock.Any(), repository.OutboxKindAuthorDeleted, gomock.Any()).Return(nil),
				)
			},
			expectedCode: codes.OK,
		},
		{
			name: "Author without books",
			setup: func(ctx context.Context, m bookMocks) {
				m.authors.EXPECT().GetAuthorForUpdate(ctx, id).Return(entity.Author{ID: id}, nil)
				m.books.EXPECT().ListBookISBNsByAuthor(ctx, id).Return([]string{}, nil)
				m.authors.EXPECT().DeleteAuthor(ctx, id).Return(true, nil)
				m.outbox.EXPECT().SendMessage(ctx, gomock.Any(), repository.OutboxKindAuthorDeleted, gomock.Any()).Return(nil)
			},
			expectedCode: codes.OK,
		},
		{
			name: "Missing author is not an error",
			setup: func(ctx context.Context, m bookMocks) {
				m.authors.EXPECT().GetAuthorForUpdate(ctx, id).Return(entity.Author{}, entity.ErrAuthorNotFound)
			},
			expectedCode: codes.OK,
		},
		{
			name: "Book lookup fails",
			setup: func(ctx context.Context, m bookMocks) {
				m.authors.EXPECT().GetAuthorForUpdate(ctx, id).Return(entity.Author{ID: id}, nil)
				m.books.EXPECT().ListBookISBNsByAuthor(ctx, id).Return(nil, errors.New("test"))
			},
			expectedCode: codes.Internal,
		},
		{
			name: "Run with internal errors",
			setup: func(ctx context.Context, m bookMocks) {
				m.authors.EXPECT().GetAuthorForUpdate(ctx, id).Return(entity.Author{ID: id}, nil)
				m.books.EXPECT().ListBookISBNsByAuthor(ctx, id).Return([]string{"111"}, nil)
				m.authors.EXPECT().DeleteAuthor(ctx, id).Return(false, errors.New("test"))
			},
			expectedCode: codes.Internal,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			ctx := context.Background()

			uc, m := getDefaultBooksUseCase(ctrl)
			tc.setup(ctx, m)

			err := uc.DeleteAuthor(ctx, id)

			require.Equal(t, tc.expectedCode, status.Code(err))
		})
	}
}
