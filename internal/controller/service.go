package controller

import (
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/project/quickstart/internal/usecase/library"
	"go.uber.org/zap"
)

type implementation struct {
	logger        *zap.Logger
	booksUseCase  library.BooksUseCase
	authorUseCase library.AuthorUseCase
}

func New(
	logger *zap.Logger,
	booksUseCase library.BooksUseCase,
	authorUseCase library.AuthorUseCase,
) *implementation {
	return &implementation{
		logger:        logger,
		booksUseCase:  booksUseCase,
		authorUseCase: authorUseCase,
	}
}

type route struct {
	method  string
	pattern string
	handler runtime.HandlerFunc
}

func (i *implementation) routes() []route {
	return []route{
		{http.MethodPost, "/authors", i.RegisterAuthor},
		{http.MethodGet, "/authors", i.ListAuthors},
		{http.MethodGet, "/authors/{id}", i.GetAuthorInfo},
		{http.MethodPut, "/authors/{id}", i.ChangeAuthorInfo},
		{http.MethodPatch, "/authors/{id}", i.PatchAuthorInfo},
		{http.MethodDelete, "/authors/{id}", i.DeleteAuthor},
		{http.MethodPut, "/books/{isbn}", i.UpdateBook},
		{http.MethodGet, "/books", i.ListBooks},
		{http.MethodGet, "/books/{isbn}", i.GetBookInfo},
		{http.MethodPatch, "/books/{isbn}", i.PatchBookInfo},
		{http.MethodDelete, "/books/{isbn}", i.DeleteBook},
	}
}

// NewRouter registers every endpoint on a gateway mux.
func (i *implementation) NewRouter() (*runtime.ServeMux, error) {
	mux := runtime.NewServeMux(
		runtime.WithRoutingErrorHandler(i.routingErrorHandler),
	)

	for _, r := range i.routes() {
		if err := mux.HandlePath(r.method, r.pattern, r.handler); err != nil {
			return nil, err
		}
	}

	return mux, nil
}

// Handler wraps the router with the request middleware chain.
func (i *implementation) Handler(maxBodyBytes int64) (http.Handler, error) {
	mux, err := i.NewRouter()

	if err != nil {
		return nil, err
	}

	var h http.Handler = mux
	h = BodySizeLimit(maxBodyBytes)(h)
	h = Recovery(i.logger)(h)
	h = AccessLog(i.logger)(h)
	h = RequestID(h)

	return h, nil
}
