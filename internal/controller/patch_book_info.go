package controller

import (
	"net/http"

	"github.com/project/quickstart/internal/dto"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PatchBookInfo merges the fields present in the body into the stored book.
// The isbn is the identity and can not be patched.
func (i *implementation) PatchBookInfo(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	i.logger.Info("Validating patch book info request.")

	isbn, err := parseISBN(pathParams)

	if err != nil {
		i.logger.Error("Error during validating patch book info request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	var request dto.Book

	if err = decodeBody(r, &request); err != nil {
		i.logger.Error("Error during validating patch book info request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	if err = request.Validate(); err != nil {
		i.logger.Error("Error during validating patch book info request.", zap.Error(err))
		i.writeError(w, invalidArgument(err))
		return
	}

	exists, err := i.booksUseCase.BookExists(r.Context(), isbn)

	if err != nil {
		i.logger.Error("Error during patch book info request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	if !exists {
		i.writeError(w, status.Error(codes.NotFound, "book not found"))
		return
	}

	book, err := i.booksUseCase.PartialUpdateBook(r.Context(), isbn, dto.BookPatchFromDTO(request))

	if err != nil {
		i.logger.Error("Error during patch book info request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	i.logger.Info("Patch book info request has passed successfully.")

	i.writeJSON(w, http.StatusOK, dto.BookToDTO(book))
}
