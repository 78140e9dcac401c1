package controller

import (
	"net/http"

	"github.com/project/quickstart/internal/dto"
	"go.uber.org/zap"
)

// UpdateBook creates or replaces the book stored under the path isbn and
// answers 201 or 200 accordingly.
func (i *implementation) UpdateBook(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	i.logger.Info("Validating update book request.")

	isbn, err := parseISBN(pathParams)

	if err != nil {
		i.logger.Error("Error during validating update book request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	var request dto.Book

	if err = decodeBody(r, &request); err != nil {
		i.logger.Error("Error during validating update book request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	if err = request.Validate(); err != nil {
		i.logger.Error("Error during validating update book request.", zap.Error(err))
		i.writeError(w, invalidArgument(err))
		return
	}

	book, created, err := i.booksUseCase.CreateUpdateBook(r.Context(), isbn, dto.BookFromDTO(request))

	if err != nil {
		i.logger.Error("Error during update book request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	i.logger.Info("Update book request has passed successfully.", zap.Bool("created", created))

	httpStatus := http.StatusOK
	if created {
		httpStatus = http.StatusCreated
	}

	i.writeJSON(w, httpStatus, dto.BookToDTO(book))
}
