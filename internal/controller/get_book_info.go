package controller

import (
	"net/http"

	"github.com/project/quickstart/internal/dto"
	"go.uber.org/zap"
)

func (i *implementation) GetBookInfo(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	i.logger.Info("Validating get book info request.")

	isbn, err := parseISBN(pathParams)

	if err != nil {
		i.logger.Error("Error during validating get book info request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	book, err := i.booksUseCase.GetBook(r.Context(), isbn)

	if err != nil {
		i.logger.Error("Error during get book info request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	i.logger.Info("Get book info request has passed successfully.")

	i.writeJSON(w, http.StatusOK, dto.BookToDTO(book))
}
