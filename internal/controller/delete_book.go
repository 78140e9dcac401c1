package controller

import (
	"net/http"

	"go.uber.org/zap"
)

func (i *implementation) DeleteBook(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	i.logger.Info("Validating delete book request.")

	isbn, err := parseISBN(pathParams)

	if err != nil {
		i.logger.Error("Error during validating delete book request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	if err = i.booksUseCase.DeleteBook(r.Context(), isbn); err != nil {
		i.logger.Error("Error during delete book request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	i.logger.Info("Delete book request has passed successfully.")

	w.WriteHeader(http.StatusNoContent)
}
