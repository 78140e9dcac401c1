package controller

import (
	"net/http"

	"go.uber.org/zap"
)

func (i *implementation) DeleteAuthor(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	i.logger.Info("Validating delete author request.")

	id, err := parseAuthorID(pathParams)

	if err != nil {
		i.logger.Error("Error during validating delete author request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	if err = i.authorUseCase.DeleteAuthor(r.Context(), id); err != nil {
		i.logger.Error("Error during delete author request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	i.logger.Info("Delete author request has passed successfully.")

	w.WriteHeader(http.StatusNoContent)
}
