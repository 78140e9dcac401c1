package controller

import (
	"net/http"

	"github.com/project/quickstart/internal/dto"
	"go.uber.org/zap"
)

func (i *implementation) GetAuthorInfo(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	i.logger.Info("Validating get author info request.")

	id, err := parseAuthorID(pathParams)

	if err != nil {
		i.logger.Error("Error during validating get author info request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	author, err := i.authorUseCase.GetAuthor(r.Context(), id)

	if err != nil {
		i.logger.Error("Error during get author info request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	i.logger.Info("Get author info request has passed successfully.")

	i.writeJSON(w, http.StatusOK, dto.AuthorToDTO(author))
}
