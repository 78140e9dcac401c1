package controller

import (
	"net/http"

	"github.com/project/quickstart/internal/dto"
	"go.uber.org/zap"
)

// RegisterAuthor creates an author. An id in the body is ignored, the store
// assigns a fresh one.
func (i *implementation) RegisterAuthor(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	i.logger.Info("Validating register author request.")

	var request dto.Author

	if err := decodeBody(r, &request); err != nil {
		i.logger.Error("Error during validating register author request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	if err := request.Validate(); err != nil {
		i.logger.Error("Error during validating register author request.", zap.Error(err))
		i.writeError(w, invalidArgument(err))
		return
	}

	author, err := i.authorUseCase.CreateAuthor(r.Context(), dto.AuthorFromDTO(request))

	if err != nil {
		i.logger.Error("Error during register author request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	i.logger.Info("Register author request has passed successfully.", zap.Int64("id", author.ID))

	i.writeJSON(w, http.StatusCreated, dto.AuthorToDTO(author))
}
