package controller

import (
	"net/http"

	"github.com/project/quickstart/internal/dto"
	"github.com/project/quickstart/internal/entity"
	"go.uber.org/zap"
)

func (i *implementation) ListAuthors(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	i.logger.Info("Validating list authors request.")

	var (
		filter entity.AuthorFilter
		err    error
	)

	if filter.AgeLessThan, err = optionalInt(r, "age_lt"); err != nil {
		i.logger.Error("Error during validating list authors request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	if filter.AgeGreaterThan, err = optionalInt(r, "age_gt"); err != nil {
		i.logger.Error("Error during validating list authors request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	authors, err := i.authorUseCase.ListAuthors(r.Context(), filter)

	if err != nil {
		i.logger.Error("Error during list authors request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	i.logger.Info("List authors request has passed successfully.", zap.Int("count", len(authors)))

	i.writeJSON(w, http.StatusOK, dto.AuthorsToDTO(authors))
}
