package controller

import (
	"net/http"

	"github.com/project/quickstart/internal/dto"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ChangeAuthorInfo replaces the author under the path id. Fields missing from
// the body are stored as zero values.
func (i *implementation) ChangeAuthorInfo(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	i.logger.Info("Validating change author info request.")

	id, err := parseAuthorID(pathParams)

	if err != nil {
		i.logger.Error("Error during validating change author info request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	var request dto.Author

	if err = decodeBody(r, &request); err != nil {
		i.logger.Error("Error during validating change author info request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	if err = request.Validate(); err != nil {
		i.logger.Error("Error during validating change author info request.", zap.Error(err))
		i.writeError(w, invalidArgument(err))
		return
	}

	exists, err := i.authorUseCase.AuthorExists(r.Context(), id)

	if err != nil {
		i.logger.Error("Error during change author info request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	if !exists {
		i.writeError(w, status.Error(codes.NotFound, "author not found"))
		return
	}

	author := dto.AuthorFromDTO(request)
	author.ID = id

	author, err = i.authorUseCase.UpdateAuthor(r.Context(), author)

	if err != nil {
		i.logger.Error("Error during change author info request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	i.logger.Info("Change author info request has passed successfully.")

	i.writeJSON(w, http.StatusOK, dto.AuthorToDTO(author))
}
