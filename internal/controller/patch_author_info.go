package controller

import (
	"net/http"

	"github.com/project/quickstart/internal/dto"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PatchAuthorInfo merges the fields present in the body into the stored author.
func (i *implementation) PatchAuthorInfo(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	i.logger.Info("Validating patch author info request.")

	id, err := parseAuthorID(pathParams)

	if err != nil {
		i.logger.Error("Error during validating patch author info request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	var request dto.Author

	if err = decodeBody(r, &request); err != nil {
		i.logger.Error("Error during validating patch author info request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	if err = request.Validate(); err != nil {
		i.logger.Error("Error during validating patch author info request.", zap.Error(err))
		i.writeError(w, invalidArgument(err))
		return
	}

	exists, err := i.authorUseCase.AuthorExists(r.Context(), id)

	if err != nil {
		i.logger.Error("Error during patch author info request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	if !exists {
		i.writeError(w, status.Error(codes.NotFound, "author not found"))
		return
	}

	author, err := i.authorUseCase.PartialUpdateAuthor(r.Context(), id, dto.AuthorPatchFromDTO(request))

	if err != nil {
		i.logger.Error("Error during patch author info request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	i.logger.Info("Patch author info request has passed successfully.")

	i.writeJSON(w, http.StatusOK, dto.AuthorToDTO(author))
}
