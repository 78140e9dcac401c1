package controller

import (
	"net/http"

	"github.com/project/quickstart/internal/dto"
	"github.com/project/quickstart/internal/entity"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func parsePageRequest(r *http.Request) (entity.PageRequest, error) {
	page, err := optionalInt(r, "page")

	if err != nil {
		return entity.PageRequest{}, err
	}

	size, err := optionalInt(r, "size")

	if err != nil {
		return entity.PageRequest{}, err
	}

	request := entity.PageRequest{
		Page: lo.FromPtrOr(page, 0),
		Size: lo.FromPtrOr(size, entity.DefaultPageSize),
	}

	if request.Page < 0 {
		return entity.PageRequest{}, status.Error(codes.InvalidArgument, "page must not be negative")
	}

	if request.Size < 1 || request.Size > entity.MaxPageSize {
		return entity.PageRequest{}, status.Errorf(codes.InvalidArgument, "size must be between 1 and %d", entity.MaxPageSize)
	}

	if !request.InRange() {
		return entity.PageRequest{}, status.Error(codes.InvalidArgument, "page is too large")
	}

	return request, nil
}

func (i *implementation) ListBooks(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	i.logger.Info("Validating list books request.")

	pageRequest, err := parsePageRequest(r)

	if err != nil {
		i.logger.Error("Error during validating list books request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	page, err := i.booksUseCase.ListBooks(r.Context(), pageRequest)

	if err != nil {
		i.logger.Error("Error during list books request.", zap.Error(err))
		i.writeError(w, err)
		return
	}

	i.logger.Info("List books request has passed successfully.",
		zap.Int("page", page.Page),
		zap.Int64("total_elements", page.TotalElements))

	i.writeJSON(w, http.StatusOK, dto.BookPageToDTO(page))
}
