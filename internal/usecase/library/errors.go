package library

import (
	"errors"

	"github.com/project/quickstart/internal/entity"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (l *libraryImpl) convertErr(err error) error {
	switch {
	case errors.Is(err, entity.ErrAuthorNotFound):
		return status.Error(codes.NotFound, entity.ErrAuthorNotFound.Error())
	case errors.Is(err, entity.ErrBookNotFound):
		return status.Error(codes.NotFound, entity.ErrBookNotFound.Error())
	default:
		l.logger.Error("Unexpected repository error.", zap.Error(err))
		return status.Error(codes.Internal, "repository error")
	}
}
