package controller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	jsoniter "github.com/json-iterator/go"
	"github.com/project/quickstart/internal/dto"
	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/code"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (i *implementation) writeJSON(w http.ResponseWriter, httpStatus int, body any) {
	payload, err := json.Marshal(body)

	if err != nil {
		i.logger.Error("Error while serializing response.", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if _, err = w.Write(payload); err != nil {
		i.logger.Error("Error while writing response.", zap.Error(err))
	}
}

// writeError renders err as dto.Error. Errors without a gRPC status are
// reported as internal.
func (i *implementation) writeError(w http.ResponseWriter, err error) {
	s, ok := status.FromError(err)

	if !ok {
		s = status.New(codes.Internal, "internal error")
	}

	i.writeJSON(w, runtime.HTTPStatusFromCode(s.Code()), dto.Error{
		Code:    code.Code_name[int32(s.Code())],
		Message: s.Message(),
	})
}

func (i *implementation) routingErrorHandler(
	_ context.Context,
	_ *runtime.ServeMux,
	_ runtime.Marshaler,
	w http.ResponseWriter,
	_ *http.Request,
	httpStatus int,
) {
	c := codes.NotFound
	if httpStatus == http.StatusMethodNotAllowed {
		c = codes.Unimplemented
	}

	i.writeJSON(w, httpStatus, dto.Error{
		Code:    code.Code_name[int32(c)],
		Message: http.StatusText(httpStatus),
	})
}

func invalidArgument(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}

func decodeBody(r *http.Request, target any) error {
	err := json.NewDecoder(r.Body).Decode(target)

	var maxBytesErr *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return status.Error(codes.InvalidArgument, "request body is empty")
	case errors.As(err, &maxBytesErr):
		return status.Error(codes.InvalidArgument, "request body is too large")
	default:
		return status.Error(codes.InvalidArgument, "malformed request body: "+err.Error())
	}
}

func parseAuthorID(pathParams map[string]string) (int64, error) {
	id, err := strconv.ParseInt(pathParams["id"], 10, 64)

	if err != nil || id <= 0 {
		return 0, status.Error(codes.InvalidArgument, "author id must be a positive integer")
	}

	return id, nil
}

func parseISBN(pathParams map[string]string) (string, error) {
	isbn := pathParams["isbn"]

	if err := dto.ValidateISBN(isbn); err != nil {
		return "", invalidArgument(err)
	}

	return isbn, nil
}

// optionalInt reads an integer query parameter, returning nil when it is absent.
func optionalInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)

	if raw == "" {
		return nil, nil
	}

	v, err := strconv.Atoi(raw)

	if err != nil {
		return nil, status.Error(codes.InvalidArgument, name+" must be an integer")
	}

	return &v, nil
}
