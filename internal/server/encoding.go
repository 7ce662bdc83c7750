package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
	goahttp "goa.design/goa/v3/http"
	goa "goa.design/goa/v3/pkg"

	"moblind/internal/services"
)

const maxBodyBytes = 64 << 10

// errorBody is the JSON error shape shared by every API route.
type errorBody struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	enc := goahttp.ResponseEncoder(ctx, w)
	w.WriteHeader(status)
	_ = enc.Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := goahttp.RequestDecoder(r).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return services.BadRequest("request body is required")
		}
		return services.BadRequest("invalid request body: %v", err)
	}
	return nil
}

// asServiceError normalises err so every response carries a name.
func asServiceError(err error) *goa.ServiceError {
	var svcErr *goa.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return services.Internal("unexpected error", err)
}

func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	svcErr := asServiceError(err)
	status := services.StatusCode(svcErr.Name)
	message := svcErr.Message
	if svcErr.Fault {
		s.logger.Error("request failed", zap.String("request_id", requestID(ctx)), zap.String("error_id", svcErr.ID), zap.Error(err))
		message = "internal server error"
	}
	writeJSON(ctx, w, status, &errorBody{Name: svcErr.Name, ID: svcErr.ID, Message: message})
}
