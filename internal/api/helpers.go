package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
)

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, "", "")
}

func writeServerError(c *echo.Context, msg string) error {
	return writeError(c, http.StatusInternalServerError, "server_error", msg, "", "")
}

func writeError(c *echo.Context, status int, errType, msg, param, code string) error {
	return writeJSON(c, status, ErrorResponse{Error: ResponseError{
		Message: msg,
		Type:    errType,
		Code:    code,
		Param:   param,
	}})
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.JSONBlob(status, b)
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

func decodeTextRequest(r io.Reader) (string, error) {
	req, err := decodeJSON[TextRequest](r)
	if err != nil {
		return "", newInvalidRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	if req.Text == nil {
		return "", newInvalidRequest("text is required")
	}
	return *req.Text, nil
}
