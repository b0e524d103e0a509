package api

import "github.com/samcharles93/furigana/internal/furigana"

// TextRequest is the body accepted by both furigana endpoints. Text is a
// pointer so a missing field can be told apart from an empty string.
type TextRequest struct {
	Text *string `json:"text"`
}

type TokensResponse struct {
	Data []furigana.Token `json:"data"`
}

type ResponseError struct {
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}
