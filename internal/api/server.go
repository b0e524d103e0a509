package api

import (
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v5"
	"github.com/samcharles93/furigana/internal/furigana"
	"github.com/samcharles93/furigana/internal/logger"
	"github.com/samcharles93/furigana/internal/tagger"
)

type Server struct {
	provider tagger.Provider
	opts     furigana.Options
}

func NewServer(provider tagger.Provider, opts furigana.Options) *Server {
	return &Server{
		provider: provider,
		opts:     opts,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/api/furigana", s.handleWords)
	e.POST("/api/furigana/single", s.handleChars)
}

func (s *Server) handleWords(c *echo.Context) error {
	return s.annotate(c, "words", furigana.WordTokens)
}

func (s *Server) handleChars(c *echo.Context) error {
	return s.annotate(c, "chars", furigana.CharTokens)
}

type tokenMapper func(nodes []tagger.Node, opts furigana.Options) []furigana.Token

func (s *Server) annotate(c *echo.Context, endpoint string, mapTokens tokenMapper) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx).With("endpoint", endpoint)

	if s.provider == nil {
		return writeServerError(c, "tagger not configured")
	}
	text, err := decodeTextRequest(c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	var tokens []furigana.Token
	err = s.provider.WithTagger(ctx, func(t tagger.Tagger) error {
		nodes, err := t.Parse(ctx, text)
		if err != nil {
			return err
		}
		tokens = mapTokens(nodes, s.opts)
		return nil
	})
	if err != nil {
		log.Error("analysis failed", "error", err)
		return writeServerError(c, err.Error())
	}

	log.Debug("analysis complete", "runes", utf8.RuneCountInString(text), "tokens", len(tokens))
	return writeJSON(c, http.StatusOK, TokensResponse{Data: tokens})
}
