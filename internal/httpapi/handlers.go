package httpapi

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ZaguanLabs/tlgate"
)

func (s *Server) handleTranslate(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "could not read request body")
	}

	var body translateRequest
	if err := decodeBody(raw, translateSchema, &body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
	}

	req := tlgate.TranslationRequest{
		Text:   body.Text,
		Target: body.Target,
	}
	if body.Source != nil {
		req.Source = *body.Source
	}
	if body.Format != nil {
		req.Format = tlgate.Format(*body.Format)
	}

	result, err := s.deps.Translator.Translate(c.Request().Context(), req)
	if err != nil {
		return s.translateError(c, err)
	}

	return c.JSON(http.StatusOK, translateResponse{
		Success: true,
		Text:    result.Text,
		Cached:  result.Cached,
	})
}

// translateError maps translator failures to status codes: admission
// denials to 429, validation failures to 400 and everything else to 500.
func (s *Server) translateError(c echo.Context, err error) error {
	if errors.Is(err, tlgate.ErrRateLimited) {
		if s.deps.Limiter != nil {
			c.Response().Header().Set("Retry-After", retryAfterSeconds(s.deps.Limiter.RetryAfter()))
		}
		return fail(c, http.StatusTooManyRequests, "too many requests, please try again later")
	}

	if tlgate.IsClientError(err) {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	s.logger.Error().
		Err(err).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("translation failed")
	return fail(c, http.StatusInternalServerError, "translation failed: "+err.Error())
}

// retryAfterSeconds renders d as whole seconds, rounded up, never below one.
func retryAfterSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func (s *Server) handleDetect(c echo.Context) error {
	if s.deps.Detector == nil {
		return fail(c, http.StatusServiceUnavailable, "language detection is not available")
	}

	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "could not read request body")
	}

	var body detectRequest
	if err := decodeBody(raw, detectSchema, &body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if strings.TrimSpace(body.Text) == "" {
		return fail(c, http.StatusBadRequest, "text must not be empty")
	}

	code, ok := s.deps.Detector.Detect(body.Text)
	if !ok {
		return fail(c, http.StatusUnprocessableEntity, "could not detect the language of the text")
	}

	return c.JSON(http.StatusOK, detectResponse{
		Success:  true,
		Language: code,
	})
}

func (s *Server) handleLanguages(c echo.Context) error {
	return c.JSON(http.StatusOK, languagesResponse{
		Success:   true,
		Languages: tlgate.LanguageMap(s.deps.Languages),
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	resp := healthResponse{
		Status:  "healthy",
		Time:    s.now().Unix(),
		Version: tlgate.Version,
	}
	if s.deps.Cache != nil {
		resp.Cache = s.deps.Cache.Stats()
	}
	return c.JSON(http.StatusOK, resp)
}
