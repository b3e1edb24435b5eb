package httpapi

import (
	"github.com/labstack/echo/v4"
)

type translateResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Cached  bool   `json:"cached"`
}

type detectResponse struct {
	Success  bool   `json:"success"`
	Language string `json:"language"`
}

type languagesResponse struct {
	Success   bool              `json:"success"`
	Languages map[string]string `json:"languages"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Version string `json:"version"`
	Cache   any    `json:"cache,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, errorResponse{
		Success: false,
		Error:   message,
	})
}
