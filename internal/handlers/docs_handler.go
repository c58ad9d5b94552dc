package handlers

import (
	"crypto/md5"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	//go:embed docs/scalar.html
	scalarHTML []byte

	//go:embed docs/openapi.json
	openAPIJSON []byte
)

// DocsHandler serves the API reference page and its OpenAPI document
type DocsHandler struct {
	scalarHTML  []byte
	scalarETag  string
	openAPI     []byte
	openAPIETag string
}

func NewDocsHandler() *DocsHandler {
	return &DocsHandler{
		scalarHTML:  scalarHTML,
		scalarETag:  generateETag(scalarHTML),
		openAPI:     openAPIJSON,
		openAPIETag: generateETag(openAPIJSON),
	}
}

// ServeScalarUI serves the Scalar HTML page
// @Summary API Documentation UI
// @Tags Documentation
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /docs [get]
func (h *DocsHandler) ServeScalarUI(c echo.Context) error {
	if notModified(c, h.scalarETag) {
		return c.NoContent(http.StatusNotModified)
	}
	return c.HTMLBlob(http.StatusOK, h.scalarHTML)
}

// ServeOpenAPI serves the OpenAPI 3 document the Scalar page loads
func (h *DocsHandler) ServeOpenAPI(c echo.Context) error {
	c.Response().Header().Set("Access-Control-Allow-Origin", "*")
	c.Response().Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	if notModified(c, h.openAPIETag) {
		return c.NoContent(http.StatusNotModified)
	}
	return c.Blob(http.StatusOK, "application/json; charset=utf-8", h.openAPI)
}

func notModified(c echo.Context, etag string) bool {
	if etag == "" {
		return false
	}
	c.Response().Header().Set("ETag", etag)
	return c.Request().Header.Get("If-None-Match") == etag
}

func generateETag(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return fmt.Sprintf("\"%x\"", md5.Sum(data))
}
