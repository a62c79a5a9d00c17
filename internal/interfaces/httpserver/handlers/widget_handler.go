package handlers

import (
	_ "embed"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/domain/voicecommand"
)

//go:embed assets/voicebot.js
var loaderScript []byte

// Widget asset names served next to the loader.
const (
	WidgetWasmFile    = "voicebot.wasm"
	WidgetRuntimeFile = "wasm_exec.js"
)

// WidgetConfig is what embedded widgets may learn about the deployment.
type WidgetConfig struct {
	VapiPublicKey string                  `json:"vapiPublicKey"`
	Environment   string                  `json:"environment"`
	Shortcuts     []voicecommand.Shortcut `json:"shortcuts,omitempty"`
}

// WidgetHandler serves the embeddable widget and its public configuration.
type WidgetHandler struct {
	config    WidgetConfig
	assetsDir string
	log       zerolog.Logger
}

func NewWidgetHandler(config WidgetConfig, assetsDir string, log zerolog.Logger) *WidgetHandler {
	return &WidgetHandler{
		config:    config,
		assetsDir: assetsDir,
		log:       log.With().Str("handler", "widget").Logger(),
	}
}

// Config handles GET /v1/widget/config
// @Summary Public widget configuration
// @Tags Public
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/widget/config [get]
func (h *WidgetHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "config": h.config})
}

// Loader handles GET /widget/voicebot.js
func (h *WidgetHandler) Loader(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", loaderScript)
}

// Wasm handles GET /widget/voicebot.wasm
func (h *WidgetHandler) Wasm(c *gin.Context) {
	h.serveAsset(c, WidgetWasmFile, "application/wasm")
}

// Runtime handles GET /widget/wasm_exec.js
func (h *WidgetHandler) Runtime(c *gin.Context) {
	h.serveAsset(c, WidgetRuntimeFile, "application/javascript; charset=utf-8")
}

// serveAsset prefers a precompressed name.gz for clients that accept gzip.
func (h *WidgetHandler) serveAsset(c *gin.Context, name, contentType string) {
	path := filepath.Join(h.assetsDir, name)
	c.Header("Vary", "Accept-Encoding")
	if strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
		if _, err := os.Stat(path + ".gz"); err == nil {
			c.Header("Content-Encoding", "gzip")
			path += ".gz"
		}
	}
	if _, err := os.Stat(path); err != nil {
		h.log.Warn().Str("asset", path).Msg("widget asset missing; build it with GOOS=js GOARCH=wasm")
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=300")
	c.File(path)
}
