package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level.
// It implements [PipelineHooks], [CacheHooks] and [HTTPHooks].
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to logger, or to the default logger if nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) OnStageStart(_ context.Context, stage Stage, tiles int) {
	h.logger.Debug("stage start", "stage", stage, "tiles", tiles)
}

func (h *LogHooks) OnStageComplete(_ context.Context, stage Stage, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("stage failed", "stage", stage, "duration", d, "err", err)
		return
	}
	h.logger.Debug("stage done", "stage", stage, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
