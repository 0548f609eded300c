// logger.go logs every backend request and response through applog.
package ai

import (
	"time"

	"github.com/DachengChen/trinoai/applog"
)

// LogRequest logs an outgoing generation request.
func LogRequest(provider string, p Prompt) {
	applog.Logger().Debug("ai request",
		"category", "ai",
		"provider", provider,
		"system_len", len(p.System),
		"user", p.User,
	)
}

// LogResponse logs a generation response or failure.
func LogResponse(provider string, response string, elapsed time.Duration, err error) {
	if err != nil {
		applog.Logger().Error("ai response",
			"category", "ai",
			"provider", provider,
			"elapsed_ms", elapsed.Milliseconds(),
			"error", err.Error(),
		)
		return
	}
	applog.Logger().Info("ai response",
		"category", "ai",
		"provider", provider,
		"elapsed_ms", elapsed.Milliseconds(),
		"response_len", len(response),
	)
	applog.Logger().Debug("ai response body", "category", "ai", "provider", provider, "response", response)
}
