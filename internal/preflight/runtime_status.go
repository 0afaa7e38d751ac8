package preflight

import (
	"context"

	"captionfix/internal/config"
)

// CheckHistoryFromConfig evaluates the history database when it is enabled.
func CheckHistoryFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "History database"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if !cfg.History.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	return CheckHistory(ctx, cfg.HistoryDBPath())
}

// CheckServerFromConfig checks the server configured by cfg.
func CheckServerFromConfig(ctx context.Context, cfg *config.Config) Result {
	if cfg == nil {
		return Result{Name: "Server", Detail: "Unknown"}
	}
	return CheckServer(ctx, cfg.Server.Bind)
}
