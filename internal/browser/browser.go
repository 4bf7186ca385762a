package browser

import (
	"log/slog"

	"pacer/internal/config"
	"pacer/internal/logging"
	"pacer/internal/procs"
)

// Seams for tests.
var (
	killByName = procs.KillByName
	launch     = procs.LaunchDetached
)

// Launch kills any running browser instance and opens the configured URL in
// a fresh one. Failures are logged, never fatal: the loop does not depend
// on the browser.
func Launch(cfg config.Browser, logger *slog.Logger) {
	if !cfg.Enabled {
		return
	}
	logger = logging.NewComponentLogger(logger, "browser")

	if _, err := killByName(cfg.ProcessName); err != nil {
		logger.Warn("terminate existing browser failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "browser_kill_failed"),
		)
	}
	if err := launch(cfg.Binary, cfg.URL); err != nil {
		logger.Warn("browser launch failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "browser_launch_failed"),
		)
		return
	}
	logger.Info("notes page opened", logging.String("url", cfg.URL))
}
