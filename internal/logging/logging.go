// =============================================================================
// AssetDesk - Logging Setup
// =============================================================================
//
// Configures the process-wide logrus logger from the configuration. All
// packages log through the logrus standard logger so the level and format
// set here apply everywhere.
//
// =============================================================================

package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger.
//
// PARAMETERS:
//   - level: "debug", "info", "warn", or "error" (default: "info").
//   - format: "text" or "json" (default: "text").
func Setup(level, format string) {
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	if strings.EqualFold(format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
