package utils

import "go.uber.org/zap"

// NewLogger returns the zap logger used across kura commands. With debug,
// output is the human-readable development format at debug level; otherwise
// production JSON at info level.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
