package logger

import "go.uber.org/zap"

// New zap logger named for the owning service
func New(name string) *zap.Logger {
	l, _ := zap.NewProduction()

	return l.Named(name)
}
