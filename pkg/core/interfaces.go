package core

import (
	"io"
	"log"
)

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// NewStdLogger returns a Logger writing timestamped lines to w
func NewStdLogger(w io.Writer) Logger {
	return log.New(w, "raytracer: ", log.LstdFlags)
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}
