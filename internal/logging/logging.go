// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

const DefaultLevel = "warn"

// Setup points the standard logger at out with the given level. Results go
// to stdout, so out is normally stderr.
func Setup(level string, out io.Writer) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	log.SetOutput(out)
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return nil
}

// Component returns an entry tagged with a component field.
func Component(name string) *log.Entry {
	return log.WithField("component", name)
}
