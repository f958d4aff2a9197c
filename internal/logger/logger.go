// Package logger builds the process logger.
//
// Logs go to stderr: in MCP mode stdout carries the protocol stream.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a text logger writing to stderr at level. An unparsable level
// falls back to info and is returned as an error alongside the logger.
func New(level string) (*logrus.Logger, error) {
	return NewWithOutput(level, os.Stderr)
}

// NewWithOutput is New with a custom destination.
func NewWithOutput(level string, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		return log, err
	}
	log.SetLevel(lvl)
	return log, nil
}
