// Package logging routes the standard logger to stdout and a size-rotated
// log file, matching the line-oriented timestamped format the supervisor
// expects on the engine's streams.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup points the default logger at stdout plus a rotating file. Pass an
// empty path to log to stdout only.
func Setup(path string) {
	log.SetFlags(log.LstdFlags)

	if path == "" {
		log.SetOutput(os.Stdout)
		return
	}

	log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	}))
}
