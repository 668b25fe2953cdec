// Package logging configures the process-wide standard logger.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Init sends log output to stdout when console is set and, when path is
// set, to a size-rotated file as well. The returned closer releases the
// file.
func Init(path string, console bool) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var outs []io.Writer
	if console {
		outs = append(outs, os.Stdout)
	}
	var closer io.Closer = nopCloser{}
	if path != "" {
		file := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		}
		outs = append(outs, file)
		closer = file
	}

	switch len(outs) {
	case 0:
		log.SetOutput(io.Discard)
	case 1:
		log.SetOutput(outs[0])
	default:
		log.SetOutput(io.MultiWriter(outs...))
	}
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
