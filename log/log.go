package log

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

type Level string

const (
	LDebug Level = "debug"
	LInfo  Level = "info"
	LWarn  Level = "warn"
	LError Level = "error"
	LFatal Level = "fatal"
)

var levelOrder = []Level{LDebug, LInfo, LWarn, LError, LFatal}

var DefaultLogger *log.Logger
var defaultFilter *levelFilter

func init() {
	defaultFilter = &levelFilter{
		start:  time.Now(),
		writer: os.Stderr,
	}
	defaultFilter.setMinLevel(LInfo)
	DefaultLogger = log.New(defaultFilter, "", 0)
}

// levelFilter drops log lines below the configured minimum level.
// Lines carry their level as a [level] prefix.
type levelFilter struct {
	start    time.Time
	writer   io.Writer
	hidden   map[Level]struct{}
	minLevel Level
}

func (f *levelFilter) setMinLevel(lvl Level) {
	f.minLevel = lvl
	f.hidden = make(map[Level]struct{})
	for _, level := range levelOrder {
		if level == lvl {
			break
		}
		f.hidden[level] = struct{}{}
	}
}

func (f *levelFilter) Write(p []byte) (int, error) {
	var level Level
	if x := bytes.IndexByte(p, '['); x >= 0 {
		if y := bytes.IndexByte(p[x:], ']'); y >= 0 {
			level = Level(p[x+1 : x+y])
		}
	}
	if _, ok := f.hidden[level]; ok {
		return 0, nil
	}
	b := bytes.Buffer{}
	fmt.Fprintf(&b, "[%s] %s ",
		time.Now().Format(time.RFC3339),
		time.Since(f.start).Round(time.Second),
	)
	b.Write(p)
	return f.writer.Write(b.Bytes())
}

// SetMinLevel hides all records below lvl.
func SetMinLevel(lvl Level) {
	defaultFilter.setMinLevel(lvl)
}

func Println(v ...interface{}) {
	DefaultLogger.Println(v...)
}

func Printf(format string, v ...interface{}) {
	DefaultLogger.Printf(format, v...)
}

func Fatal(v ...interface{}) {
	DefaultLogger.Fatal(v...)
}

func Fatalf(format string, v ...interface{}) {
	DefaultLogger.Fatalf(format, v...)
}

// Step logs the start of a named step and returns a func that
// logs its duration when called.
func Step(name string) func() {
	start := time.Now()
	Println("[info] Starting:", name)
	return func() {
		Printf("[info] Finished: %s in %s", name, time.Since(start))
	}
}
