package logger

import (
	"fmt"
	"io"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

type stringer interface {
	String() string
}

type logPair struct {
	logFn func(...any)
	obj   string
	msg   string
	flush chan struct{}
}

const (
	logSize   = 1000
	objWidth  = 20
	lineWidth = 100
)

var (
	logCh    = make(chan logPair, logSize)
	initOnce sync.Once
	started  atomic.Bool
)

func objToString(obj any) (objStr string) {
	if obj == nil {
		objStr = "NIL"
	} else if stringerObj, ok := obj.(stringer); ok {
		objStr = stringerObj.String()
	} else if objStr, ok = obj.(string); ok {
	} else {
		t := reflect.TypeOf(obj)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		objStr = t.Name()
	}
	if len(objStr) > objWidth {
		objStr = objStr[:objWidth]
	}
	return
}

func format(obj, msg string) string {
	return fmt.Sprintf("|%*s|%-*s", objWidth, obj, lineWidth, msg)
}

// Init sets the level and starts the background writer. Lines logged
// before Init are written synchronously.
func Init(lvl logrus.Level) {
	logrus.SetLevel(lvl)
	initOnce.Do(func() {
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:     true,
			FullTimestamp:   true,
			PadLevelText:    true,
			TimestampFormat: "2006/01/02 15:04:05",
		})
		go func() {
			for p := range logCh {
				if p.flush != nil {
					close(p.flush)
					continue
				}
				p.logFn(format(p.obj, p.msg))
			}
		}()
		started.Store(true)
	})
}

// ParseLevel maps a level name from configuration to a logrus level.
func ParseLevel(name string) (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("logger: %w", err)
	}
	return lvl, nil
}

// SetOutput redirects log lines, mostly for tests and the CLI.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

// Flush blocks until every line queued so far has been written.
func Flush() {
	if !started.Load() {
		return
	}
	done := make(chan struct{})
	logCh <- logPair{flush: done}
	<-done
}

func emit(lvl logrus.Level, fn func(...any), object any, message string) {
	if logrus.GetLevel() < lvl {
		return
	}
	p := logPair{logFn: fn, obj: objToString(object), msg: message}
	if !started.Load() {
		p.logFn(format(p.obj, p.msg))
		return
	}
	logCh <- p
}

func Trace(object any, message string) {
	emit(logrus.TraceLevel, logrus.Trace, object, message)
}

func Tracef(object any, message string, args ...any) {
	if logrus.GetLevel() < logrus.TraceLevel {
		return
	}
	emit(logrus.TraceLevel, logrus.Trace, object, fmt.Sprintf(message, args...))
}

func Debug(object any, message string) {
	emit(logrus.DebugLevel, logrus.Debug, object, message)
}

func Debugf(object any, message string, args ...any) {
	if logrus.GetLevel() < logrus.DebugLevel {
		return
	}
	emit(logrus.DebugLevel, logrus.Debug, object, fmt.Sprintf(message, args...))
}

func Info(object any, message string) {
	emit(logrus.InfoLevel, logrus.Info, object, message)
}

func Infof(object any, message string, args ...any) {
	if logrus.GetLevel() < logrus.InfoLevel {
		return
	}
	emit(logrus.InfoLevel, logrus.Info, object, fmt.Sprintf(message, args...))
}

func Warning(object any, message string) {
	emit(logrus.WarnLevel, logrus.Warning, object, message)
}

func Warningf(object any, message string, args ...any) {
	if logrus.GetLevel() < logrus.WarnLevel {
		return
	}
	emit(logrus.WarnLevel, logrus.Warning, object, fmt.Sprintf(message, args...))
}

func Error(object any, message string) {
	emit(logrus.ErrorLevel, logrus.Error, object, message)
}

func Errorf(object any, message string, args ...any) {
	if logrus.GetLevel() < logrus.ErrorLevel {
		return
	}
	emit(logrus.ErrorLevel, logrus.Error, object, fmt.Sprintf(message, args...))
}

func Fatalf(object any, message string, args ...any) {
	Flush()
	logrus.Fatal(format(objToString(object), fmt.Sprintf(message, args...)))
}
