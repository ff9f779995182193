// Package logger tags log lines with the object that produced them and hands
// formatting to a single background goroutine.
package logger

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"
)

type stringer interface {
	String() string
}

type logPair struct {
	logFn func(...any)
	obj   string
	msg   string
}

const (
	logSize  = 1000
	objWidth = 20
)

var logCh = make(chan logPair, logSize)

func init() {
	go consume()
}

func consume() {
	sb := new(bytes.Buffer)
	for pair := range logCh {
		sb.WriteString(line(pair.obj, pair.msg))
		pair.logFn(sb.String())
		sb.Reset()
	}
}

func line(obj, msg string) string {
	if len(obj) > objWidth {
		obj = obj[:objWidth]
	}
	return fmt.Sprintf("|%20s|%-100s", obj, msg)
}

func objToString(obj any) (objStr string) {
	if obj == nil {
		objStr = "NIL"
	} else if stringerObj, ok := obj.(stringer); ok {
		objStr = stringerObj.String()
	} else if objStr, ok = obj.(string); ok {
	} else {
		t := reflect.TypeOf(obj)
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		objStr = t.Name()
	}
	return
}

// Init sets the global level and the text formatter.
func Init(lvl logrus.Level) {
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		PadLevelText:    true,
		TimestampFormat: "2006/01/02 15:04:05",
	})
}

func enqueue(lvl logrus.Level, fn func(...any), object any, msg func() string) {
	if logrus.GetLevel() < lvl {
		return
	}
	logCh <- logPair{
		logFn: fn,
		obj:   objToString(object),
		msg:   msg(),
	}
}

func Trace(object any, message string) {
	enqueue(logrus.TraceLevel, logrus.Trace, object, func() string { return message })
}

func Tracef(object any, message string, args ...any) {
	enqueue(logrus.TraceLevel, logrus.Trace, object, func() string { return fmt.Sprintf(message, args...) })
}

func Debug(object any, message string) {
	enqueue(logrus.DebugLevel, logrus.Debug, object, func() string { return message })
}

func Debugf(object any, message string, args ...any) {
	enqueue(logrus.DebugLevel, logrus.Debug, object, func() string { return fmt.Sprintf(message, args...) })
}

func Info(object any, message string) {
	enqueue(logrus.InfoLevel, logrus.Info, object, func() string { return message })
}

func Infof(object any, message string, args ...any) {
	enqueue(logrus.InfoLevel, logrus.Info, object, func() string { return fmt.Sprintf(message, args...) })
}

func Warning(object any, message string) {
	enqueue(logrus.WarnLevel, logrus.Warning, object, func() string { return message })
}

func Warningf(object any, message string, args ...any) {
	enqueue(logrus.WarnLevel, logrus.Warning, object, func() string { return fmt.Sprintf(message, args...) })
}

func Error(object any, message string) {
	enqueue(logrus.ErrorLevel, logrus.Error, object, func() string { return message })
}

func Errorf(object any, message string, args ...any) {
	enqueue(logrus.ErrorLevel, logrus.Error, object, func() string { return fmt.Sprintf(message, args...) })
}

func Fatal(object any, message string) {
	logrus.Fatal(line(objToString(object), message))
}

func Fatalf(object any, message string, args ...any) {
	logrus.Fatal(line(objToString(object), fmt.Sprintf(message, args...)))
}
