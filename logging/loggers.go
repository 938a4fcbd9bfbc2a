package logging

import (
	"bytes"
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
)

// const
const (
	PanicLevel = "panic"
	FatalLevel = "fatal"
	ErrorLevel = "error"
	WarnLevel  = "warn"
	InfoLevel  = "info"
	DebugLevel = "debug"
)
const (
	//PANIC log level
	PANIC uint32 = iota
	//FATAL log level
	FATAL
	//ERROR log level
	ERROR
	//WARN log level
	WARN
	//INFO log level
	INFO
	//DEBUG log level
	DEBUG
	//TRACE log level
	TRACE
)

//LogFormat is to log format
type LogFormat = map[string]interface{}

type emptyWriter struct{}

func (ew emptyWriter) Write(p []byte) (int, error) {
	return 0, nil
}

var (
	clog *logrus.Logger
	vlog *logrus.Logger
	mu   sync.Mutex
)

func convertLevel(level string) logrus.Level {
	switch level {
	case PanicLevel:
		return logrus.PanicLevel
	case FatalLevel:
		return logrus.FatalLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel:
		return logrus.WarnLevel
	case InfoLevel:
		return logrus.InfoLevel
	case DebugLevel:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// Init loggers
func Init(path, filename string, level string, age uint32) {
	mu.Lock()
	defer mu.Unlock()

	fileHooker := NewFileRotateHooker(path, filename, age)

	clog = logrus.New()
	clog.Hooks.Add(fileHooker)
	clog.Out = os.Stdout
	clog.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	clog.Level = convertLevel(level)

	vlog = logrus.New()
	vlog.Hooks.Add(fileHooker)
	vlog.Out = &emptyWriter{}
	vlog.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	vlog.Level = convertLevel(level)

	vlog.WithFields(logrus.Fields{
		"path":  path,
		"level": level,
	}).Info("Logger Configuration.")
}

//GetGID return gid
func GetGID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

//CPrint into stdout + log
func CPrint(level uint32, msg string, data LogFormat) {
	if clog == nil {
		Init(os.TempDir(), "wallet-core.log", "info", 0)
	}
	if data == nil {
		data = LogFormat{}
	}
	data["tid"] = GetGID()
	printWith(clog, level, msg, data)
}

//VPrint into log only
func VPrint(level uint32, msg string, data LogFormat) {
	if vlog == nil {
		Init(os.TempDir(), "wallet-core.log", "info", 0)
	}
	if data == nil {
		data = LogFormat{}
	}
	data["tid"] = GetGID()
	printWith(vlog, level, msg, data)
}

func printWith(logger *logrus.Logger, level uint32, msg string, data LogFormat) {
	entry := logger.WithFields(logrus.Fields(data))
	switch level {
	case PANIC:
		entry.Panic(msg)
	case FATAL:
		entry.Fatal(msg)
	case ERROR:
		entry.Error(msg)
	case WARN:
		entry.Warn(msg)
	case INFO:
		entry.Info(msg)
	case DEBUG:
		entry.Debug(msg)
	case TRACE:
		entry.Trace(msg)
	default:
		entry.Error(msg)
	}
}
