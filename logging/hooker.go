package logging

import (
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

// NewFileRotateHooker creates a logrus hook that writes all levels to a
// daily-rotated file under path.  age is the retention in days; zero keeps
// the default of one week.
func NewFileRotateHooker(path, filename string, age uint32) logrus.Hook {
	if len(path) == 0 {
		panic("Failed to parse logger folder:" + path + ".")
	}
	if !filepath.IsAbs(path) {
		path, _ = filepath.Abs(path)
	}

	maxAge := time.Duration(age) * 24 * time.Hour
	if age == 0 {
		maxAge = 7 * 24 * time.Hour
	}

	writer, err := rotatelogs.New(
		filepath.Join(path, filename+".%Y%m%d"),
		rotatelogs.WithLinkName(filepath.Join(path, filename)),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(maxAge),
	)
	if err != nil {
		panic("Failed to create rotate logs:" + err.Error())
	}

	hook := lfshook.NewHook(lfshook.WriterMap{
		logrus.DebugLevel: writer,
		logrus.InfoLevel:  writer,
		logrus.WarnLevel:  writer,
		logrus.ErrorLevel: writer,
		logrus.FatalLevel: writer,
		logrus.PanicLevel: writer,
	}, &logrus.TextFormatter{FullTimestamp: true})
	return hook
}
