package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type (
	Entry  = logrus.Entry
	Fields = logrus.Fields
)

// Init настраивает JSON-формат и уровень логирования.
// Уровень берётся из level; пустое значение означает info,
// а DEBUG=true в окружении всегда включает debug.
func Init(level string) {
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	Log.SetOutput(os.Stdout)
	Log.SetLevel(parseLevel(level))
}

// SetOutput перенаправляет вывод, например в stderr для CLI.
func SetOutput(w io.Writer) {
	Log.SetOutput(w)
}

// Component возвращает запись с полем component.
func Component(name string) *Entry {
	return Log.WithField("component", name)
}

func parseLevel(level string) logrus.Level {
	if os.Getenv("DEBUG") == "true" {
		return logrus.DebugLevel
	}
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil || level == "" {
		return logrus.InfoLevel
	}
	return lvl
}
