package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New は、進捗ログ用のロガーを初期化します。
// verbose が true の場合はレベル指定にかかわらず debug で出力します。
func New(level string, verbose bool) *logrus.Logger {
	return NewWithOutput(os.Stderr, level, verbose)
}

// NewWithOutput は、出力先を指定してロガーを初期化します。
func NewWithOutput(out io.Writer, level string, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if verbose {
		log.SetLevel(logrus.DebugLevel)
		return log
	}

	if parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil {
		log.SetLevel(parsed)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", level).Warn("不正なログレベルのため info を使用します")
	}
	return log
}

// Discard は、何も出力しないロガーを返します。
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
