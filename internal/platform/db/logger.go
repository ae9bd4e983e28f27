package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm/logger"
)

// slogWriter はgormのログ出力をslogへ流します。
type slogWriter struct {
	log *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.log.Warn(fmt.Sprintf(format, args...), "component", "gorm")
}

// NewGormLogger はWarn以上のみをslogへ出力するgormロガーを返します。
// レコード未検出はエラーとして記録しません。
func NewGormLogger(l *slog.Logger) logger.Interface {
	return logger.New(slogWriter{log: l}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
		Colorful:                  false,
	})
}
