// Package logger はslogのデフォルトロガーを構築します。
package logger

import (
	"io"
	"log/slog"
)

// New は環境に応じたslog.Loggerを生成し、デフォルトとして設定します。
// developmentではテキスト形式、それ以外はJSON形式で出力します。
func New(w io.Writer, service, env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var h slog.Handler
	if env == "development" {
		opts.Level = slog.LevelDebug
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	l := slog.New(h).With("service", service)
	slog.SetDefault(l)
	return l
}
