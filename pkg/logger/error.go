package logger

import (
	"fmt"
	"log/slog"

	"github.com/gaze-network/ordinals-indexer/pkg/logger/slogx"
)

// errorAttrReplacer expands error attributes with their verbose
// representation so wrapped causes and stack traces are not lost.
func errorAttrReplacer(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 || attr.Key != slogx.ErrorKey {
		return attr
	}
	err, ok := attr.Value.Any().(error)
	if !ok || err == nil {
		return attr
	}
	return slog.Group(slogx.ErrorKey,
		slog.String("message", err.Error()),
		slog.String("verbose", fmt.Sprintf("%+v", err)),
	)
}
