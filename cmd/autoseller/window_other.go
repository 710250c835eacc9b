//go:build !windows

package main

import (
	"context"
	"fmt"
	"log/slog"
)

func openWindow(_ context.Context, url string, logger *slog.Logger) error {
	logger.Warn(fmt.Sprintf("Native window is only available on windows, open %s in a browser", url))
	return nil
}
