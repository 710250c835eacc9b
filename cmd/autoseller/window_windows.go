//go:build windows

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkeliz/gowebview"
)

func openWindow(ctx context.Context, url string, logger *slog.Logger) error {
	webview, err := gowebview.New(&gowebview.Config{
		URL: url,
		WindowConfig: &gowebview.WindowConfig{
			Title: "Autoseller",
			Size:  &gowebview.Point{X: 520, Y: 720},
		},
	})
	if err != nil {
		return fmt.Errorf("error opening settings window: %w", err)
	}
	defer webview.Destroy()

	closed := make(chan struct{})
	defer close(closed)
	go func() {
		select {
		case <-ctx.Done():
			webview.Terminate()
		case <-closed:
		}
	}()

	logger.Debug("Settings window opened")
	webview.Run()

	if ctx.Err() != nil {
		return nil
	}

	return errWindowClosed
}
