// Package main is the lobbyd server entrypoint binary.
//
// It intentionally delegates startup to the internal app package to keep
// main small, testable (via app), and lint-friendly.
package main

import (
	"log/slog"
	"os"

	"lobbyd/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		slog.Error("lobbyd.exit", "err", err)
		os.Exit(1)
	}
}
