package main

import (
	"log/slog"
	"os"

	"github.com/thiagokokada/gitk-explorer/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		slog.Error("gitk-explorer", slog.Any("error", err))
		os.Exit(1)
	}
}
