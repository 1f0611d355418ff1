package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	apperrors "github.com/uniedit/seeder/internal/shared/errors"
	"github.com/uniedit/seeder/internal/shared/logger"
)

func main() {
	slog.SetDefault(logger.New(logger.DefaultConfig()).With("app", "seeder").Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		slog.Error("seeder failed", "error", err)
	}
	stop()
	os.Exit(apperrors.GetExitCode(err))
}
