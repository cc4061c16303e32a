// cmd/server/main.go

// 本服務以 HTTP 提供帳戶建立、存提款、計息與關閉等操作。
// 此檔案負責讀取設定、初始化模組（bank, server）並啟動 HTTP 伺服器；
// 收到 SIGINT/SIGTERM 時停止伺服器並以 CloseAll 釋放所有帳戶。

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"ledger/internal/bank"
	"ledger/internal/server"
)

type config struct {
	httpAddr string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg config
	cmd := &cobra.Command{
		Use:          "ledger-server",
		Short:        "In-memory account ledger over HTTP",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cfg.logLevel)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().StringVar(&cfg.httpAddr, "http-addr", envString("HTTP_ADDR", ":8080"), "HTTP listen address")
	cmd.Flags().StringVar(&cfg.logLevel, "log-level", envString("LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	return cmd
}

func newLogger(lvl string) (log.Logger, error) {
	var opt level.Option
	switch lvl {
	case "debug":
		opt = level.AllowDebug()
	case "info":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, fmt.Errorf("unknown log level %q", lvl)
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, opt)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return logger, nil
}

func run(ctx context.Context, cfg config, logger log.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := bank.NewRegistry(bank.WithLogger(logger))
	defer reg.CloseAll()

	srv := &http.Server{
		Addr:              cfg.httpAddr,
		Handler:           server.NewServer(reg, logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		_ = level.Info(logger).Log("msg", "ledger server running", "addr", cfg.httpAddr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			_ = level.Error(logger).Log("msg", "http server failed", "err", err)
			return err
		}
	case <-ctx.Done():
		_ = level.Info(logger).Log("msg", "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = level.Error(logger).Log("msg", "shutdown", "err", err)
			return err
		}
	}
	_ = level.Info(logger).Log("msg", "ledger server stopped", "accounts", reg.Len())
	return nil
}

func envString(env, fallback string) string {
	if e := os.Getenv(env); e != "" {
		return e
	}
	return fallback
}
