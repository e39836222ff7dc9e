// Command cdpagent-server launches (or attaches to) Chrome, wires a
// session engine to it, and serves the tool contract over HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dgnsrekt/cdpagent/internal/api"
	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
	"github.com/dgnsrekt/cdpagent/internal/config"
	"github.com/dgnsrekt/cdpagent/internal/launcher"
	"github.com/dgnsrekt/cdpagent/internal/netutil"
	"github.com/dgnsrekt/cdpagent/internal/tool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = io.WriteString(os.Stderr, "failed to load config: "+err.Error()+"\n")
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays); err != nil {
		_, _ = io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n")
		os.Exit(1)
	}

	slog.Info("cdpagent config loaded",
		"cdp_address", cfg.CDPAddress,
		"cdp_port", cfg.CDPPort,
		"launch_chrome", cfg.LaunchChrome,
		"api_address", cfg.APIAddress,
		"api_port", cfg.APIPort,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var inst *launcher.Instance
	if cfg.LaunchChrome {
		inst, err = launcher.Launch(ctx, launcher.Options{
			CDPAddress: cfg.CDPAddress,
			CDPPort:    cfg.CDPPort,
			StartURL:   cfg.StartURL,
			ProfileDir: cfg.ProfileDir,
			WindowSize: cfg.WindowSize,
		})
		if err != nil {
			slog.Error("failed to launch chrome", "error", err)
			os.Exit(1)
		}
		defer inst.Kill()
		slog.Info("chrome ready", "ws_endpoint", inst.WSEndpoint, "port", inst.Port)
	}

	sess := session.New(cfg.SessionOptions())
	if err := sess.Connect(ctx, cfg.CDPHTTPBase()); err != nil {
		slog.Error("failed to connect session", "error", err)
		os.Exit(1)
	}
	defer sess.Kill()

	if err := sess.RefreshTargets(ctx); err != nil {
		slog.Warn("failed to refresh targets", "error", err)
	}
	for _, target := range sess.Targets().All() {
		if target.Type == "page" {
			if err := sess.AttachToTarget(ctx, target.TargetID); err != nil {
				slog.Error("failed to attach to target", "target_id", target.TargetID, "error", err)
				os.Exit(1)
			}
			break
		}
	}

	if err := sess.EnableDebugger(ctx); err != nil {
		slog.Warn("failed to enable debugger", "error", err)
	}
	if err := sess.EnableRuntime(ctx); err != nil {
		slog.Warn("failed to enable runtime", "error", err)
	}
	if err := sess.EnableNetwork(ctx); err != nil {
		slog.Warn("failed to enable network", "error", err)
	}

	registry := tool.NewRegistry()
	handler := api.NewServer(sess, registry)
	preferred := fmt.Sprintf("%s:%d", cfg.APIAddress, cfg.APIPort)
	addr, err := netutil.SelectBindAddr(preferred, cfg.APIPortCandidates, cfg.APIPortFallback)
	if err != nil {
		slog.Error("failed to select bind address", "preferred", preferred, "error", err)
		os.Exit(1)
	}
	srv := &http.Server{Addr: addr, Handler: handler}

	go func() {
		slog.Info("cdpagent listening", "addr", addr, "docs", "http://"+addr+"/docs")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}

func setupLogger(level, filename string, maxSizeMB, maxBackups, maxAgeDays int) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}
