// Command cdpagent-cli is a small stdio driver for exercising a running
// Chrome's CDP session engine without the HTTP shell, useful for local
// debugging against an already-launched browser.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
)

func main() {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})
	slog.SetDefault(slog.New(handler))

	cdpAddress := flag.String("cdp-address", "127.0.0.1", "chrome CDP host")
	cdpPort := flag.Int("cdp-port", 9222, "chrome CDP port")
	command := flag.String("cmd", "evaluate", "evaluate | list-requests | debug-state")
	expression := flag.String("expr", "1+1", "expression for the evaluate command")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sess := session.New(session.DefaultOptions())
	httpBase := fmt.Sprintf("http://%s:%d", *cdpAddress, *cdpPort)
	if err := sess.Connect(ctx, httpBase); err != nil {
		fmt.Fprintln(os.Stderr, "connect:", err)
		os.Exit(1)
	}
	defer sess.Kill()

	if err := sess.RefreshTargets(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "refresh targets:", err)
		os.Exit(1)
	}
	for _, target := range sess.Targets().All() {
		if target.Type == "page" {
			if err := sess.AttachToTarget(ctx, target.TargetID); err != nil {
				fmt.Fprintln(os.Stderr, "attach:", err)
				os.Exit(1)
			}
			break
		}
	}
	if err := sess.EnableRuntime(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "enable runtime:", err)
		os.Exit(1)
	}
	if err := sess.EnableNetwork(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "enable network:", err)
	}

	var out any
	var err error
	switch *command {
	case "evaluate":
		out, err = sess.Evaluate(ctx, *expression, session.EvaluateOptions{})
	case "list-requests":
		out = sess.Network().GetAll()
	case "debug-state":
		out = sess.Debug().ToJSON()
	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd:", *command)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
