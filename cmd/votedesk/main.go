// Command votedesk is the admin console for the voting platform.
package main

import (
	"context"
	"os"
	"os/signal"

	"votedesk/internal/cli"
	"votedesk/internal/platform/config"
	"votedesk/internal/platform/tracer"
	"votedesk/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.FromEnv()
	app := cli.New(os.Stdout, os.Stderr, func(ctx context.Context) (*session.Session, error) {
		return session.New(ctx, cfg, session.WithTracer(tracer.NewOTel()))
	})
	code := app.Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
