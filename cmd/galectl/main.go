package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/lodgepole/gale/internal/admin"
	"github.com/lodgepole/gale/internal/gateway"
	"github.com/lodgepole/gale/internal/gateway/session"
	"github.com/lodgepole/gale/internal/logging"
	"github.com/lodgepole/gale/internal/observability"
	"github.com/lodgepole/gale/internal/rest"
	"github.com/lodgepole/gale/internal/transport"
)

func main() {
	configPath := flag.String("config", "galectl.toml", "path to client config")
	flag.Parse()

	logging.ConfigureRuntime()
	logger := observability.InitLogger("galectl")

	cfg, err := loadClientConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "galectl: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// One API round trip up front to fail fast on a bad token.
	api := rest.NewClient(cfg.APIBaseURL, cfg.Token, logger)
	var self gateway.User
	if err := api.Do(ctx, http.MethodGet, "/users/@me", nil, &self); err != nil {
		logger.Fatal().Err(err).Msg("token validation failed")
	}
	logger.Info().Str("user_id", string(self.ID)).Str("username", self.Username).
		Msg("authenticated")

	exec := transport.NewExecutor(transport.Config{
		URL:     cfg.GatewayURL,
		Token:   cfg.Token,
		Session: cfg.Session,
	}, logNotifier(logger), logger)

	adminSrv := admin.NewServer(cfg.AdminAddr, cfg.CORSOrigins, exec.Snapshot, logger)
	go func() {
		if err := adminSrv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("admin server stopped")
		}
	}()

	if err := exec.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("gateway executor stopped")
	}
	logger.Info().Msg("shutdown complete")
}

// logNotifier is the default embedding application: it logs every
// guild-scoped notification.
func logNotifier(logger zerolog.Logger) transport.Notifier {
	return func(n session.Notification) {
		switch n := n.(type) {
		case session.MessageNotice:
			logger.Info().
				Str("guild_id", string(n.GuildID)).
				Str("channel_id", string(n.ChannelID)).
				Str("message_id", string(n.Message.ID)).
				Str("author_id", string(n.Message.Author.ID)).
				Msg("message created")
		case session.MessageDeletedNotice:
			logger.Info().
				Str("guild_id", string(n.GuildID)).
				Str("channel_id", string(n.ChannelID)).
				Str("message_id", string(n.MessageID)).
				Msg("message deleted")
		}
	}
}
