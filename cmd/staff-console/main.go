// staff-console is a headless floor monitor: it logs in with a staff
// account, follows the store's staff and kitchen topics, and logs table
// occupancy changes and incoming staff calls.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/qrorder-vn/qrorder-client/internal/realtime"
	"github.com/qrorder-vn/qrorder-client/internal/rest"
	"github.com/qrorder-vn/qrorder-client/internal/session"
	"github.com/qrorder-vn/qrorder-client/internal/staff"
	"github.com/qrorder-vn/qrorder-client/pkg/config"
	"github.com/qrorder-vn/qrorder-client/pkg/enums"
	"github.com/qrorder-vn/qrorder-client/pkg/logger"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "staff-console"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "staff-console",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	apiBase, err := rest.DeriveAPIBase(cfg.Page.Origin)
	requireResource(ctx, logg, "api base", err)
	apiBase, err = rest.ResolveAgainst(cfg.Page.Origin, apiBase)
	requireResource(ctx, logg, "api base", err)

	channelBase, err := rest.ResolveAgainst(cfg.Page.Origin, rest.DeriveChannelBase(apiBase))
	requireResource(ctx, logg, "channel base", err)

	client := rest.NewClient(apiBase, cfg.HTTP.Timeout)
	sess, err := session.Login(ctx, client, session.ViewStaff, cfg.Auth.Username, cfg.Auth.Password)
	requireResource(ctx, logg, "staff session", err)
	defer sess.Logout()

	conn := realtime.New(realtime.Options{
		URL:              rest.WebsocketURL(channelBase),
		ReconnectDelay:   cfg.Realtime.ReconnectDelay,
		HandshakeTimeout: cfg.Realtime.HandshakeTimeout,
		Logger:           logg,
	})
	sess.Own(conn)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithStoreID(runCtx, sess.StoreID())
	runCtx = logg.WithActorRole(runCtx, sess.Role().String())

	requireResource(runCtx, logg, "push channel", conn.Connect(runCtx))

	console, err := staff.NewController(sess, conn, logg)
	requireResource(runCtx, logg, "staff controller", err)

	requireResource(runCtx, logg, "floor snapshot", console.Load(runCtx))
	requireResource(runCtx, logg, "floor subscriptions", console.Start(runCtx))

	logg.Info(runCtx, "staff console ready")
	run(runCtx, logg, console)
}

// run logs occupancy and staff-call changes until interrupted.
func run(ctx context.Context, logg *logger.Logger, console *staff.Controller) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	lastActive, lastCalls := -1, -1
	for {
		select {
		case <-ctx.Done():
			logg.Info(ctx, "staff console stopping")
			return
		case <-ticker.C:
			active := 0
			for _, table := range console.Tables() {
				if table.Status == enums.TableStatusActive {
					active++
				}
			}
			calls := len(console.Notifications())
			if active == lastActive && calls == lastCalls {
				continue
			}
			lastActive, lastCalls = active, calls
			logg.Info(logg.WithFields(ctx, map[string]any{
				"activeTables": active,
				"staffCalls":   calls,
			}), "floor state changed")
		}
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
