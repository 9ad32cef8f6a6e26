// kitchen-display is a headless kitchen board: it logs in with a kitchen
// account, follows the store's kitchen topic, and logs every board change.
// Wall-mounted displays tail its output; Prometheus scrapes its metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qrorder-vn/qrorder-client/internal/kitchen"
	"github.com/qrorder-vn/qrorder-client/internal/realtime"
	"github.com/qrorder-vn/qrorder-client/internal/rest"
	"github.com/qrorder-vn/qrorder-client/internal/session"
	"github.com/qrorder-vn/qrorder-client/pkg/config"
	"github.com/qrorder-vn/qrorder-client/pkg/logger"
	"github.com/qrorder-vn/qrorder-client/pkg/metrics"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "kitchen-display"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "kitchen-display",
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
	sess, err := session.Login(ctx, client, session.ViewKitchen, cfg.Auth.Username, cfg.Auth.Password)
	requireResource(ctx, logg, "kitchen session", err)
	defer sess.Logout()

	registry := prometheus.NewRegistry()
	channelMetrics := metrics.NewChannelMetrics(registry)

	conn := realtime.New(realtime.Options{
		URL:              rest.WebsocketURL(channelBase),
		ReconnectDelay:   cfg.Realtime.ReconnectDelay,
		HandshakeTimeout: cfg.Realtime.HandshakeTimeout,
		Logger:           logg,
		Metrics:          channelMetrics,
	})
	sess.Own(conn)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithStoreID(runCtx, sess.StoreID())

	requireResource(runCtx, logg, "push channel", conn.Connect(runCtx))

	board, err := kitchen.NewController(sess, conn, logg, channelMetrics)
	requireResource(runCtx, logg, "kitchen controller", err)

	requireResource(runCtx, logg, "kitchen snapshot", board.Load(runCtx))
	requireResource(runCtx, logg, "kitchen subscription", board.Start(runCtx))

	if cfg.Metrics.Addr != "" {
		go serveMetrics(runCtx, logg, cfg.Metrics.Addr, registry)
	}

	logg.Info(runCtx, "kitchen display ready")
	run(runCtx, logg, board)
}

// run logs the board whenever its shape changes, until interrupted.
func run(ctx context.Context, logg *logger.Logger, board *kitchen.Controller) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	lastSize, lastPending := -1, -1
	for {
		select {
		case <-ctx.Done():
			logg.Info(ctx, "kitchen display stopping")
			return
		case <-ticker.C:
			orders := board.Board()
			pending := board.PendingCount()
			if len(orders) == lastSize && pending == lastPending {
				continue
			}
			lastSize, lastPending = len(orders), pending
			logg.Info(logg.WithFields(ctx, map[string]any{
				"orders":  len(orders),
				"pending": pending,
			}), "kitchen board changed")
		}
	}
}

func serveMetrics(ctx context.Context, logg *logger.Logger, addr string, registry *prometheus.Registry) {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logg.Info(ctx, fmt.Sprintf("metrics listening on %s", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "metrics server failed", err)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
