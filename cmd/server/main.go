package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	authhandler "carins/internal/auth/handler"
	authmetrics "carins/internal/auth/metrics"
	authservice "carins/internal/auth/service"
	authstore "carins/internal/auth/store"
	"carins/internal/auth/token"
	httpapi "carins/internal/http"
	"carins/internal/insurance/expiry"
	inshandler "carins/internal/insurance/handler"
	insmetrics "carins/internal/insurance/metrics"
	insservice "carins/internal/insurance/service"
	insstore "carins/internal/insurance/store"
	"carins/internal/platform/config"
	"carins/internal/platform/httpserver"
	"carins/internal/platform/logger"
)

// main wires dependencies and runs the server plus the expiry scanner until a
// shutdown signal arrives. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	var (
		users    authstore.UserStore
		owners   insstore.OwnerStore
		cars     insstore.CarStore
		policies insstore.PolicyStore
		claims   insstore.ClaimStore
		tx       insstore.Tx
	)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Error("cannot open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Error("cannot reach database", "error", err)
			os.Exit(1)
		}

		users = authstore.NewPostgresUserStore(db)
		owners = insstore.NewPostgresOwnerStore(db)
		cars = insstore.NewPostgresCarStore(db)
		policies = insstore.NewPostgresPolicyStore(db)
		claims = insstore.NewPostgresClaimStore(db)
		tx = insstore.NewPostgresTx(db)
		log.Info("using postgres storage")
	} else {
		users = authstore.NewInMemoryUserStore()
		owners = insstore.NewInMemoryOwnerStore()
		cars = insstore.NewInMemoryCarStore()
		policies = insstore.NewInMemoryPolicyStore()
		claims = insstore.NewInMemoryClaimStore()
		tx = insstore.NewInMemoryTx()
		log.Warn("no database configured, using in-memory storage")
	}

	tokens := token.New(cfg.JWTSigningKey, cfg.TokenTTL)

	authSvc := authservice.New(users, authservice.NewBcryptHasher(), authmetrics.New())
	authHandler := authhandler.New(authSvc, tokens, cfg.TokenTTL, log)

	insMetrics := insmetrics.New()
	insSvc := insservice.New(owners, cars, policies, claims, tx, insMetrics, log)
	insHandler := inshandler.New(insSvc, log)

	scanner := expiry.New(policies, cfg.ExpiryScanPeriod, insMetrics, log)

	router := httpapi.NewRouter(authHandler, insHandler, tokens, users, log)
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting carins server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return scanner.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
