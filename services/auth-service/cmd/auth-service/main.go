package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/config"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/handler"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/islamic-app-api/shared/auth"
	"github.com/vasapolrittideah/islamic-app-api/shared/discovery"
	"github.com/vasapolrittideah/islamic-app-api/shared/health"
	"github.com/vasapolrittideah/islamic-app-api/shared/logger"
	"github.com/vasapolrittideah/islamic-app-api/shared/mailer"
	"github.com/vasapolrittideah/islamic-app-api/shared/security"
)

const (
	serviceName     = "auth-service"
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := connectMongo(ctx, cfg.Mongo, log)
	userRepo := repository.NewUserMongoRepository(ctx, log, client.Database(cfg.Mongo.Database))

	hasher, err := security.NewPasswordHasher(cfg.Password.Algorithm, cfg.Password.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create password hasher")
	}

	deps := usecase.Deps{
		UserRepo: userRepo,
		Hasher:   hasher,
		JWTAuth:  auth.NewJWTAuthenticator(cfg.Token.Issuer, cfg.Token.Secret, cfg.Token.SessionExpiresIn),
		Mailer:   mailer.NewMailer(cfg.SMTP, log),
		Config:   cfg,
		Logger:   log,
	}

	httpServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: handler.NewRouter(handler.RouterParams{
			Config:               cfg,
			Logger:               log,
			AuthUsecase:          usecase.NewAuthUsecase(deps),
			VerificationUsecase:  usecase.NewVerificationUsecase(deps),
			PasswordResetUsecase: usecase.NewPasswordResetUsecase(deps),
			AccountUsecase:       usecase.NewAccountUsecase(deps),
			Pinger:               userRepo,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("environment", cfg.Environment).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var healthServer *health.Server
	if cfg.GRPCHealthAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCHealthAddr)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.GRPCHealthAddr).Msg("failed to listen for gRPC health")
		}

		healthServer = health.NewServer(log)
		go func() {
			if err := healthServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc health server: %w", err)
			}
		}()
	}

	var registrar *discovery.ConsulRegistrar
	if cfg.ConsulAddr != "" {
		registrar = registerWithConsul(cfg, log)
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if registrar != nil {
		if err := registrar.Deregister(); err != nil {
			log.Warn().Err(err).Msg("failed to deregister from consul")
		}
	}
	if healthServer != nil {
		healthServer.Stop()
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down HTTP server gracefully")
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to disconnect from MongoDB")
	}

	log.Info().Msg("shutdown complete")
}

func connectMongo(ctx context.Context, cfg config.MongoConfig, log *zerolog.Logger) *mongo.Client {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create MongoDB client")
	}

	pingCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}

	log.Info().Str("database", cfg.Database).Msg("connected to MongoDB")
	return client
}

func registerWithConsul(cfg *config.AuthServiceConfig, log *zerolog.Logger) *discovery.ConsulRegistrar {
	host, portStr, err := net.SplitHostPort(cfg.HTTPAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.HTTPAddr).Msg("invalid HTTP_ADDR")
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.HTTPAddr).Msg("invalid HTTP_ADDR port")
	}
	if host == "" {
		if host, err = os.Hostname(); err != nil {
			log.Fatal().Err(err).Msg("failed to resolve hostname")
		}
	}

	registrar, err := discovery.NewConsulRegistrar(cfg.ConsulAddr, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create consul registrar")
	}

	err = registrar.Register(discovery.Registration{
		Name:        serviceName,
		Address:     host,
		Port:        port,
		HealthCheck: fmt.Sprintf("http://%s/api/health", net.JoinHostPort(host, portStr)),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register with consul")
	}

	return registrar
}
