package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/teerapatc/storefront-auth/internal/config"
	"github.com/teerapatc/storefront-auth/internal/handler"
	"github.com/teerapatc/storefront-auth/internal/notification"
	"github.com/teerapatc/storefront-auth/internal/repository"
	"github.com/teerapatc/storefront-auth/internal/usecase"
	"github.com/teerapatc/storefront-auth/shared/auth"
	"github.com/teerapatc/storefront-auth/shared/mailer"
	"github.com/teerapatc/storefront-auth/shared/provider"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load(&logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	db := client.Database(cfg.MongoDatabase)

	users := repository.NewUserMongoRepository(ctx, &logger, db)
	refreshTokens := repository.NewRefreshTokenMongoRepository(ctx, &logger, db)

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Issuer, cfg.Token.Issuer)
	smtpMailer := mailer.NewMailer(&logger)
	notifier := notification.NewEmailNotifier(smtpMailer, cfg.ClientURL, &logger)
	googleProvider := provider.NewGoogleOAuthProvider(
		cfg.Google.ClientID,
		cfg.Google.ClientSecret,
		cfg.Google.RedirectURL,
	)

	twoFactorUsecase := usecase.NewTwoFactorUsecase(users, refreshTokens, jwtAuth, notifier, cfg.Token, &logger)
	authUsecase := usecase.NewAuthUsecase(users, refreshTokens, twoFactorUsecase, jwtAuth, notifier, cfg.Token, &logger)
	oauthUsecase := usecase.NewOAuthUsecase(users, refreshTokens, googleProvider, jwtAuth, notifier, cfg.Token, &logger)
	passwordUsecase := usecase.NewPasswordUsecase(users, jwtAuth, notifier, cfg.Token, &logger)
	verificationUsecase := usecase.NewVerificationUsecase(users, jwtAuth, notifier, cfg.Token, &logger)

	authHandler := handler.NewAuthHandler(
		authUsecase,
		oauthUsecase,
		twoFactorUsecase,
		passwordUsecase,
		verificationUsecase,
		users,
		jwtAuth,
		cfg,
		&logger,
	)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.NewRouter(authHandler, &logger),
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.Env).Msg("starting HTTP server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down HTTP server")
	}

	logger.Info().Msg("server stopped")
}
