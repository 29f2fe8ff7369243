package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tonotes/config"
	"tonotes/handler"
	"tonotes/logger"
	"tonotes/repository"
	"tonotes/usecase"
	"tonotes/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type notesStore interface {
	usecase.NotesRepository
	handler.Pinger
}

type stores struct {
	notes notesStore
	users usecase.UsersRepository
	close func()
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Parse(configPath)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := logger.Init(os.Stdout, cfg.Log.Level, cfg.Log.Pretty); err != nil {
		return err
	}
	gin.SetMode(gin.ReleaseMode)

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	notesService := usecase.NewNotesService(st.notes, st.users)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           setupRouter(cfg, notesService, st.notes),
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info(ctx, "server starting",
			slog.String("addr", cfg.HTTP.Addr),
			slog.String("storage", cfg.StorageDriver),
			slog.Bool("auth", cfg.JWT.SecretKey != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Info(context.Background(), "shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info(context.Background(), "server stopped")
	return nil
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	var (
		st      stores
		closers []func()
	)
	st.close = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.StorageDriver {
	case config.StorageMemory:
		notes := repository.NewMemoryNotesRepo()
		notes.Unique = cfg.NotesUniqueIndex
		users := repository.NewMemoryUserRepo()
		for _, name := range cfg.Memory.SeedUsers {
			u := users.AddUser(name)
			logger.Info(ctx, "seeded user", slog.String("username", u.Username), logger.UserID(u.ID))
		}
		st.notes = notes
		st.users = users

	default:
		client, err := utils.NewMongoClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		closers = append(closers, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn(context.Background(), "disconnect mongodb", logger.Err(err))
			}
		})

		notes := repository.GetNotesRepo(client, cfg.Mongo.DatabaseName, cfg.Mongo.NotesCollection)
		if err := repository.SetupIndexes(ctx, notes.MongoCollection, cfg.NotesUniqueIndex); err != nil {
			st.close()
			return nil, err
		}
		st.notes = notes

		users := repository.GetUserRepo(client, cfg.Mongo.DatabaseName, cfg.Mongo.UsersCollection)
		if cfg.Redis.URL == "" {
			st.users = users
			break
		}

		rdb, err := utils.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			st.close()
			return nil, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		st.users = repository.NewCachedUserRepo(users, rdb, cfg.Redis.UsernameTTL)
		logger.Info(ctx, "username cache enabled", slog.Duration("ttl", cfg.Redis.UsernameTTL))
	}

	return &st, nil
}
