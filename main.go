package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/aguxez/foodplates/agent"
	"github.com/aguxez/foodplates/api"
	"github.com/aguxez/foodplates/config"
	"github.com/aguxez/foodplates/filewatch"
	"github.com/aguxez/foodplates/logging"
	"github.com/aguxez/foodplates/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "foodplates: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Path(""))
	if err != nil {
		return err
	}
	log := logging.New("foodplates-api", cfg.Log.Level, os.Stdout)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	foods, err := openStore(ctx, cfg.Server, log)
	if err != nil {
		return err
	}
	if c, ok := foods.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Msg("closing store")
			}
		}()
	}

	// Setup description agent
	var describer api.Describer
	if cfg.Agent.Enabled() {
		w, err := agent.NewOpenAI(cfg.Agent, log)
		if err != nil {
			return err
		}
		describer = w
	} else {
		log.Info().Msg("no agent key set, /describe disabled")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(api.NewFoodHandler(foods, describer, log)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore picks postgres when a database URL is configured, otherwise the JSON
// file, which is also watched for hand edits. Empty stores get the CSV seed.
func openStore(ctx context.Context, cfg config.ServerConfig, log zerolog.Logger) (store.FoodStore, error) {
	var foods store.FoodStore
	if cfg.DatabaseURL != "" {
		db, err := store.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		foods = db
		log.Info().Msg("using postgres store")
	} else {
		file, err := store.OpenJSONFile(cfg.DBPath, log)
		if err != nil {
			return nil, err
		}
		foods = file
		log.Info().Str("path", cfg.DBPath).Msg("using json file store")

		if cfg.Watch {
			fw, err := filewatch.NewFileWatcher(cfg.DBPath, file, log)
			if err != nil {
				return nil, err
			}
			go func() {
				defer fw.Close()
				fw.Watch(ctx)
			}()
		}
	}

	if cfg.SeedPath == "" {
		return foods, nil
	}
	if _, err := os.Stat(cfg.SeedPath); err != nil {
		log.Debug().Str("path", cfg.SeedPath).Msg("no seed file")
		return foods, nil
	}
	plates, err := filewatch.ParseFoods(cfg.SeedPath)
	if err != nil {
		return nil, err
	}
	n, err := store.Seed(ctx, foods, plates)
	if err != nil {
		return nil, fmt.Errorf("seeding store: %w", err)
	}
	if n > 0 {
		log.Info().Int("count", n).Str("path", cfg.SeedPath).Msg("seeded food plates")
	}
	return foods, nil
}
