package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/UnicornXOS/bl1nk-web-portal/app"
	"github.com/UnicornXOS/bl1nk-web-portal/config"
	"github.com/UnicornXOS/bl1nk-web-portal/database"
	"github.com/UnicornXOS/bl1nk-web-portal/utils"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bl1nk",
		Short:         "bl1nk content portal API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), seedCmd())
	return root
}

// bootstrap loads config, the logger and the database shared by every command.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := utils.InitLogger(cfg.LogDir, cfg.Debug); err != nil {
		return nil, nil, err
	}
	db, err := utils.OpenDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	utils.Log.Info("database connected", zap.String("driver", cfg.DBDriver))
	return cfg, db, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer utils.SyncLogger()
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
			utils.Log.Info("migration complete")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample agents and agent profiles into empty tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer utils.SyncLogger()
			return seed(cfg, db)
		},
	}
}

func seed(cfg *config.Config, db *gorm.DB) error {
	if err := database.SeedAgents(db, cfg.AgentSeedPath); err != nil {
		return fmt.Errorf("failed to seed agents: %w", err)
	}
	if err := database.SeedAgentProfiles(db); err != nil {
		return fmt.Errorf("failed to seed agent profiles: %w", err)
	}
	utils.Log.Info("seed complete")
	return nil
}

func serveCmd() *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer utils.SyncLogger()
			gin.SetMode(cfg.GinMode)

			if !skipMigrate {
				if err := database.Migrate(db); err != nil {
					return fmt.Errorf("failed to migrate: %w", err)
				}
				if err := seed(cfg, db); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rdb, err := utils.OpenRedis(ctx, cfg)
			if err != nil {
				return err
			}
			if rdb == nil {
				utils.Log.Warn("REDIS_ADDR not set: caching, chat rate limiting and token revocation are disabled")
			} else {
				defer rdb.Close()
			}

			a, err := app.New(cfg, db, rdb, utils.Log, app.Options{})
			if err != nil {
				return err
			}
			if err := a.StartCron(cfg); err != nil {
				return err
			}
			defer a.Stop()

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           a.Router,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				utils.Log.Info("server is running", zap.String("port", cfg.Port))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			utils.Log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not migrate and seed on start")
	return cmd
}
