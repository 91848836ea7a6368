package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"collection-merge/core/loader"
	"collection-merge/core/middleware/auth"
	"collection-merge/core/middleware/rayid"
	"collection-merge/core/middleware/requestlog"
	"collection-merge/core/reconcile"
	"collection-merge/feature/merge"
	"collection-merge/feature/prices"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "collection-merge/docs/swagger"
)

// @title Collection Merge API
// @version 1.0
// @description API for merging a content database with a reference sheet and synchronising prices.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the collection merge server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		a, err := bootstrap(ctx, nil)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := a.log
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// Database is optional; without it prices are planned but not applied.
		var store *prices.Store
		if db := a.connectDB(); db != nil {
			store = prices.NewStore(db, a.cfg.Prices.Table)
			if err := store.VerifySchema(); err != nil {
				logg.Warn("Collection table is not usable, price updates disabled", zap.Error(err))
				store = nil
			}
		}

		cache := reconcile.NewMatcherCache(a.cacheTTL())
		mergeSvc := merge.NewService(a.items, a.rows, a.sink, cache, a.strategy, a.opts, logg)
		pricesSvc, err := a.pricesService(store)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             a.cfg.Server.BodyLimit(),
			ReadTimeout:           a.cfg.Server.ReadTimeout(),
		})

		mgr := loader.NewManager(logg)
		mgr.Register(merge.NewFeature(mergeSvc))
		mgr.Register(prices.NewFeature(pricesSvc))

		// RayID must be first to trace everything
		app.Use(rayid.New())
		app.Use(requestlog.New(logg))

		app.Get("/swagger/*", swagger.HandlerDefault)

		if a.cfg.Server.AuthEnabled() {
			logg.Info("API key authentication enabled")
		}
		app.Use(auth.New(auth.Config{
			ApiKey: a.cfg.Server.ApiKey,
			Next:   func(c *fiber.Ctx) bool { return strings.HasPrefix(c.Path(), "/swagger") },
		}))

		if _, err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("address", a.cfg.Server.Address()))
			if err := app.Listen(a.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(a.cfg.Server.ShutdownTimeout()); err != nil {
			logg.Error("Shutdown failed", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
