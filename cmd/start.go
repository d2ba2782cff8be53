package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"datasync/core/loader"
	"datasync/core/logger"
	"datasync/core/middleware/auth"
	"datasync/core/middleware/rayid"
	"datasync/feature/contacts"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the synchronization server",
	Long:  `Starts the HTTP server, opens the live views and initializes all enabled features.`,
	RunE:  runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	logg := rt.logger
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	svc, err := rt.contactsService(rt.cfg.Contacts)
	if err != nil {
		return err
	}
	defer svc.Close()

	if rt.cfg.Contacts.Enabled {
		if err := svc.Start(ctx); err != nil {
			return err
		}
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true, // We log our own startup message
	})

	mgr := loader.NewManager()
	mgr.Register(contacts.NewFeature(svc, rt.cfg.Contacts))

	// RayID must be first to trace everything
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

	if err := mgr.LoadAll(app); err != nil {
		return err
	}

	go func() {
		logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
		if err := app.Listen(rt.cfg.Server.Address()); err != nil {
			logg.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logg.Info("Shutting down server...")
	return app.ShutdownWithTimeout(rt.cfg.Server.ShutdownTimeout())
}
