package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/tenanto/internal/api"
	"github.com/terraincognita07/tenanto/internal/cli"
	"github.com/terraincognita07/tenanto/internal/i18n"
	"github.com/terraincognita07/tenanto/internal/logging"
	"github.com/terraincognita07/tenanto/internal/services"
	"go.uber.org/zap"
)

const serviceName = "tenanto"

func main() {
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Rental units, tenants and rent ledger service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		serveCmd(),
		importCmd(),
		exportCmd(),
		resetPasswordCmd(),
	)
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <dump.json>",
		Short: "Load a browser storage dump into the configured storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replace, _ := cmd.Flags().GetBool("replace")
			return withStorage(cmd.Context(), func(ctx context.Context, kv services.KeyValueStore, _ *services.Stores) error {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open dump: %w", err)
				}
				defer file.Close()

				count, err := cli.ImportDump(ctx, kv, file, replace)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d keys from %s\n", count, args[0])
				return nil
			})
		},
	}
	cmd.Flags().Bool("replace", false, "delete stored keys that are not in the dump")
	return cmd
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <dump.json>",
		Short: "Write every stored key as a browser storage dump (\"-\" for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd.Context(), func(ctx context.Context, kv services.KeyValueStore, _ *services.Stores) error {
				var writer io.Writer = cmd.OutOrStdout()
				if args[0] != "-" {
					file, err := os.Create(args[0])
					if err != nil {
						return fmt.Errorf("create dump: %w", err)
					}
					defer file.Close()
					writer = file
				}

				count, err := cli.ExportDump(ctx, kv, writer)
				if err != nil {
					return err
				}
				if args[0] != "-" {
					fmt.Fprintf(cmd.OutOrStdout(), "Exported %d keys to %s\n", count, args[0])
				}
				return nil
			})
		},
	}
}

func resetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <email>",
		Short: "Replace an account password with a temporary one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd.Context(), func(ctx context.Context, _ services.KeyValueStore, stores *services.Stores) error {
				return cli.RunResetPasswordCommand(ctx, stores.Sessions, args[0], cmd.OutOrStdout())
			})
		},
	}
}

func withStorage(ctx context.Context, fn func(ctx context.Context, kv services.KeyValueStore, stores *services.Stores) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	config, err := resolveStorage()
	if err != nil {
		return err
	}
	kv, closeStorage, err := openStorage(ctx, config, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	return fn(ctx, kv, services.NewStores(kv, logger))
}

func runServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	location := resolveLocation()
	time.Local = location

	secretKey, err := resolveSecretKey()
	if err != nil {
		return err
	}
	port, err := resolvePort()
	if err != nil {
		return err
	}
	cookieSecure, err := resolveCookieSecure()
	if err != nil {
		return err
	}
	config, err := resolveStorage()
	if err != nil {
		return err
	}

	kv, closeStorage, err := openStorage(ctx, config, logger)
	if err != nil {
		return fmt.Errorf("storage init failed: %w", err)
	}
	defer func() {
		if err := closeStorage(); err != nil {
			logger.Warn("close storage failed", zap.Error(err))
		}
	}()

	stores := services.NewStores(kv, logger)
	if _, _, err := stores.Units.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed default units: %w", err)
	}

	i18nManager, err := i18n.NewManager(getEnv("DEFAULT_LANGUAGE", i18n.LangEN))
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	handler, err := api.NewHandler(stores, secretKey, location, i18nManager, cookieSecure, logger)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := newServer(handler)

	sigCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("tenanto listening",
		zap.String("addr", "0.0.0.0:"+port),
		zap.String("storage", describeStorage(config)),
		zap.String("tz", location.String()),
	)
	if err := app.Listen(":" + port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newServer(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Tenanto",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)
	return app
}

func newLogger() (*zap.Logger, error) {
	logger, err := logging.New(os.Getenv("LOG_LEVEL"), getEnv("LOG_FORMAT", logging.FormatJSON), serviceName)
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}
	return logger, nil
}
