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

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/meditrack/api/internal/config"
	"github.com/meditrack/api/internal/domain/appointment"
	"github.com/meditrack/api/internal/domain/directory"
	"github.com/meditrack/api/internal/domain/identity"
	"github.com/meditrack/api/internal/platform/auth"
	"github.com/meditrack/api/internal/platform/db"
	"github.com/meditrack/api/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "meditrack-server",
		Short: "MediTrack appointment API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// seedDoctor is one entry of the demo roster installed by the seed command.
type seedDoctor struct {
	name       string
	email      string
	department string
}

var seedRoster = []seedDoctor{
	{"Dr. Naresh Trehan", "naresh.trehan@example.com", "Cardiology"},
	{"Dr. Ashok Rajgopal", "ashok.rajgopal@example.com", "Orthopedics"},
	{"Dr. Arvinder Singh Soin", "arvinder.soin@example.com", "Gastroenterology"},
	{"Dr. R. P. Singh", "rp.singh@example.com", "Neurology"},
	{"Dr. Hema Divakar", "hema.divakar@example.com", "Gynecology"},
	{"Dr. K. K. Aggarwal", "kk.aggarwal@example.com", "Internal Medicine"},
	{"Dr. Suresh Advani", "suresh.advani@example.com", "Oncology"},
	{"Dr. A. Velumani", "a.velumani@example.com", "Pathology"},
	{"Dr. Sandeep Arora", "sandeep.arora@example.com", "Pediatrics"},
	{"Dr. Rashmi Shetty", "rashmi.shetty@example.com", "Dermatology"},
	{"Dr. Samir Parikh", "samir.parikh@example.com", "Psychiatry"},
	{"Dr. Arvind Kumar", "arvind.kumar@example.com", "Pulmonology"},
	{"Dr. Ambrish Mithal", "ambrish.mithal@example.com", "Endocrinology"},
	{"Dr. Anita Sethi", "anita.sethi@example.com", "Ophthalmology"},
	{"Dr. Neha Gupta", "neha.gupta@example.com", "Dentistry"},
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the demo doctor roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret), time.Duration(cfg.TokenTTLHours)*time.Hour)
			svc := identity.NewService(identity.NewUserRepoPG(pool), issuer)

			created := 0
			for _, d := range seedRoster {
				_, _, err := svc.Register(ctx, identity.RegisterInput{
					Name:       d.name,
					Email:      d.email,
					Password:   password,
					Role:       auth.RoleDoctor,
					Department: d.department,
				})
				if errors.Is(err, identity.ErrEmailTaken) {
					continue
				}
				if err != nil {
					return fmt.Errorf("seed %s: %w", d.email, err)
				}
				created++
			}

			fmt.Printf("Seeded %d doctor(s), %d already present.\n", created, len(seedRoster)-created)
			return nil
		},
	}
	cmd.Flags().String("password", "changeme", "Password assigned to seeded accounts")
	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Domain wiring
	issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret), time.Duration(cfg.TokenTTLHours)*time.Hour)
	userRepo := identity.NewUserRepoPG(pool)
	identitySvc := identity.NewService(userRepo, issuer)
	identityHandler := identity.NewHandler(identitySvc)

	apptRepo := appointment.NewRepoPG(pool)
	apptSvc := appointment.NewService(apptRepo, identitySvc)
	apptHandler := appointment.NewHandler(apptSvc)

	directorySvc := directory.NewService(userRepo)
	directoryHandler := directory.NewHandler(directorySvc)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// API groups
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	authed := e.Group("/api/v1")
	authed.Use(middleware.RateLimit(rateLimitCfg))
	authed.Use(auth.Middleware(issuer, identitySvc))

	// Routes
	identityHandler.RegisterRoutes(apiV1, authed)
	apptHandler.RegisterRoutes(authed)
	directoryHandler.RegisterRoutes(authed)

	// Health check
	e.GET("/health", db.HealthHandler(pool))

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
