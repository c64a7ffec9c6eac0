package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/northsea/kiteschool/internal/app"
	"github.com/northsea/kiteschool/internal/auth"
	"github.com/northsea/kiteschool/internal/config"
	"github.com/northsea/kiteschool/internal/repository"
	"github.com/northsea/kiteschool/internal/service"
	stripecli "github.com/northsea/kiteschool/internal/stripe"
)

// Services bundles the operations exposed to the transport layer, which
// lives outside this module.
type Services struct {
	Auth     *service.AuthService
	Courses  *service.CourseService
	Schedule *service.ScheduleService
	Bookings *service.BookingService
	Payments *service.PaymentService
	Admin    *service.AdminService
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()

	pool, err := app.Connect(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTExpireMin)*time.Minute)
	gateway := stripecli.New(cfg.StripeSecretKey)

	svcs := &Services{
		Auth:     service.NewAuthService(userRepo, tokens, logger),
		Courses:  service.NewCourseService(userRepo, courseRepo, logger),
		Schedule: service.NewScheduleService(userRepo, scheduleRepo, logger),
		Bookings: service.NewBookingService(userRepo, courseRepo, scheduleRepo, bookingRepo, paymentRepo, logger),
		Payments: service.NewPaymentService(userRepo, bookingRepo, paymentRepo, gateway, logger),
		Admin:    service.NewAdminService(userRepo, bookingRepo, paymentRepo, courseRepo, logger),
	}
	_ = svcs

	logger.Info("Booking backend ready",
		zap.String("environment", cfg.Environment),
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
}
