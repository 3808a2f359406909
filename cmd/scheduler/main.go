// Command scheduler moves or resizes an appointment from the command line,
// driving the same gesture engine the calendar UI uses: conflict check,
// optimistic apply, remote update, commit or rollback.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/clinicdesk/scheduling/internal/clinicapi"
	"github.com/clinicdesk/scheduling/internal/config"
	"github.com/clinicdesk/scheduling/internal/observability/metrics"
	"github.com/clinicdesk/scheduling/internal/scheduling"
	"github.com/clinicdesk/scheduling/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	var (
		appointmentArg = flag.String("appointment", "", "appointment id to move or resize")
		doctorArg      = flag.String("doctor", "", "doctor whose calendar is loaded")
		targetArg      = flag.String("to", "", "target day for a move (YYYY-MM-DD)")
		resizeArg      = flag.Float64("resize", 0, "resize drag delta in units")
	)
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	appointmentID, err := uuid.Parse(*appointmentArg)
	if err != nil {
		fatal(logger, "a valid -appointment id is required", err)
	}
	doctorID, err := uuid.Parse(*doctorArg)
	if err != nil {
		fatal(logger, "a valid -doctor id is required", err)
	}
	if *targetArg == "" && *resizeArg == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if cfg.ClinicAPIBaseURL == "" {
		fatal(logger, "CLINIC_API_BASE_URL is required", nil)
	}

	ctx := context.Background()
	client := clinicapi.NewClient(cfg.ClinicAPIBaseURL, cfg.ClinicAPIKey, logger)

	var checker scheduling.ConflictChecker = client
	var updater scheduling.Updater = client
	if cfg.RedisAddr != "" {
		redisOpts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, conflict caching disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			cache := clinicapi.NewConflictCache(client, client, redisClient, cfg.ConflictCacheTTL, logger)
			checker, updater = cache, cache
		}
	}

	// Load a month around today so both the origin and target days are local.
	now := time.Now().UTC()
	appts, err := client.ListAppointments(ctx, doctorID, now.AddDate(0, 0, -31), now.AddDate(0, 0, 31))
	if err != nil {
		fatal(logger, "failed to load calendar", err)
	}
	collection := scheduling.NewCollection()
	collection.Load(appts)

	coordinator := scheduling.NewCoordinator(scheduling.CoordinatorConfig{
		Collection:     collection,
		Checker:        checker,
		Updater:        updater,
		Hours:          scheduling.WorkingHours{StartHour: cfg.WorkdayStartHour, EndHour: cfg.WorkdayEndHour},
		MinutesPerUnit: cfg.ResizeMinutesPerUnit,
		Metrics:        metrics.NewSchedulingMetrics(prometheus.NewRegistry()),
		Logger:         logger,
	})

	var outcome scheduling.Outcome
	if *targetArg != "" {
		targetDay, err := time.Parse(time.DateOnly, *targetArg)
		if err != nil {
			fatal(logger, "invalid -to day, want YYYY-MM-DD", err)
		}
		if err := coordinator.BeginDrag(ctx, appointmentID); err != nil {
			fatal(logger, "cannot start move", err)
		}
		outcome, err = coordinator.CompleteDrag(ctx, appointmentID, targetDay)
		if err != nil {
			fatal(logger, "move failed", err)
		}
	} else {
		if err := coordinator.BeginResize(ctx, appointmentID); err != nil {
			fatal(logger, "cannot start resize", err)
		}
		outcome, err = coordinator.CompleteResize(ctx, appointmentID, *resizeArg)
		if err != nil {
			fatal(logger, "resize failed", err)
		}
	}

	switch {
	case outcome.Committed:
		fmt.Printf("committed: %s now %s for %d minutes\n",
			outcome.Appointment.ID,
			outcome.Appointment.StartTime.Format(time.RFC3339),
			outcome.Appointment.DurationMinutes,
		)
	case outcome.NoOp:
		fmt.Printf("nothing to do: %s\n", outcome.Reason)
	default:
		fmt.Println(outcome.Reason)
	}
}

func fatal(logger *logging.Logger, msg string, err error) {
	if err != nil {
		logger.Error(msg, "error", err)
	} else {
		logger.Error(msg)
	}
	os.Exit(1)
}
