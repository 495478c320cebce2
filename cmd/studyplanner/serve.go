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

	"study-planner/internal/api"
	"study-planner/internal/bot"
	"study-planner/internal/service"
)

const (
	shutdownTimeout = 10 * time.Second
	digestTimeout   = 30 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, and the Telegram bot when a token is configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func (a *app) serve(ctx context.Context) error {
	gin.SetMode(a.cfg.GinMode)
	handler := api.NewHandler(api.Services{
		Catalog:  a.catalog,
		Plans:    a.plans,
		Progress: a.progress,
		Timeline: a.timeline,
		Tasks:    a.tasks,
		Exams:    a.examSvc,
	}, a.cfg.Location(), a.logger)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           api.NewRouter(handler, a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if a.cfg.BotEnabled() {
		stopBot, err := a.startBot(ctx, errCh)
		if err != nil {
			return err
		}
		defer stopBot()
	} else {
		a.logger.Info("TELEGRAM_TOKEN not set, bot and daily digest disabled")
	}

	a.logger.Info("Study planner started")
	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("HTTP shutdown", zap.Error(err))
	}
	a.logger.Info("Shutdown complete")
	return runErr
}

// startBot starts polling and schedules the daily digest. The returned func
// stops the scheduler.
func (a *app) startBot(ctx context.Context, errCh chan<- error) (func(), error) {
	telegramBot, err := bot.New(a.cfg.TelegramToken, bot.Services{
		Subscribers: a.subscribers,
		Catalog:     a.catalog,
		Progress:    a.progress,
		Timeline:    a.timeline,
		Tasks:       a.tasks,
		Reminder:    a.reminder,
	}, a.cfg.Location(), a.logger)
	if err != nil {
		return nil, fmt.Errorf("bot: %w", err)
	}

	scheduler := service.NewSchedulerService(a.cfg.Location())
	id, err := scheduler.ScheduleDaily(a.cfg.DigestTime, func() {
		jobCtx, cancel := context.WithTimeout(ctx, digestTimeout)
		defer cancel()
		if err := telegramBot.SendDailyDigests(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("Daily digest failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule digest: %w", err)
	}
	scheduler.Start()
	a.logger.Info("Daily digest scheduled",
		zap.String("at", a.cfg.DigestTime),
		zap.String("timezone", a.cfg.Timezone),
		zap.Time("next", scheduler.Next(id)))

	go func() {
		if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("bot stopped: %w", err)
		}
	}()

	return scheduler.Stop, nil
}
