package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-planner/internal/config"
	"study-planner/internal/logger"
	"study-planner/internal/repository"
	"study-planner/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "studyplanner",
	Short: "Plan textbook work week by week and track pace against the plan",
	Long: `Study planner sizes textbook plans from weekday goals, tracks logged
work against a linear pace, and lays plans and exams out on one timeline.

Run "studyplanner serve" for the HTTP API and the Telegram bot.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the wired dependencies shared by the commands.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	db     *gorm.DB

	subscribers *repository.SubscriberRepository
	exams       *repository.ExamRepository

	catalog  *service.CatalogService
	plans    *service.PlanService
	progress *service.ProgressService
	timeline *service.TimelineService
	tasks    *service.TaskService
	examSvc  *service.ExamService
	reminder *service.ReminderService
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.LogLevel, cfg.LogPath)

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("db: %w", err)
	}

	textbookRepo := repository.NewTextbookRepository(db)
	universityRepo := repository.NewUniversityRepository(db)
	planRepo := repository.NewPlanRepository(db)
	logRepo := repository.NewLogRepository(db)
	examRepo := repository.NewExamRepository(db)

	a := &app{
		cfg:         cfg,
		logger:      log,
		db:          db,
		subscribers: repository.NewSubscriberRepository(db),
		exams:       examRepo,
		catalog:     service.NewCatalogService(textbookRepo, universityRepo),
		plans:       service.NewPlanService(planRepo, textbookRepo, log),
		progress:    service.NewProgressService(planRepo, textbookRepo, logRepo, log),
		timeline:    service.NewTimelineService(planRepo, examRepo, logRepo, log),
		tasks:       service.NewTaskService(planRepo, textbookRepo, logRepo),
		examSvc:     service.NewExamService(examRepo),
	}
	a.reminder = service.NewReminderService(a.tasks, a.progress, examRepo)
	return a, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.logger.Sync()
}
