package service

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"study-planner/internal/config"
)

// SchedulerService fires the daily digest at a wall-clock time in the
// planner's timezone, so "07:30" follows local DST changes.
type SchedulerService struct {
	cron *cron.Cron
}

// NewSchedulerService reads digest times in loc.
func NewSchedulerService(loc *time.Location) *SchedulerService {
	return &SchedulerService{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// ScheduleDaily registers digest to run once a day at clock (HH:MM, the
// DIGEST_TIME format). Jobs only fire after Start.
func (s *SchedulerService) ScheduleDaily(clock string, digest func()) (cron.EntryID, error) {
	spec, err := buildDailySpec(clock)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, digest)
}

// Next reports when the digest id fires next. It is zero until Start.
func (s *SchedulerService) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

// Stop blocks until a digest that is already sending has finished.
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func buildDailySpec(clock string) (string, error) {
	hour, minute, err := config.ParseClock(clock)
	if err != nil {
		return "", err
	}
	// second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
