package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"study-planner/internal/calendar"
	"study-planner/internal/planner"
)

var reportFlags struct {
	today string
	start string
	end   string
}

var progressCmd = &cobra.Command{
	Use:   "progress [textbookId]",
	Short: "Print progress of one textbook, or of all textbooks",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			today, err := a.todayFlag()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				items, err := a.progress.Overview(cmd.Context(), today)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), items)
			}
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("textbook id: %w", err)
			}
			snap, err := a.progress.Progress(cmd.Context(), uint(id), today)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), snap)
		})
	},
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print plans and exams in chronological order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			var rng planner.Range
			var err error
			if rng.Start, err = optionalDate(reportFlags.start); err != nil {
				return err
			}
			if rng.End, err = optionalDate(reportFlags.end); err != nil {
				return err
			}
			events, err := a.timeline.Timeline(cmd.Context(), rng)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), events)
		})
	},
}

var yearCmd = &cobra.Command{
	Use:   "year [YYYY]",
	Short: "Print per-day totals of logged work for a year",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			year := calendar.Today(a.cfg.Location()).Year()
			if len(args) == 1 {
				var err error
				if year, err = strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("year: %w", err)
				}
			}
			summary, err := a.timeline.Yearly(cmd.Context(), year)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		})
	},
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Print the daily digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			today, err := a.todayFlag()
			if err != nil {
				return err
			}
			text, err := a.reminder.DailySummary(cmd.Context(), today)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{progressCmd, todayCmd} {
		c.Flags().StringVar(&reportFlags.today, "today", "", "evaluate as of this day (YYYY-MM-DD)")
	}
	timelineCmd.Flags().StringVar(&reportFlags.start, "start", "", "first day of the range (YYYY-MM-DD)")
	timelineCmd.Flags().StringVar(&reportFlags.end, "end", "", "last day of the range (YYYY-MM-DD)")

	rootCmd.AddCommand(progressCmd, timelineCmd, yearCmd, todayCmd)
}

func withApp(fn func(a *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func (a *app) todayFlag() (time.Time, error) {
	if reportFlags.today == "" {
		return calendar.Today(a.cfg.Location()), nil
	}
	return calendar.Parse(reportFlags.today)
}

func optionalDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return calendar.Parse(raw)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
