package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"study-planner/internal/calendar"
	"study-planner/internal/model"
	"study-planner/internal/planner"
)

var compileFlags struct {
	start      string
	goals      string
	dailyGoal  int
	bufferDays int
	total      int
	days       bool
}

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Size a plan offline and print its end date",
	Example: `  studyplanner compile --start 2024-04-01 --total 300 --goals '{"0":5,"1":10,"2":10,"3":10,"4":10,"5":10,"6":5}'
  studyplanner compile --start 2024-04-01 --total 120 --daily 8 --buffer 3 --days`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := calendar.Parse(compileFlags.start)
		if err != nil {
			return err
		}
		var goals model.WeekdayGoals
		if compileFlags.goals != "" {
			goals, err = model.ParseWeekdayGoals([]byte(compileFlags.goals))
			if err != nil {
				return fmt.Errorf("--goals: %w", err)
			}
		}
		goals = planner.FillGoals(goals, compileFlags.dailyGoal)

		compiled, err := planner.CompilePlan(start, goals, compileFlags.bufferDays, compileFlags.total)
		if err != nil {
			return err
		}
		return printCompiled(cmd.OutOrStdout(), compiled, compileFlags.days)
	},
}

func init() {
	f := compileCmd.Flags()
	f.StringVar(&compileFlags.start, "start", "", "first day of the plan (YYYY-MM-DD)")
	f.StringVar(&compileFlags.goals, "goals", "", `weekday goals as JSON, keys "0" (Sunday) to "6"`)
	f.IntVar(&compileFlags.dailyGoal, "daily", 0, "goal for every weekday --goals leaves out")
	f.IntVar(&compileFlags.bufferDays, "buffer", 0, "extra days appended after the last full week")
	f.IntVar(&compileFlags.total, "total", 0, "number of problems to cover")
	f.BoolVar(&compileFlags.days, "days", false, "print the target of every day")
	_ = compileCmd.MarkFlagRequired("start")
	_ = compileCmd.MarkFlagRequired("total")
	rootCmd.AddCommand(compileCmd)
}

func printCompiled(w io.Writer, p planner.CompiledPlan, withDays bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Start:\t%s\n", calendar.Format(p.Start))
	fmt.Fprintf(tw, "End:\t%s\n", calendar.Format(p.End))
	fmt.Fprintf(tw, "Problems:\t%d\n", p.TotalProblems)
	fmt.Fprintf(tw, "Per week:\t%d\n", p.WeeklyTotal)
	fmt.Fprintf(tw, "Weeks:\t%d (+%d buffer days)\n", p.WeeksNeeded, p.BufferDays)
	fmt.Fprintf(tw, "Days:\t%d\n", p.TotalDays())
	if withDays {
		fmt.Fprintln(tw)
		for _, d := range p.Days() {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", d.Date, d.Weekday.String()[:3], d.Target)
		}
	}
	return tw.Flush()
}
