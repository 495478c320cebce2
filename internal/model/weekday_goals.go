package model

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// WeekdayGoals maps a day of week (Sunday=0) to a target problem count.
// A missing day means "no override" and falls back to the plan's daily goal.
type WeekdayGoals map[time.Weekday]int

// UniformGoals returns the same goal for all seven days.
func UniformGoals(perDay int) WeekdayGoals {
	goals := make(WeekdayGoals, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		goals[d] = perDay
	}
	return goals
}

// Get returns the goal for day and whether the map has an entry for it.
func (g WeekdayGoals) Get(day time.Weekday) (int, bool) {
	v, ok := g[day]
	return v, ok
}

// Sum is the weekly total of all entries. Non-negative totals saturate at
// math.MaxInt instead of wrapping.
func (g WeekdayGoals) Sum() int {
	total := 0
	for _, v := range g {
		if v > 0 && total > math.MaxInt-v {
			return math.MaxInt
		}
		total += v
	}
	return total
}

// Validate checks that every key is a weekday and every value is non-negative.
func (g WeekdayGoals) Validate() error {
	for day, v := range g {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("%w: weekday %d out of range 0-6", ErrInvalidInput, day)
		}
		if v < 0 {
			return fmt.Errorf("%w: negative goal %d for %s", ErrInvalidInput, v, day)
		}
	}
	return nil
}

// MarshalJSON writes the map keyed by "0".."6" in weekday order.
func (g WeekdayGoals) MarshalJSON() ([]byte, error) {
	if g == nil {
		return []byte("null"), nil
	}
	days := make([]int, 0, len(g))
	for d := range g {
		days = append(days, int(d))
	}
	sort.Ints(days)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, d := range days {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%q:%d", strconv.Itoa(d), g[time.Weekday(d)])
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

// UnmarshalJSON accepts the serialized form produced by MarshalJSON.
// Null entries are dropped.
func (g *WeekdayGoals) UnmarshalJSON(data []byte) error {
	parsed, err := ParseWeekdayGoals(data)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// ParseWeekdayGoals decodes a serialized weekday map keyed by the integers 0-6.
// Empty input and JSON null decode to a nil map.
func ParseWeekdayGoals(raw []byte) (WeekdayGoals, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var entries map[string]*int
	if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
		return nil, fmt.Errorf("%w: weekday goals: %v", ErrInvalidInput, err)
	}

	goals := make(WeekdayGoals, len(entries))
	for key, value := range entries {
		day, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("%w: weekday key %q is not an integer", ErrInvalidInput, key)
		}
		if value == nil {
			continue
		}
		goals[time.Weekday(day)] = *value
	}
	if err := goals.Validate(); err != nil {
		return nil, err
	}
	return goals, nil
}
