package contracts

import (
	"fmt"
	"time"
)

// StrategyID identifies a strategy. Issued by the strategy registry, never parsed.
type StrategyID string

// Weekday is a trading day: 1 (Monday) through 5 (Friday)
// ⭐ SSOT: 주말은 스케줄 대상이 아님
type Weekday int

const (
	Monday    Weekday = 1
	Tuesday   Weekday = 2
	Wednesday Weekday = 3
	Thursday  Weekday = 4
	Friday    Weekday = 5
)

// AllWeekdays lists every schedulable day in order
var AllWeekdays = [...]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// Valid reports whether d is one of the five trading weekdays
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Friday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return time.Weekday(d).String()
}

// WeekdayFromTime converts t to a trading Weekday.
// Returns false on Saturday and Sunday.
func WeekdayFromTime(t time.Time) (Weekday, bool) {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return 0, false
	}
	return Weekday(wd), true
}

// ParseWeekday accepts "1".."5" or an English day name ("mon", "Monday")
func ParseWeekday(s string) (Weekday, error) {
	switch s {
	case "1", "mon", "Mon", "monday", "Monday":
		return Monday, nil
	case "2", "tue", "Tue", "tuesday", "Tuesday":
		return Tuesday, nil
	case "3", "wed", "Wed", "wednesday", "Wednesday":
		return Wednesday, nil
	case "4", "thu", "Thu", "thursday", "Thursday":
		return Thursday, nil
	case "5", "fri", "Fri", "friday", "Friday":
		return Friday, nil
	}
	return 0, fmt.Errorf("invalid weekday %q: expected 1-5 or mon-fri", s)
}

// StrategySchedule says a strategy currently runs on Weekday
type StrategySchedule struct {
	StrategyID StrategyID `json:"strategy_id"`
	Weekday    Weekday    `json:"weekday"`
}

// Weights maps a strategy to its relative execution cost.
// A missing entry counts as zero cost.
type Weights map[StrategyID]float64
