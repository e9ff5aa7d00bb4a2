package weekday

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ScheduleData is the part of the /schedule payload the prober reads.
type ScheduleData struct {
	CurrentFilter *CurrentFilter `json:"current_filter"`
	Schedule      *Schedule      `json:"schedule"`
}

// DecodeScheduleData reads current_filter and schedule from a /schedule
// payload. The keys are decoded independently: a malformed one is reported
// in the joined error while the other is still returned.
func DecodeScheduleData(payload json.RawMessage) (ScheduleData, error) {
	var data ScheduleData

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return data, fmt.Errorf("decode schedule payload: %w", err)
	}

	var errs []error
	if raw, ok := fields["current_filter"]; ok && !isNull(raw) {
		var f CurrentFilter
		if err := json.Unmarshal(raw, &f); err != nil {
			errs = append(errs, fmt.Errorf("decode current_filter: %w", err))
		} else {
			data.CurrentFilter = &f
		}
	}
	if raw, ok := fields["schedule"]; ok && !isNull(raw) {
		var sched Schedule
		if err := json.Unmarshal(raw, &sched); err != nil {
			errs = append(errs, err)
		} else {
			data.Schedule = &sched
		}
	}
	return data, errors.Join(errs...)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// CurrentFilter echoes how the backend resolved the weekday parameter.
type CurrentFilter struct {
	WeekdayParam json.RawMessage `json:"weekday_param"`
	ChineseName  *string         `json:"chinese_name"`
	// The backend has shipped both field names.
	ParsedWeekday       *int `json:"parsed_weekday"`
	ParsedWeekdayNumber *int `json:"parsed_weekday_number"`
}

// Param renders the echoed parameter; null or missing prints as None.
func (f *CurrentFilter) Param() string {
	raw := bytes.TrimSpace(f.WeekdayParam)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "None"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Name returns the resolved display name, or 未知 when absent.
func (f *CurrentFilter) Name() string {
	if f.ChineseName == nil {
		return "未知"
	}
	return *f.ChineseName
}

// Day returns the resolved day number, or 0 when absent.
func (f *CurrentFilter) Day() int {
	switch {
	case f.ParsedWeekday != nil:
		return *f.ParsedWeekday
	case f.ParsedWeekdayNumber != nil:
		return *f.ParsedWeekdayNumber
	default:
		return 0
	}
}

// Schedule maps a day label to the videos scheduled on that day.
type Schedule map[string][]json.RawMessage

// UnmarshalJSON accepts the usual object form as well as a plain array,
// which is what the backend emits when its day keys happen to be 0-based.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var days [][]json.RawMessage
		if err := json.Unmarshal(trimmed, &days); err != nil {
			return fmt.Errorf("decode schedule array: %w", err)
		}
		out := make(Schedule, len(days))
		for i, videos := range days {
			out[strconv.Itoa(i)] = videos
		}
		*s = out
		return nil
	}

	var days map[string][]json.RawMessage
	if err := json.Unmarshal(trimmed, &days); err != nil {
		return fmt.Errorf("decode schedule: %w", err)
	}
	*s = days
	return nil
}

// DayCount is the number of videos on one day.
type DayCount struct {
	Label string
	Count int
}

// Total sums video counts across all days.
func (s Schedule) Total() int {
	total := 0
	for _, videos := range s {
		total += len(videos)
	}
	return total
}

// Days returns per-day counts ordered by day. Numeric labels sort
// numerically and come before any non-numeric ones.
func (s Schedule) Days() []DayCount {
	out := make([]DayCount, 0, len(s))
	for label, videos := range s {
		out = append(out, DayCount{Label: label, Count: len(videos)})
	}
	sort.Slice(out, func(i, j int) bool {
		a, errA := strconv.Atoi(out[i].Label)
		b, errB := strconv.Atoi(out[j].Label)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return out[i].Label < out[j].Label
		}
	})
	return out
}
