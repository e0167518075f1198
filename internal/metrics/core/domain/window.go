package domain

import (
	"errors"
	"fmt"
	"time"

	records "bot-metrics-service/internal/records/core/domain"
)

var (
	ErrInvalidWindow      = errors.New("invalid window")
	ErrInvalidWindowKind  = errors.New("invalid window kind")
	ErrInvalidRollingDays = errors.New("rolling window days out of range")
)

type WindowKind string

const (
	WindowDay     WindowKind = "day"
	WindowWeek    WindowKind = "week"
	WindowMonth   WindowKind = "month"
	WindowRolling WindowKind = "rolling"
	WindowCustom  WindowKind = "custom"
)

func ParseWindowKind(s string) (WindowKind, error) {
	switch k := WindowKind(s); k {
	case WindowDay, WindowWeek, WindowMonth, WindowRolling, WindowCustom:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWindowKind, s)
}

// DateWindow is an inclusive range of calendar days.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

func NewDateWindow(start, end time.Time) (DateWindow, error) {
	start, end = Day(start), Day(end)
	if start.After(end) {
		return DateWindow{}, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidWindow, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return DateWindow{Start: start, End: end}, nil
}

// Days is the number of calendar days covered, never less than 1.
func (w DateWindow) Days() int {
	n := int(Day(w.End).Unix()/secondsPerDay-Day(w.Start).Unix()/secondsPerDay) + 1
	if n < 1 {
		return 1
	}
	return n
}

func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func (w DateWindow) String() string {
	return w.Start.Format(time.DateOnly) + ".." + w.End.Format(time.DateOnly)
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// MaxRollingDays caps rolling windows at roughly a century of data.
const MaxRollingDays = 36600

func addDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

type WindowSpec struct {
	Kind        WindowKind
	RollingDays int         // WindowRolling only
	Custom      *DateWindow // WindowCustom only
}

// Resolution is a resolved window and the window it is compared against.
// Previous is nil for custom windows.
type Resolution struct {
	Current  DateWindow
	Previous *DateWindow
}

// Resolve turns spec into concrete ranges anchored at ref, the latest date
// present in the data.
func Resolve(spec WindowSpec, ref time.Time) (Resolution, error) {
	ref = Day(ref)

	switch spec.Kind {
	case WindowDay:
		prev := addDays(ref, -1)
		return Resolution{
			Current:  DateWindow{Start: ref, End: ref},
			Previous: &DateWindow{Start: prev, End: prev},
		}, nil

	case WindowWeek:
		weekday := (int(ref.Weekday()) + 6) % 7 // Monday = 0
		start := addDays(ref, -weekday)
		length := weekday + 1
		return Resolution{
			Current:  DateWindow{Start: start, End: ref},
			Previous: &DateWindow{Start: addDays(start, -length), End: addDays(start, -1)},
		}, nil

	case WindowMonth:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
		prevStart := start.AddDate(0, -1, 0)
		return Resolution{
			Current:  DateWindow{Start: start, End: ref},
			Previous: &DateWindow{Start: prevStart, End: addDays(start, -1)},
		}, nil

	case WindowRolling:
		n := spec.RollingDays
		if n < 1 || n > MaxRollingDays {
			return Resolution{}, fmt.Errorf("%w: got %d", ErrInvalidRollingDays, n)
		}
		return Resolution{
			Current:  DateWindow{Start: addDays(ref, -n+1), End: ref},
			Previous: &DateWindow{Start: addDays(ref, -2*n+1), End: addDays(ref, -n)},
		}, nil

	case WindowCustom:
		if spec.Custom == nil {
			return Resolution{}, fmt.Errorf("%w: custom window needs a range", ErrInvalidWindow)
		}
		w, err := NewDateWindow(spec.Custom.Start, spec.Custom.End)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Current: w}, nil
	}

	return Resolution{}, fmt.Errorf("%w: %q", ErrInvalidWindowKind, spec.Kind)
}

// LastCompleteWeek is the fixed seven-day benchmark [ref-13, ref-7]. It does
// not depend on where ref falls inside its calendar week.
func LastCompleteWeek(ref time.Time) DateWindow {
	ref = Day(ref)
	return DateWindow{Start: addDays(ref, -13), End: addDays(ref, -7)}
}

// ReferenceDate returns the latest record date. ok is false for no records.
func ReferenceDate(recs []records.MetricRecord) (ref time.Time, ok bool) {
	for _, r := range recs {
		if !ok || r.Date.After(ref) {
			ref = r.Date
			ok = true
		}
	}
	return Day(ref), ok
}
