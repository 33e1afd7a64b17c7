package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/keviiweb/VBS-sub000/pkg/types"
)

// timeRangeSeparator разделитель начала и конца в "HH:MM - HH:MM"
const timeRangeSeparator = "-"

// TimeRange continuous range of a CCA session as slot boundaries of the full-day layout
type TimeRange struct {
	Start int
	End   int
}

// ParseTimeRange разбирает "HH:MM - HH:MM" в границы слотов полных суток
func ParseTimeRange(s string) (TimeRange, error) {
	parts := strings.Split(s, timeRangeSeparator)
	if len(parts) != 2 {
		return TimeRange{}, fmt.Errorf("%w: expected \"HH:MM - HH:MM\", got %q", ErrInvalidTimeRange, s)
	}

	start, err := types.NewTimeStringFromString(parts[0])
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: start: %v", ErrInvalidTimeRange, err)
	}
	end, err := types.NewTimeStringFromString(parts[1])
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: end: %v", ErrInvalidTimeRange, err)
	}

	layout := FullDayLayout()
	startIdx, err := layout.Boundary(start)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: start: %v", ErrInvalidTimeRange, err)
	}
	endIdx, err := layout.Boundary(end)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: end: %v", ErrInvalidTimeRange, err)
	}

	if startIdx >= endIdx {
		return TimeRange{}, fmt.Errorf("%w: start %s is not before end %s", ErrInvalidTimeRange, start, end)
	}

	return TimeRange{Start: startIdx, End: endIdx}, nil
}

// ConflictsWith reports whether either range's start or end falls within the other's
// closed [Start, End] range. Touching boundaries count as a conflict.
func (r TimeRange) ConflictsWith(other TimeRange) bool {
	return r.contains(other.Start) || r.contains(other.End) ||
		other.contains(r.Start) || other.contains(r.End)
}

// DurationMinutes длительность диапазона в минутах
func (r TimeRange) DurationMinutes() int {
	return (r.End - r.Start) * SlotDurationMinutes
}

// String форматирует диапазон обратно в "HH:MM - HH:MM"
func (r TimeRange) String() string {
	start, _ := types.NewTimeStringFromMinutes(r.Start * SlotDurationMinutes)
	end, _ := types.NewTimeStringFromMinutes(r.End * SlotDurationMinutes)
	return fmt.Sprintf(TimeRangeFormat, start, end)
}

func (r TimeRange) contains(boundary int) bool {
	return boundary >= r.Start && boundary <= r.End
}

// CCA co-curricular activity group
type CCA struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CCASession attendance-taking event of a CCA
type CCASession struct {
	ID              string
	CCAID           string
	Date            Day
	Name            string
	Time            string // "HH:MM - HH:MM"
	DurationMinutes int
	Editable        bool
	Optional        bool
	Remarks         string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Range возвращает разобранный диапазон времени сессии
func (s *CCASession) Range() (TimeRange, error) {
	return ParseTimeRange(s.Time)
}
