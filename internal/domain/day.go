package domain

import (
	"fmt"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// Day календарный день без времени, хранится как unix-время полуночи UTC
type Day int64

// NewDay возвращает день, к которому относится t (по календарю t.Location())
func NewDay(t time.Time) Day {
	y, m, d := t.Date()
	return Day(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix())
}

// ParseDay парсит дату в формате YYYY-MM-DD
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return NewDay(t), nil
}

// Time возвращает полночь дня в UTC
func (d Day) Time() time.Time {
	return time.Unix(int64(d), 0).UTC()
}

// String возвращает дату в формате YYYY-MM-DD
func (d Day) String() string {
	return d.Time().Format(DateFormat)
}

// Valid проверяет, что значение выровнено по полуночи
func (d Day) Valid() bool {
	return d > 0 && int64(d)%secondsPerDay == 0
}

// Before возвращает true, если день раньше other
func (d Day) Before(other Day) bool {
	return d < other
}
