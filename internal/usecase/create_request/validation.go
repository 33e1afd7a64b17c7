package create_request

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"

	"github.com/keviiweb/VBS-sub000/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest валидирует входные данные запроса по тегам модели
func validateRequest(req *Request) error {
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: invalid fields: %s", ErrInvalidInput, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if strings.TrimSpace(req.Purpose) == "" {
		return fmt.Errorf("%w: purpose is required", ErrInvalidInput)
	}

	return nil
}

// parseSlots разбирает слоты заявки по разбиению дня площадки
// Пустой набор недопустим
func parseSlots(layout domain.SlotLayout, raw string) (domain.SlotSet, error) {
	slots, err := layout.ParseSlots(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}
	if slots.IsEmpty() {
		return nil, fmt.Errorf("%w: at least one slot is required", ErrInvalidTimeSlot)
	}
	return slots, nil
}

// expandDates возвращает даты заявки: одну, либо каждую неделю до repeatUntil включительно
func expandDates(first domain.Day, repeatUntil string, now time.Time) ([]domain.Day, error) {
	if first.Before(domain.NewDay(now)) {
		return nil, fmt.Errorf("%w: %s is in the past", ErrInvalidDate, first)
	}

	if repeatUntil == "" {
		return []domain.Day{first}, nil
	}

	until, err := domain.ParseDay(repeatUntil)
	if err != nil {
		return nil, fmt.Errorf("%w: repeatUntil: %v", ErrInvalidInput, err)
	}
	if until.Before(first) {
		return nil, fmt.Errorf("%w: repeatUntil %s is before date %s", ErrInvalidInput, until, first)
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.WEEKLY,
		Dtstart: first.Time(),
		Until:   until.Time(),
		// +1 чтобы отличить ровно MaxRecurringOccurrences от превышения
		Count: domain.MaxRecurringOccurrences + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: recurrence: %v", ErrInvalidInput, err)
	}

	occurrences := rule.All()
	if len(occurrences) > domain.MaxRecurringOccurrences {
		return nil, fmt.Errorf("%w: at most %d weekly occurrences allowed", ErrTooManyOccurrences, domain.MaxRecurringOccurrences)
	}

	dates := make([]domain.Day, 0, len(occurrences))
	for _, occurrence := range occurrences {
		dates = append(dates, domain.NewDay(occurrence))
	}
	return dates, nil
}
