package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/keviiweb/VBS-sub000/pkg/types"
)

// slotSeparator разделитель индексов в компактной строковой форме
const slotSeparator = ","

// SlotSet ordered set of unique slot indices
type SlotSet []int

// NewSlotSet builds a normalized (sorted, de-duplicated) set
func NewSlotSet(indices ...int) SlotSet {
	if len(indices) == 0 {
		return SlotSet{}
	}

	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Ints(sorted)

	set := make(SlotSet, 0, len(sorted))
	for i, idx := range sorted {
		if i > 0 && idx == sorted[i-1] {
			continue
		}
		set = append(set, idx)
	}
	return set
}

// Len returns the number of slots
func (s SlotSet) Len() int {
	return len(s)
}

// IsEmpty returns true if the set has no slots
func (s SlotSet) IsEmpty() bool {
	return len(s) == 0
}

// Contains returns true if index is in the set
func (s SlotSet) Contains(index int) bool {
	i := sort.SearchInts(s, index)
	return i < len(s) && s[i] == index
}

// Equal returns true if both sets hold the same indices
func (s SlotSet) Equal(other SlotSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// FormatSlots сериализует набор в компактную форму "2,3,4"
func FormatSlots(s SlotSet) string {
	parts := make([]string, len(s))
	for i, idx := range s {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, slotSeparator)
}

// SlotLayout partition of a venue's operating day into fixed slots
// Index 0 starts at Open; there are Count slots of SlotMinutes each
type SlotLayout struct {
	Open        types.TimeString
	SlotMinutes int
	Count       int
}

// NewSlotLayout строит разбиение дня между open и close
// Хвост короче одного слота в разбиение не попадает
func NewSlotLayout(open, close types.TimeString, slotMinutes int) (SlotLayout, error) {
	if slotMinutes <= 0 {
		return SlotLayout{}, fmt.Errorf("%w: slot duration must be positive", ErrInvalidTimeRange)
	}
	if err := open.Validate(); err != nil {
		return SlotLayout{}, fmt.Errorf("%w: open: %v", ErrInvalidTimeRange, err)
	}
	if err := close.Validate(); err != nil {
		return SlotLayout{}, fmt.Errorf("%w: close: %v", ErrInvalidTimeRange, err)
	}
	if !open.IsBefore(close) {
		return SlotLayout{}, fmt.Errorf("%w: open %s is not before close %s", ErrInvalidTimeRange, open, close)
	}

	return SlotLayout{
		Open:        open,
		SlotMinutes: slotMinutes,
		Count:       (close.Minutes() - open.Minutes()) / slotMinutes,
	}, nil
}

// FullDayLayout разбиение полных суток начиная с 00:00
func FullDayLayout() SlotLayout {
	return SlotLayout{
		Open:        "00:00",
		SlotMinutes: SlotDurationMinutes,
		Count:       SessionSlotsPerDay,
	}
}

// InRange returns true if index is a valid slot of the layout
func (l SlotLayout) InRange(index int) bool {
	return index >= 0 && index < l.Count
}

// All returns every slot of the layout
func (l SlotLayout) All() SlotSet {
	set := make(SlotSet, l.Count)
	for i := range set {
		set[i] = i
	}
	return set
}

// ParseSlots разбирает компактную форму "2,3,4" в нормализованный набор
// Пустая строка означает пустой набор
func (l SlotLayout) ParseSlots(raw string) (SlotSet, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SlotSet{}, nil
	}

	tokens := strings.Split(raw, slotSeparator)
	indices := make([]int, 0, len(tokens))
	for _, token := range tokens {
		idx, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil {
			return nil, fmt.Errorf("%w: token %q is not a number", ErrMalformedSlotData, token)
		}
		if !l.InRange(idx) {
			return nil, fmt.Errorf("%w: slot %d is outside [0, %d)", ErrMalformedSlotData, idx, l.Count)
		}
		indices = append(indices, idx)
	}

	return NewSlotSet(indices...), nil
}

// Validate проверяет, что все индексы набора входят в разбиение
func (l SlotLayout) Validate(s SlotSet) error {
	for _, idx := range s {
		if !l.InRange(idx) {
			return fmt.Errorf("%w: slot %d is outside [0, %d)", ErrMalformedSlotData, idx, l.Count)
		}
	}
	return nil
}

// Label возвращает время начала слота "HH:MM"
func (l SlotLayout) Label(index int) (types.TimeString, error) {
	if !l.InRange(index) {
		return "", fmt.Errorf("%w: slot %d is outside [0, %d)", ErrMalformedSlotData, index, l.Count)
	}
	return l.Open.AddMinutes(index * l.SlotMinutes)
}

// Index возвращает индекс слота, начинающегося в label
func (l SlotLayout) Index(label types.TimeString) (int, error) {
	idx, err := l.Boundary(label)
	if err != nil {
		return 0, err
	}
	if idx == l.Count {
		return 0, fmt.Errorf("%w: %s is the end of the day", ErrMalformedSlotData, label)
	}
	return idx, nil
}

// Boundary возвращает номер границы слотов для label в диапазоне [0, Count]
// Граница Count соответствует концу последнего слота
func (l SlotLayout) Boundary(label types.TimeString) (int, error) {
	minutes := label.Minutes()
	if minutes < 0 {
		return 0, fmt.Errorf("%w: invalid label %q", ErrMalformedSlotData, label)
	}

	offset := minutes - l.Open.Minutes()
	if offset < 0 || offset%l.SlotMinutes != 0 {
		return 0, fmt.Errorf("%w: %s is not a slot boundary", ErrMalformedSlotData, label)
	}

	idx := offset / l.SlotMinutes
	if idx > l.Count {
		return 0, fmt.Errorf("%w: %s is after closing", ErrMalformedSlotData, label)
	}
	return idx, nil
}

// Labels возвращает подписи "HH:MM" для каждого слота набора
func (l SlotLayout) Labels(s SlotSet) ([]types.TimeString, error) {
	labels := make([]types.TimeString, 0, len(s))
	for _, idx := range s {
		label, err := l.Label(idx)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, nil
}
