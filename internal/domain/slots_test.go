package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keviiweb/VBS-sub000/pkg/types"
)

func venueLayout(t *testing.T) SlotLayout {
	t.Helper()
	layout, err := NewSlotLayout("08:00", "23:00", SlotDurationMinutes)
	require.NoError(t, err)
	return layout
}

func TestNewSlotLayout(t *testing.T) {
	layout := venueLayout(t)
	assert.Equal(t, 30, layout.Count)

	// Хвост короче слота отбрасывается
	layout, err := NewSlotLayout("08:00", "09:45", SlotDurationMinutes)
	require.NoError(t, err)
	assert.Equal(t, 3, layout.Count)

	_, err = NewSlotLayout("10:00", "10:00", SlotDurationMinutes)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = NewSlotLayout("25:00", "26:00", SlotDurationMinutes)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestParseSlots(t *testing.T) {
	layout := venueLayout(t)

	tests := []struct {
		name    string
		raw     string
		want    SlotSet
		wantErr bool
	}{
		{name: "single", raw: "3", want: SlotSet{3}},
		{name: "several", raw: "2,3,4", want: SlotSet{2, 3, 4}},
		{name: "unsorted with spaces", raw: " 4, 2 ,3", want: SlotSet{2, 3, 4}},
		{name: "duplicates collapse", raw: "5,5,1", want: SlotSet{1, 5}},
		{name: "empty", raw: "", want: SlotSet{}},
		{name: "whitespace only", raw: "   ", want: SlotSet{}},
		{name: "last slot", raw: "29", want: SlotSet{29}},
		{name: "out of range", raw: "30", wantErr: true},
		{name: "negative", raw: "-1", wantErr: true},
		{name: "non numeric", raw: "2,x,4", wantErr: true},
		{name: "trailing separator", raw: "2,3,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := layout.ParseSlots(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedSlotData)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatSlots_RoundTrip(t *testing.T) {
	layout := venueLayout(t)

	sets := []SlotSet{
		NewSlotSet(),
		NewSlotSet(0),
		NewSlotSet(2, 3, 4),
		NewSlotSet(29, 0, 15),
		layout.All(),
	}

	for _, s := range sets {
		parsed, err := layout.ParseSlots(FormatSlots(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed, "round trip of %v", s)
	}

	assert.Equal(t, "2,3,4", FormatSlots(NewSlotSet(4, 3, 2)))
}

func TestSlotLayout_Labels(t *testing.T) {
	layout := venueLayout(t)

	label, err := layout.Label(0)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("08:00"), label)

	label, err = layout.Label(5)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:30"), label)

	_, err = layout.Label(30)
	assert.ErrorIs(t, err, ErrMalformedSlotData)

	idx, err := layout.Index("10:30")
	require.NoError(t, err)
	assert.Equal(t, 5, idx)

	_, err = layout.Index("10:15")
	assert.ErrorIs(t, err, ErrMalformedSlotData)

	_, err = layout.Index("07:30")
	assert.ErrorIs(t, err, ErrMalformedSlotData)

	// Время закрытия - граница, но не начало слота
	_, err = layout.Index("23:00")
	assert.ErrorIs(t, err, ErrMalformedSlotData)

	boundary, err := layout.Boundary("23:00")
	require.NoError(t, err)
	assert.Equal(t, 30, boundary)

	for i := 0; i < layout.Count; i++ {
		label, err := layout.Label(i)
		require.NoError(t, err)
		back, err := layout.Index(label)
		require.NoError(t, err)
		assert.Equal(t, i, back)
	}
}

func TestSlotSet_Contains(t *testing.T) {
	s := NewSlotSet(1, 4, 9)
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(5))
	assert.False(t, NewSlotSet().Contains(0))
}
