package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	tests := []struct {
		name    string
		value   TimeString
		wantErr bool
	}{
		{name: "morning", value: "08:00"},
		{name: "last minute", value: "23:59"},
		{name: "end of day", value: "24:00"},
		{name: "past end of day", value: "24:30", wantErr: true},
		{name: "single digit hour", value: "8:00", wantErr: true},
		{name: "bad minutes", value: "10:60", wantErr: true},
		{name: "garbage", value: "ab:cd", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.value.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("14:30").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("16:00"), got)

	got, err = TimeString("23:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), got)

	_, err = TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:30"))
	assert.False(t, TimeString("09:30").IsBefore("09:30"))
	assert.True(t, TimeString("24:00").IsAfter("23:59"))
	assert.Equal(t, 870, TimeString("14:30").Minutes())
	assert.Equal(t, -1, TimeString("nope").Minutes())
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:15:00"))
	assert.Equal(t, TimeString("10:15"), ts)

	require.NoError(t, ts.Scan([]byte("07:45")))
	assert.Equal(t, TimeString("07:45"), ts)

	require.NoError(t, ts.Scan(time.Date(2025, 1, 1, 18, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("18:05"), ts)

	assert.Error(t, ts.Scan(42))
}
