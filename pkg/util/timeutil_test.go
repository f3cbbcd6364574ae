package util

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func TestTodayUTCUsesInjectedClock(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2024, 3, 5, 23, 30, 0, 0, time.FixedZone("BRT", -3*3600)))
	SetClock(fake)
	t.Cleanup(func() { SetClock(nil) })

	require.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), TodayUTC())
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2024-03-05 ")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got)

	zero, err := ParseDate("")
	require.NoError(t, err)
	require.True(t, zero.IsZero())

	_, err = ParseDate("05/03/2024")
	require.Error(t, err)
}
