package solar

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaySeries(t *testing.T) {
	series, err := DaySeries(newYork, 2025, time.June, 21, DefaultDayOptions())
	require.NoError(t, err)

	// 05:00..21:00 every 30 minutes is 33 slots; a few twilight ones may drop.
	assert.LessOrEqual(t, len(series), 33)
	assert.GreaterOrEqual(t, len(series), 29)

	for i, p := range series {
		assert.Greater(t, p.ElevationDeg, -5.0)
		assert.InDelta(t, p.ElevationDeg, math.Round(p.ElevationDeg*10)/10, 1e-9)
		assert.InDelta(t, p.AzimuthDeg, math.Round(p.AzimuthDeg*10)/10, 1e-9)
		if i > 0 {
			assert.Equal(t, 30*time.Minute, p.Time.Sub(series[i-1].Time))
		}
	}
	assert.GreaterOrEqual(t, series[0].Time.Hour(), 5)
	assert.LessOrEqual(t, series[len(series)-1].Time.Hour(), 21)
}

func TestDaySeriesRejectsZeroInterval(t *testing.T) {
	opts := DefaultDayOptions()
	opts.Interval = 0
	_, err := DaySeries(newYork, 2025, time.June, 21, opts)
	assert.Error(t, err)
}

func TestSunriseSunset(t *testing.T) {
	rise, set, err := SunriseSunset(newYork, 2025, time.June, 21, NOAA)
	require.NoError(t, err)
	require.False(t, rise.IsZero())
	require.False(t, set.IsZero())

	riseMin := rise.Hour()*60 + rise.Minute()
	setMin := set.Hour()*60 + set.Minute()
	assert.InDelta(t, 5*60+25, riseMin, 20, "sunrise %s", rise.Format("15:04"))
	assert.InDelta(t, 20*60+31, setMin, 20, "sunset %s", set.Format("15:04"))
	assert.Equal(t, 0, rise.Minute()%5)
}

func TestSunrisePolar(t *testing.T) {
	arctic := Location{Latitude: 80, Longitude: 15, TimezoneOffsetHours: 1}

	rise, set, err := SunriseSunset(arctic, 2025, time.June, 21, NOAA)
	require.NoError(t, err)
	assert.Equal(t, "04:00", rise.Format("15:04"), "midnight sun: first probe is already up")
	assert.Equal(t, "20:55", set.Format("15:04"))

	rise, set, err = SunriseSunset(arctic, 2025, time.December, 21, NOAA)
	require.NoError(t, err)
	assert.True(t, rise.IsZero())
	assert.True(t, set.IsZero())
}
