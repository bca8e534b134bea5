package solar

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var newYork = Location{Latitude: 40.7128, Longitude: -74.0060, TimezoneOffsetHours: -5, TimezoneName: "America/New_York"}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"", NOAA, false},
		{"noaa", NOAA, false},
		{"NOAA", NOAA, false},
		{" meeus ", Meeus, false},
		{"suncalc", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownAlgorithm)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestLocationValidate(t *testing.T) {
	assert.NoError(t, newYork.Validate())
	assert.Error(t, Location{Latitude: 91}.Validate())
	assert.Error(t, Location{Longitude: -181}.Validate())
	assert.Error(t, Location{TimezoneOffsetHours: 15}.Validate())
	assert.Error(t, Location{TimezoneName: "Mars/Olympus"}.Validate())
}

func TestNOAASummerNoon(t *testing.T) {
	zone, err := newYork.Zone()
	require.NoError(t, err)

	pos, err := Calculate(newYork, time.Date(2025, 6, 21, 13, 0, 0, 0, zone), NOAA)
	require.NoError(t, err)
	assert.InDelta(t, 72.7, pos.ElevationDeg, 1.5)
	assert.InDelta(t, 180, pos.AzimuthDeg, 30)
	assert.True(t, pos.AboveHorizon())
}

func TestNOAAWinterNoonFixedOffset(t *testing.T) {
	loc := Location{Latitude: 40.7128, Longitude: -74.0060, TimezoneOffsetHours: -5}
	zone, err := loc.Zone()
	require.NoError(t, err)

	pos, err := Calculate(loc, time.Date(2025, 12, 21, 12, 0, 0, 0, zone), NOAA)
	require.NoError(t, err)
	assert.InDelta(t, 25.9, pos.ElevationDeg, 1.5)
	assert.InDelta(t, 180, pos.AzimuthDeg, 10)
}

func TestNOAAMorningAndAfternoon(t *testing.T) {
	zone, err := newYork.Zone()
	require.NoError(t, err)

	morning, err := Calculate(newYork, time.Date(2025, 6, 21, 9, 0, 0, 0, zone), NOAA)
	require.NoError(t, err)
	afternoon, err := Calculate(newYork, time.Date(2025, 6, 21, 17, 0, 0, 0, zone), NOAA)
	require.NoError(t, err)

	assert.Less(t, morning.AzimuthDeg, 180.0, "morning sun is in the east")
	assert.Greater(t, afternoon.AzimuthDeg, 180.0, "afternoon sun is in the west")
	assert.Greater(t, morning.ElevationDeg, 0.0)
	assert.Greater(t, afternoon.ElevationDeg, 0.0)
}

func TestNOAAMidnightBelowHorizon(t *testing.T) {
	zone, err := newYork.Zone()
	require.NoError(t, err)
	pos, err := Calculate(newYork, time.Date(2025, 3, 1, 0, 30, 0, 0, zone), NOAA)
	require.NoError(t, err)
	assert.Less(t, pos.ElevationDeg, 0.0)
}

func TestSouthernHemisphereNoonFacesNorth(t *testing.T) {
	sydney := Location{Latitude: -33.8688, Longitude: 151.2093, TimezoneName: "Australia/Sydney"}
	zone, err := sydney.Zone()
	require.NoError(t, err)

	pos, err := Calculate(sydney, time.Date(2025, 6, 21, 12, 0, 0, 0, zone), NOAA)
	require.NoError(t, err)
	assert.Greater(t, math.Cos(pos.AzimuthDeg*math.Pi/180), 0.9, "azimuth %v", pos.AzimuthDeg)
}

func TestMeeusAgreesWithNOAA(t *testing.T) {
	zone, err := newYork.Zone()
	require.NoError(t, err)

	for _, hour := range []int{8, 10, 12, 14, 16, 18} {
		ts := time.Date(2025, 6, 21, hour, 0, 0, 0, zone)
		a, err := Calculate(newYork, ts, NOAA)
		require.NoError(t, err)
		b, err := Calculate(newYork, ts, Meeus)
		require.NoError(t, err)

		assert.InDelta(t, a.ElevationDeg, b.ElevationDeg, 1.0, "elevation at %02d:00", hour)
		dAz := math.Abs(a.AzimuthDeg - b.AzimuthDeg)
		assert.Less(t, math.Min(dAz, 360-dAz), 1.5, "azimuth at %02d:00", hour)
	}
}

func TestCalculateUnknownAlgorithm(t *testing.T) {
	_, err := Calculate(newYork, time.Now(), Algorithm("bogus"))
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestCalculateBadZone(t *testing.T) {
	_, err := Calculate(Location{TimezoneName: "Nowhere/Land"}, time.Now(), NOAA)
	assert.Error(t, err)
}
