package deadline_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gezmi/trailbus/internal/deadline"
	"github.com/gezmi/trailbus/internal/models"
)

type fakeCandleSource struct {
	at  time.Time
	err error
}

func (f fakeCandleSource) CandleLighting(time.Time) (time.Time, error) {
	return f.at, f.err
}

func TestGetDeadline_SaturdayUnsupported(t *testing.T) {
	saturday := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err := deadline.GetDeadline(nil, saturday, 2.0)
	assert.True(t, errors.Is(err, models.ErrSaturdayNotSupported))
}

func TestGetDeadline_Weekday(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	dl, err := deadline.GetDeadline(nil, monday, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 18, dl.Hour())
	assert.Equal(t, 5, dl.Day())
}

func TestGetDeadline_FridayUsesSourceMinusMargin(t *testing.T) {
	friday := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	candle := time.Date(2026, 7, 31, 19, 15, 0, 0, time.UTC)
	source := fakeCandleSource{at: candle}

	dl, err := deadline.GetDeadline(source, friday, 2.0)
	require.NoError(t, err)
	assert.Equal(t, candle.Add(-2*time.Hour), dl)
}

func TestGetDeadline_FridayFallsBackWhenSourceErrors(t *testing.T) {
	friday := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	source := fakeCandleSource{err: errors.New("network down")}

	dl, err := deadline.GetDeadline(source, friday, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 17, dl.Hour()) // summer fallback 19:00 - 2h margin
}

func TestGetDeadline_FridayNilSourceUsesConservativeEstimate(t *testing.T) {
	winterFriday := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	dl, err := deadline.GetDeadline(nil, winterFriday, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 15, dl.Hour()) // winter fallback 16:30 - 1h = 15:30
	assert.Equal(t, 30, dl.Minute())
}

func TestConservativeCandleEstimate_WinterVsSummer(t *testing.T) {
	winter := deadline.ConservativeCandleEstimate(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC))
	summer := deadline.ConservativeCandleEstimate(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 16, winter.Hour())
	assert.Equal(t, 19, summer.Hour())
}
