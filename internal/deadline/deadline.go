// Package deadline computes the latest time a hiker must be back on a
// bus. Friday deadlines key off candle-lighting time, fetched by an
// external collaborator (CandleLightingSource) — the network call itself
// is out of this module's scope — with a conservative seasonal fallback
// kept in-process for when that source is unavailable.
package deadline

import (
	"time"

	"github.com/gezmi/trailbus/internal/config"
	"github.com/gezmi/trailbus/internal/models"
)

// CandleLightingSource fetches the candle-lighting time for the Shabbat
// covering date, in local time. Implementations typically call an
// external API (Hebcal); this package only defines the seam.
type CandleLightingSource interface {
	CandleLighting(date time.Time) (time.Time, error)
}

// winterMonths mirrors _WINTER_MONTHS: October through March see an
// earlier sunset than April through September.
var winterMonths = map[time.Month]bool{
	time.January: true, time.February: true, time.March: true,
	time.October: true, time.November: true, time.December: true,
}

const (
	fallbackWinterHour, fallbackWinterMinute = 16, 30
	fallbackSummerHour, fallbackSummerMinute = 19, 0
)

// ConservativeCandleEstimate returns an early, safe candle-lighting
// estimate for date when no live source is available.
func ConservativeCandleEstimate(date time.Time) time.Time {
	hour, minute := fallbackSummerHour, fallbackSummerMinute
	if winterMonths[date.Month()] {
		hour, minute = fallbackWinterHour, fallbackWinterMinute
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}

// GetDeadline returns the latest datetime by which the hiker must be on
// a return bus on date.
//
//   - Saturday: returns models.ErrSaturdayNotSupported.
//   - Friday: candle-lighting time (from source, or the conservative
//     estimate if source is nil or errors) minus safetyMarginHours.
//   - any other day: date at config.DefaultLatestReturnHour:00.
func GetDeadline(source CandleLightingSource, date time.Time, safetyMarginHours float64) (time.Time, error) {
	switch date.Weekday() {
	case time.Saturday:
		return time.Time{}, models.ErrSaturdayNotSupported

	case time.Friday:
		candle, err := fetchCandleLighting(source, date)
		if err != nil {
			candle = ConservativeCandleEstimate(date)
		}
		margin := time.Duration(safetyMarginHours * float64(time.Hour))
		return candle.Add(-margin), nil

	default:
		return time.Date(date.Year(), date.Month(), date.Day(),
			config.DefaultLatestReturnHour, 0, 0, 0, date.Location()), nil
	}
}

func fetchCandleLighting(source CandleLightingSource, date time.Time) (time.Time, error) {
	if source == nil {
		return ConservativeCandleEstimate(date), nil
	}
	return source.CandleLighting(date)
}
