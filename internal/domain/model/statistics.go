package model

import "time"

// Statistics is the derived, read-only summary for a user. Nothing here
// is persisted; all three values are recomputed from stored rows.
type Statistics struct {
	// TotalAlcohol is the pure-alcohol-equivalent volume over all drinks,
	// in milliliters: sum of volume * alcohol_content / 100.
	TotalAlcohol float64 `json:"total_alcohol"`
	// DaysWithDrinks counts distinct UTC calendar dates with at least one drink.
	DaysWithDrinks int `json:"days_with_drinks"`
	// SoberDays is the current streak in whole days, truncated, and 0 when
	// no sober period is active.
	SoberDays int `json:"sober_days"`
}

// ComputeStatistics derives a user's statistics from their drink rows and the
// currently active sober period, if any. It is a pure function of its inputs:
// an empty drink set and a nil period yield the zero value, never an error.
//
// Calendar dates are taken in UTC, so two drinks on the same UTC date count
// as one day regardless of time of day.
func ComputeStatistics(drinks []*Drink, activePeriod *SoberPeriod, now time.Time) Statistics {
	var stats Statistics

	days := make(map[string]struct{}, len(drinks))
	for _, d := range drinks {
		stats.TotalAlcohol += d.PureAlcohol()
		days[d.CreatedAt.UTC().Format("2006-01-02")] = struct{}{}
	}
	stats.DaysWithDrinks = len(days)

	if activePeriod != nil && activePeriod.IsActive {
		if elapsed := now.Sub(activePeriod.StartTime); elapsed > 0 {
			stats.SoberDays = int(elapsed.Hours() / 24)
		}
	}
	return stats
}
