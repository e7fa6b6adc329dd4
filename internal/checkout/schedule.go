package checkout

import "time"

const deliveryDateCount = 3

// DeliveryDates returns the serviceable delivery dates: the next three
// calendar days starting tomorrow, skipping Mondays (no deliveries).
func DeliveryDates(now time.Time) []string {
	dates := make([]string, 0, deliveryDateCount)
	day := now
	for len(dates) < deliveryDateCount {
		day = day.AddDate(0, 0, 1)
		if day.Weekday() == time.Monday {
			continue
		}
		dates = append(dates, day.Format(dateLayout))
	}
	return dates
}
