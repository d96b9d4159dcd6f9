package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(drinksLogged, soberPeriods, goalsExpired) }

var drinksLogged = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "drinks_logged_total",
		Help: "Count of drink events recorded, by drink type.",
	},
	[]string{"drink_type"},
)

var soberPeriods = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sober_periods_total",
		Help: "Count of sober period transitions.",
	},
	[]string{"transition"}, // 'opened' | 'closed'
)

var goalsExpired = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "goals_expired_total",
		Help: "Count of goals deactivated by the expiry worker.",
	},
)

func IncDrinkLogged(drinkType string) { drinksLogged.WithLabelValues(drinkType).Inc() }
func IncSoberPeriodOpened()           { soberPeriods.WithLabelValues("opened").Inc() }
func IncSoberPeriodClosed()           { soberPeriods.WithLabelValues("closed").Inc() }
func IncGoalsExpired(n int) {
	if n > 0 {
		goalsExpired.Add(float64(n))
	}
}
