package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		waitlistSignups,
		registeredUsers,
		messagesStored,
		uniqueVisitors,
	)
}

var (
	waitlistSignups = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "waitlist_signups",
		Help: "Current number of waitlist entries.",
	})

	registeredUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "registered_users",
		Help: "Users with a settings row, a proxy for accounts seen.",
	})

	messagesStored = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "messages_stored",
		Help: "Total transcript messages in the store.",
	})

	uniqueVisitors = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "unique_visitors",
		Help: "Deduplicated visitor count from the landing page counter.",
	})
)

func SetWaitlistSignups(n int64) { waitlistSignups.Set(float64(n)) }
func SetRegisteredUsers(n int64) { registeredUsers.Set(float64(n)) }
func SetMessagesStored(n int64)  { messagesStored.Set(float64(n)) }
func SetUniqueVisitors(n int64)  { uniqueVisitors.Set(float64(n)) }
