package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(botCommands, botErrors) }

var botCommands = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bot_commands_total",
		Help: "Count of handled Telegram commands and callbacks.",
	},
	[]string{"command"},
)

var botErrors = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "bot_handler_errors_total",
		Help: "Count of Telegram update handler errors.",
	},
)

func IncBotCommand(command string) { botCommands.WithLabelValues(command).Inc() }
func IncBotError()                 { botErrors.Inc() }
