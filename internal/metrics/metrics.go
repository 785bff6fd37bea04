// Prometheus collectors for the thermostat bridge, exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"toonbridge/internal/models"
	"toonbridge/internal/toon"
)

var (
	currentTemp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "toon_current_temperature_celsius",
		Help: "Measured room temperature.",
	})
	targetTemp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "toon_target_temperature_celsius",
		Help: "Active setpoint.",
	})
	modulationLevel = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "toon_modulation_level_percent",
		Help: "Burner modulation level.",
	})
	burnerOn = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "toon_burner_on",
		Help: "1 when the burner is heating the home.",
	})
	boilerSetpoint = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "toon_boiler_setpoint_celsius",
		Help: "Internal boiler setpoint.",
	})
	otCommErrors = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "toon_ot_comm_error",
		Help: "OpenTherm communication error counter as reported by the device.",
	})

	Polls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "toon_polls_total",
		Help: "Successful thermostat polls.",
	})
	PollErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "toon_poll_errors_total",
		Help: "Failed thermostat polls.",
	})
)

// ObserveState publishes a decoded snapshot to the gauges.
func ObserveState(st models.ThermostatState) {
	currentTemp.Set(st.CurrentTempC)
	targetTemp.Set(st.TargetTempC)
	modulationLevel.Set(float64(st.ModulationLevel))
	boilerSetpoint.Set(float64(st.BoilerSetpoint))
	otCommErrors.Set(float64(st.OTCommError))
	if st.Action == toon.ActionHeating {
		burnerOn.Set(1)
	} else {
		burnerOn.Set(0)
	}
}
