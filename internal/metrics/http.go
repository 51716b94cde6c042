package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Métricas HTTP del servicio. Viven en un paquete standalone para evitar
// ciclos de import entre middlewares y handlers.

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flagbox_http_requests_total",
		Help: "Total de requests HTTP por método, ruta y status",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flagbox_http_request_duration_seconds",
		Help:    "Latencia de requests HTTP en segundos",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	FlagResolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flagbox_flag_resolutions_total",
		Help: "Resoluciones de flags por resultado (resolved/missed)",
	}, []string{"result"})
)

// Register registra las métricas en el registry dado (o el default si es nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{HTTPRequestsTotal, HTTPRequestDuration, FlagResolutions} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
