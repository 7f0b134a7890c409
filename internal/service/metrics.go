package service

import "github.com/prometheus/client_golang/prometheus"

// NewBookingsCreatedCounter registers the bookings_created_total counter on reg.
func NewBookingsCreatedCounter(reg prometheus.Registerer) (prometheus.Counter, error) {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Total number of bookings created.",
	})
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
