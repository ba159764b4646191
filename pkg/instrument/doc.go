// Package instrument provides reactor.Observer implementations for
// production monitoring.
//
// # Prometheus Metrics
//
// Metrics counts materializations, array detaches, subscriptions and errors:
//
//	reg := prometheus.NewRegistry()
//	reactor.SetObserver(instrument.NewMetrics(
//	    instrument.WithRegistry(reg),
//	    instrument.WithNamespace("myapp"),
//	))
//
// # OpenTelemetry Tracing
//
// Tracing records each engine event as a span on the global tracer
// provider:
//
//	reactor.SetObserver(instrument.NewTracing(
//	    instrument.WithTracerName("my-app"),
//	))
//
// # Combining
//
//	reactor.SetObserver(instrument.Multi(metrics, tracing))
package instrument
