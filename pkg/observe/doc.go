// Package observe provides ready-made nav.Observer implementations:
// Prometheus metrics and OpenTelemetry tracing for navigation and
// submission cycles.
//
// Attach them at controller construction:
//
//	metrics := observe.NewMetrics(observe.WithNamespace("myapp"))
//	tracing := observe.NewTracing()
//	ctrl := nav.New(table, nav.WithObserver(metrics, tracing))
package observe
