// Package metrics provides run metrics for readmegen.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default so callers never check for nil. When a metrics file is
// configured, the CLI swaps in a PrometheusRecorder backed by its own registry
// and writes the registry in the node_exporter textfile format after the run.
//
//	reg := prom.NewRegistry()
//	gen := readme.NewGenerator(cfg, readme.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//	_, err := gen.Generate(ctx)
//	_ = metrics.WriteTextfile(cfg.MetricsFile, reg)
package metrics
