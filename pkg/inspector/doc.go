// Package inspector serves a playing scene over HTTP.
//
// Routes:
//
//	GET  /healthz  liveness probe
//	GET  /tree     current host tree as markup
//	GET  /metrics  Prometheus metrics
//	POST /step     apply the next scene step
//	GET  /ops      websocket stream of host ops, one message per step
//
// Usage:
//
//	s := inspector.New(inspector.Options{Scene: sc, Key: "app"})
//	err := s.Run(ctx, "localhost:7070")
package inspector
