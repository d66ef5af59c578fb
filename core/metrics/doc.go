// Package metrics provides the optional Prometheus instrumentation for a
// hosted server.
//
// Each server gets its own registry (labelled with the server name) so two
// servers in one process never collide on collector registration. The
// package contributes a request middleware (count + latency) and the
// exposition handler, bridged from promhttp onto the fasthttp engine.
package metrics
