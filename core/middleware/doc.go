// Package middleware contains HTTP middleware for the embedded Fiber engine.
//
// It provides cross-cutting concerns that sit between the request and the
// mounted application.
//
// # Components
//
//   - RequestID: Generates a unique ID for every incoming request,
//     injecting it into the context and response headers for tracing.
//
// The request ID middleware is installed globally on every server the host
// creates; the dispatch chain picks the ID up when logging requests.
package middleware
