// Package server wraps one embedded Fiber engine per Server value.
//
// The wrapper owns exactly three things: translating options.ServerOptions
// (including a pre-built fiber.Config and tuning knobs) into the engine
// configuration, a mutable mount table dispatching requests to handlers by
// longest context-path prefix, and the start/stop lifecycle. Everything
// else (HTTP parsing, connection handling, worker scheduling) is the
// engine's.
//
// # Mount Table
//
// Handlers are registered on the server's own table rather than the engine
// router, since the router cannot unregister routes; this is what makes
// Unmount possible while the server keeps running. Dispatch picks the
// mount with the longest matching prefix.
//
// # Listeners
//
// Bound listeners are observed through the engine's documented OnListen
// hook, not by reflecting into engine internals. Listeners() therefore
// reports exactly what the engine announced: host, port and protocol type.
//
// # Lifecycle
//
// Start blocks until the listener is bound or binding fails, so callers
// can rely on Listeners() immediately afterwards. Stop delegates to the
// engine's graceful shutdown with the caller's context deadline.
package server
