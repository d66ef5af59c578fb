// Package rack hosts Rack-style applications on embedded servers.
//
// An application is anything satisfying the App interface: a callable
// mapping one request to one response. Applications come from three
// places: a pre-built handler passed in the mount options, a named
// builder from the Builders registry, or a rackup descriptor file naming
// that builder and its settings.
//
// # Rackup Descriptors
//
// A rackup.yaml describes an application declaratively:
//
//	app: static
//	env: production
//	path: /docs
//	static_dir: public
//	env_vars:
//	  FEATURE_FLAG: "on"
//
// LoadSpec parses the descriptor strictly; unknown keys fail the load.
//
// # Initializer
//
// Before an application serves requests the Initializer exports the
// hosting convention to the process environment: RACK_ROOT, RACK_ENV,
// and for non-root context paths RACK_BASE_URI and
// RACK_RELATIVE_URL_ROOT, optionally changing the working directory to
// the application root.
//
// # Host
//
// Host is the system's front door: Run constructs-or-reuses a named
// server from the registry, mounts the application, and auto-starts when
// asked; Mount does the same against an existing server.
package rack
