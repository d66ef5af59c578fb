// Package registry provides the process-wide registry of named servers.
//
// At most one server exists per name: Server is a memoized factory, so a
// second call with the same name returns the identical instance and the
// supplied options are ignored. The registry is an explicit object with a
// controlled lifecycle (created at process start, Shutdown at process
// teardown) rather than ambient global state.
package registry
