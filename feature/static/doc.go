// Package static provides the asset handlers a hosted application can be
// built from: a local directory server and a bucket-backed server that
// streams objects from storage.
//
// Both handlers resolve keys relative to the mount's context path, which
// the dispatcher records in the request locals, so the same application
// works unchanged whether mounted at the root or under a prefix.
package static
