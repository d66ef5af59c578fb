// Package storage provides the object storage client used when a hosted
// application serves its static assets out of a bucket instead of a local
// directory.
//
// The Client interface is deliberately narrow (exists, stat, get, list):
// serving assets never writes. NewClient builds a Minio-backed
// implementation with strict connection timeouts; tests substitute the
// mock in storage/mocks.
package storage
