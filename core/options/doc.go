// Package options defines the typed configuration records the host accepts
// and the validation rules applied to dynamic option maps.
//
// Two forms are supported. Callers holding typed values use ServerOptions,
// MountOptions and Tuning directly. Callers holding a plain map (scripts,
// descriptor files) go through Merge, DecodeServer or DecodeMount, which
// reject any key outside the declared allowed set with a structured
// *InvalidKeysError naming both the offending and the accepted keys.
//
// # Validation Contract
//
// Merge is a pure function: caller values override defaults, defaults fill
// the rest, and a single unrecognized key fails the whole call with no
// partial application.
//
// # Tuning
//
// Tuning carries engine knobs (concurrency, buffer sizes, body limit,
// timeouts, prefork, streaming) and applies the non-zero ones onto a
// fiber.Config, so a pre-built configuration can still be adjusted per
// server.
package options
