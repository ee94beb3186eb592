// Package sqliteexternal provides the optional CGO SQLite driver.
//
// The score catalog opens its database through core/sqlite, which picks
// the pure Go modernc.org/sqlite driver by default. Building with the
// cgo_sqlite tag links this package instead:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./cmd/scorekit
//
// Use it when catalog queries over large stores dominate run time or when
// CGO is already part of the build. Stay on the default driver for cross
// compilation and single binary releases.
package sqliteexternal
