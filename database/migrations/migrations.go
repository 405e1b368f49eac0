// Package migrations contains the schema migrations. Each one registers
// itself with migration.Register from init(); cmd/mart and the test kit
// import this package for that side effect.
package migrations
