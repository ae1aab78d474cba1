// Package persistence keeps a SQLite directory of devices the relay has
// connected to, so operators can see which soles were seen and when.
package persistence
