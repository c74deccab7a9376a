// Package types defines the catalog record types, the data access contract
// implemented by storage backends, and the standard errors shared by the
// storage and state layers.
package types
