// Package config loads the runtime configuration of the library demo from the environment
// and builds the PostgreSQL connections the postgres journal runs on.
package config
