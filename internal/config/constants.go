package config

import "time"

// Credential store connection pool settings
const (
	DBMaxOpenConns    = 4
	DBMaxIdleConns    = 2
	DBConnMaxLifetime = 5 * time.Minute
)

// Stub server timeouts
const (
	ServerRequestTimeout  = 30 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 10 * time.Second
)

// Timeout for opening and pinging the credential store
const StatePingTimeout = 5 * time.Second

// Default location of the local credential database, relative to the home directory
const DefaultStateDir = ".capsule"

const DefaultStateFile = "state.db"
