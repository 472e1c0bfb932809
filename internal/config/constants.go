package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the on-device companion database
	DefaultDatabasePath = "./companion.db"
)
