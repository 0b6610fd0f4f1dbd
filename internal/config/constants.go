package config

// Default paths
const (
	// DefaultDatabasePath is the default path for the export history and session database
	DefaultDatabasePath = "./clippings.db"

	// DefaultClippingsPath is where a mounted Kindle keeps its clippings export
	DefaultClippingsPath = "/Volumes/Kindle/documents/My Clippings.txt"

	// DefaultSyncSchedule runs a sync every hour at :00
	DefaultSyncSchedule = "0 * * * *"
)
