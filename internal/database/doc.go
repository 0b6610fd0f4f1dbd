// Package database opens the SQLite file that backs export history and
// web UI sessions.
//
//	database/
//	├── database.go      # Connection setup and migrations
//	└── audit/           # Export history queries
//
// Parsed libraries are rebuilt from the clippings file on every use and
// never written here. Sessions live in a "sessions" table owned by the
// scs sqlite3store and share the same connection pool:
//
//	sqlDB, _ := db.SQLDB()
//	sm, _ := session.NewSessionManager(sqlDB, cfg.Session)
package database
