// Package testutil provides shared test helpers for clippings files and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mrlokans/clippings/internal/audit"
	"github.com/mrlokans/clippings/internal/database"
	auditRepo "github.com/mrlokans/clippings/internal/database/audit"
)

// SampleClippings holds two books with exportable highlights, a note, a
// one-word highlight and a bookmark.
const SampleClippings = "\uFEFFBook One\r\n" +
	"- Your Highlight on Location 10-12 | Added on Tuesday, 1 January 2020\r\n" +
	"\r\n" +
	"This is a sufficiently long highlight passage\r\n" +
	"==========\r\n" +
	"Book One\r\n" +
	"- Your Note on Location 10 | Added on Tuesday, 1 January 2020\r\n" +
	"\r\n" +
	"short note\r\n" +
	"==========\r\n" +
	"Book Two: A Subtitle\r\n" +
	"- Your Highlight on Location 5 | Added on Wednesday, 2 January 2020\r\n" +
	"\r\n" +
	"ok\r\n" +
	"==========\r\n" +
	"Book Two: A Subtitle\r\n" +
	"- Your Highlight on Location 7 | Added on Thursday, 3 January 2020\r\n" +
	"\r\n" +
	"The second book has a highlight that is kept\r\n" +
	"==========\r\n" +
	"Book Two: A Subtitle\r\n" +
	"- Your Bookmark on Location 9 | Added on Thursday, 3 January 2020\r\n" +
	"\r\n" +
	"\r\n" +
	"==========\r\n"

// WriteClippings writes content to a "My Clippings.txt" in a temp directory and returns its path.
func WriteClippings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "My Clippings.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestDB creates a temporary database that is closed when the test ends.
func TestDB(t *testing.T) *database.Database {
	t.Helper()
	return TestDBAt(t, filepath.Join(t.TempDir(), "test.db"))
}

// TestDBAt opens the database at path, closing it when the test ends.
func TestDBAt(t *testing.T, path string) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestAudit returns an audit service backed by a temporary database.
func TestAudit(t *testing.T) (*audit.Service, *database.Database) {
	t.Helper()
	db := TestDB(t)
	return audit.NewService(auditRepo.NewRepository(db.DB)), db
}
