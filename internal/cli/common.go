package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/clippings/internal/audit"
	"github.com/mrlokans/clippings/internal/database"
	auditRepo "github.com/mrlokans/clippings/internal/database/audit"
	"github.com/mrlokans/clippings/internal/services"
)

// titleList collects repeated -title flags.
type titleList []string

func (l *titleList) String() string {
	return strings.Join(*l, ", ")
}

func (l *titleList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// openHighlights creates the service used by a command. History goes to the
// database at dbPath; an empty path or an unusable database disables it.
// The returned close func is always safe to call.
func openHighlights(dbPath, action string) (*services.HighlightsService, func()) {
	if dbPath == "" {
		return services.NewHighlightsService(nil, action), func() {}
	}

	absDBPath, err := filepath.Abs(dbPath)
	if err == nil {
		dbPath = absDBPath
	}

	db, err := database.NewDatabase(dbPath)
	if err != nil {
		log.Printf("WARNING: export history disabled: %v", err)
		return services.NewHighlightsService(nil, action), func() {}
	}

	auditService := audit.NewService(auditRepo.NewRepository(db.DB))
	return services.NewHighlightsService(auditService, action), func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
}

func output(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

func absPath(path, what string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", what, err)
	}
	return abs, nil
}
