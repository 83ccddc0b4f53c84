package doctor

import (
	"context"
	"fmt"

	"github.com/colonyops/rollbook/internal/data/db"
)

// SchemaReporter reports the migration state of a database.
type SchemaReporter interface {
	Schema(ctx context.Context) (db.SchemaStatus, error)
}

// DatabaseCheck reports whether the order database schema matches this
// build.
type DatabaseCheck struct {
	db SchemaReporter
}

// NewDatabaseCheck creates a new database schema check.
func NewDatabaseCheck(database SchemaReporter) *DatabaseCheck {
	return &DatabaseCheck{db: database}
}

func (c *DatabaseCheck) Name() string {
	return "Database"
}

func (c *DatabaseCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	status, err := c.db.Schema(ctx)
	switch {
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  "schema",
			Status: StatusFail,
			Detail: fmt.Sprintf("read schema: %v", err),
		})
	case len(status.Unknown) > 0:
		result.Items = append(result.Items, CheckItem{
			Label:  "schema",
			Status: StatusFail,
			Detail: fmt.Sprintf("migrated by a newer rollbook (versions %v), upgrade rollbook", status.Unknown),
		})
	case len(status.Pending) > 0:
		result.Items = append(result.Items, CheckItem{
			Label:  "schema",
			Status: StatusWarn,
			Detail: fmt.Sprintf("version %04d, %d migration(s) pending; they run on next start", status.Current, len(status.Pending)),
		})
	default:
		result.Items = append(result.Items, CheckItem{
			Label:  "schema",
			Status: StatusPass,
			Detail: fmt.Sprintf("version %04d", status.Current),
		})
	}

	return result
}
