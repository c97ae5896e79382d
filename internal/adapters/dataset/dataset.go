// Package dataset reads historical candidate rows for the KPI summary from a
// CSV file or a SQLite database.
package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/okian/jobaccept/internal/domain/kpi"
)

// DefaultTable is the SQLite table read when none is configured.
const DefaultTable = "candidates"

// Columns read from the dataset, in scan order.
var columns = []string{
	"status",
	"technical_score",
	"aptitude_score",
	"communication_score",
	"skills_match_percentage",
	"company_tier",
}

// Option applies a configuration option to Load.
type Option func(*options)

type options struct {
	table string
}

// WithTable sets the SQLite table name.
func WithTable(table string) Option {
	return func(o *options) {
		if table != "" {
			o.table = table
		}
	}
}

// Load reads rows from path, choosing the reader by file extension.
func Load(ctx context.Context, path string, opts ...Option) ([]kpi.Row, error) {
	o := &options{table: DefaultTable}
	for _, opt := range opts {
		opt(o)
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no dataset path configured", ErrDatasetLoad)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return LoadCSV(path)
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(ctx, path, o.table)
	default:
		return nil, fmt.Errorf("%w: unsupported dataset extension %q", ErrDatasetLoad, ext)
	}
}

// normalize trims the text columns.
func normalize(r kpi.Row) kpi.Row {
	r.Status = strings.TrimSpace(r.Status)
	r.CompanyTier = strings.TrimSpace(r.CompanyTier)
	return r
}
