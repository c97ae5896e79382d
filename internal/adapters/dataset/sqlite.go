package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/okian/jobaccept/internal/domain/kpi"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadSQLite reads rows from table in the database at path, read-only.
func LoadSQLite(ctx context.Context, path, table string) ([]kpi.Row, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: invalid table name %q", ErrDatasetLoad, table)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatasetLoad, err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %w", ErrDatasetLoad, err)
	}
	defer func() { _ = db.Close() }()

	query := fmt.Sprintf(`SELECT %s FROM "%s"`, strings.Join(columns, ", "), table)
	res, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", ErrDatasetLoad, table, err)
	}
	defer func() { _ = res.Close() }()

	var rows []kpi.Row
	for n := 1; res.Next(); n++ {
		var r kpi.Row
		var status, tier sql.NullString
		if err := res.Scan(&status, &r.TechnicalScore, &r.AptitudeScore, &r.CommunicationScore,
			&r.SkillsMatchPercentage, &tier); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", ErrDatasetLoad, err)
		}
		scores := []struct {
			col string
			v   float64
		}{
			{columns[1], r.TechnicalScore},
			{columns[2], r.AptitudeScore},
			{columns[3], r.CommunicationScore},
			{columns[4], r.SkillsMatchPercentage},
		}
		for _, sc := range scores {
			if !finite(sc.v) {
				return nil, fmt.Errorf("%w: row %d column %s: %v is not a finite number", ErrDatasetLoad, n, sc.col, sc.v)
			}
		}
		r.Status = status.String
		r.CompanyTier = tier.String
		rows = append(rows, normalize(r))
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatasetLoad, err)
	}
	return rows, nil
}
