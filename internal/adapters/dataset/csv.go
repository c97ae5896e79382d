package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/okian/jobaccept/internal/domain/kpi"
)

// LoadCSV reads a CSV file with a header row. Extra columns are ignored.
func LoadCSV(path string) ([]kpi.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatasetLoad, err)
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f)
}

// ReadCSV parses CSV rows from r.
func ReadCSV(r io.Reader) ([]kpi.Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: header: %w", ErrDatasetLoad, err)
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}
	idx := make([]int, len(columns))
	var missing []string
	for i, c := range columns {
		p, ok := pos[c]
		if !ok {
			missing = append(missing, c)
		}
		idx[i] = p
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns: %s", ErrDatasetLoad, strings.Join(missing, ", "))
	}

	var rows []kpi.Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatasetLoad, err)
		}
		nums := make([]float64, 4)
		for i := range nums {
			col := idx[i+1]
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %s: %q is not a number", ErrDatasetLoad, line, columns[i+1], rec[col])
			}
			if !finite(v) {
				return nil, fmt.Errorf("%w: line %d column %s: %q is not a finite number", ErrDatasetLoad, line, columns[i+1], rec[col])
			}
			nums[i] = v
		}
		rows = append(rows, normalize(kpi.Row{
			Status:                rec[idx[0]],
			TechnicalScore:        nums[0],
			AptitudeScore:         nums[1],
			CommunicationScore:    nums[2],
			SkillsMatchPercentage: nums[3],
			CompanyTier:           rec[idx[5]],
		}))
	}
	return rows, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
