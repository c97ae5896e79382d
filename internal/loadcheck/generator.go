package loadcheck

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"
	"github.com/okian/jobaccept/internal/domain/candidate"
	"github.com/okian/jobaccept/pkg/logger"
)

// randomFloatDivisor sets the resolution of getRandomFloat.
const randomFloatDivisor = 1000000

// getRandomFloat returns a random float64 in [0.0, 1.0] using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor+1))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomIndex returns a random index in [0, n).
func getRandomIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateCandidates creates the configured number of candidates, each within
// the form bounds and vocabularies.
func generateCandidates(ctx context.Context, config *Config, stats *Stats) ([]Candidate, error) {
	logger.Get().Info(ctx, "generating candidates", logger.Int("numCandidates", config.NumCandidates))

	specs := candidate.RawFields()
	candidates := make([]Candidate, 0, config.NumCandidates)
	for i := 0; i < config.NumCandidates; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during candidate generation: %w", err)
		}
		rec, err := generateRecord(specs)
		if err != nil {
			return nil, fmt.Errorf("failed to generate candidate %d: %w", i, err)
		}
		candidates = append(candidates, Candidate{ID: uuid.NewString(), Record: rec})
	}

	stats.CandidatesGenerated = len(candidates)
	logger.Get().Info(ctx, "generated candidates successfully", logger.Int("count", len(candidates)))
	return candidates, nil
}

// generateRecord draws one value per field and validates the result the same
// way the API does.
func generateRecord(specs []candidate.FieldSpec) (candidate.Record, error) {
	fields := make(map[string]any, len(specs))
	for _, spec := range specs {
		if spec.Kind == candidate.Categorical {
			fields[spec.Name] = spec.Vocabulary[getRandomIndex(len(spec.Vocabulary))]
			continue
		}
		v := spec.Min + getRandomFloat()*(spec.Max-spec.Min)
		if spec.Integer {
			fields[spec.Name] = int(math.Round(v))
			continue
		}
		fields[spec.Name] = math.Round(v*10) / 10
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return candidate.Record{}, fmt.Errorf("failed to marshal candidate: %w", err)
	}
	return candidate.Decode(bytes.NewReader(data))
}
