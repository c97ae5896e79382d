package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/okian/jobaccept/internal/domain/classifier"
	"github.com/okian/jobaccept/internal/domain/encoding"
	"github.com/okian/jobaccept/internal/domain/prediction"
	"github.com/okian/jobaccept/internal/domain/scaling"
)

// Names are the object names of the four artifacts within a Source.
type Names struct {
	Model           string
	TargetEncoder   string
	FeatureEncoders string
	Scaler          string
}

// DefaultNames returns the standard artifact file names.
func DefaultNames() Names {
	return Names{
		Model:           "job_acceptance_model.json",
		TargetEncoder:   "target_encoder.json",
		FeatureEncoders: "feature_encoders.json",
		Scaler:          "scaler.json",
	}
}

// Load reads all four artifacts. Any failure is wrapped in ErrArtifactLoad
// and names the artifact.
func Load(ctx context.Context, src Source, names Names) (prediction.Artifacts, error) {
	var a prediction.Artifacts

	err := read(ctx, src, names.Model, func(r io.Reader) error {
		m, err := classifier.Load(r)
		a.Model = m
		return err
	})
	if err != nil {
		return prediction.Artifacts{}, err
	}

	target := new(encoding.LabelEncoder)
	if err := read(ctx, src, names.TargetEncoder, decodeJSON(target)); err != nil {
		return prediction.Artifacts{}, err
	}
	a.Target = target

	table := new(encoding.Table)
	if err := read(ctx, src, names.FeatureEncoders, decodeJSON(table)); err != nil {
		return prediction.Artifacts{}, err
	}
	a.Encoders = table

	scaler := new(scaling.StandardScaler)
	if err := read(ctx, src, names.Scaler, decodeJSON(scaler)); err != nil {
		return prediction.Artifacts{}, err
	}
	a.Scaler = scaler

	return a, nil
}

func read(ctx context.Context, src Source, name string, parse func(io.Reader) error) error {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrArtifactLoad, src.Location(name), err)
	}
	defer func() { _ = rc.Close() }()

	if err := parse(rc); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrArtifactLoad, src.Location(name), err)
	}
	return nil
}

func decodeJSON(v any) func(io.Reader) error {
	return func(r io.Reader) error {
		return json.NewDecoder(r).Decode(v)
	}
}
