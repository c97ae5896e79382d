// Package prediction turns a candidate record into a placement prediction
// using the trained artifacts: derive, encode, scale, classify, decode.
package prediction

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/okian/jobaccept/internal/domain/candidate"
	"github.com/okian/jobaccept/pkg/logger"
)

// Result is the outcome of one prediction.
type Result struct {
	Label string
	Code  int
	// Confidence is 100 x the highest class probability, rounded to 2 decimals.
	Confidence float64
	// Probabilities maps each outcome label to its probability, rounded to 4 decimals.
	Probabilities map[string]float64
	Derived       candidate.Derived
	// Fallbacks lists features whose value was unseen at training time and
	// was encoded as the first class.
	Fallbacks []string
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for fallback warnings.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithFallbackHook registers a callback run for every unseen category.
func WithFallbackHook(fn func(feature, value string)) Option {
	return func(p *Pipeline) {
		p.onFallback = fn
	}
}

// Pipeline is immutable after NewPipeline and safe for concurrent use.
type Pipeline struct {
	artifacts  Artifacts
	encoded    []string
	scaled     []string
	log        logger.Logger
	onFallback func(feature, value string)
}

// NewPipeline checks the encoders and scaler against the record schema. The
// classifier schema is checked on every Predict.
func NewPipeline(a Artifacts, opts ...Option) (*Pipeline, error) {
	if err := a.check(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		artifacts: a,
		encoded:   a.Encoders.Features(),
		scaled:    a.Scaler.FeatureNames(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Named("pipeline")
	}

	kinds := make(map[string]candidate.Kind)
	for _, f := range candidate.Schema() {
		kinds[f.Name] = f.Kind
	}

	enc := &SchemaMismatchError{Stage: "feature encoders"}
	for _, name := range p.encoded {
		switch kind, ok := kinds[name]; {
		case !ok:
			enc.Extra = append(enc.Extra, name)
		case kind != candidate.Categorical:
			enc.Extra = append(enc.Extra, name+" (numeric)")
		}
	}
	if !enc.empty() {
		return nil, enc
	}

	if mm := diff("scaler", candidate.NamesOfKind(candidate.Numeric), p.scaled); mm != nil {
		return nil, mm
	}
	return p, nil
}

// Features returns the classifier input schema.
func (p *Pipeline) Features() []string {
	return p.artifacts.Model.FeatureNames()
}

// Labels returns the outcome labels the target encoder can produce.
func (p *Pipeline) Labels() []string {
	return p.artifacts.Target.Classes()
}

type cell struct {
	kind    candidate.Kind
	num     float64
	cat     string
	encoded bool
}

// Predict runs the full pipeline for a validated record.
func (p *Pipeline) Predict(ctx context.Context, rec candidate.Record) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	values := rec.Values()
	frame := make(map[string]*cell, len(values))
	for _, v := range values {
		frame[v.Name] = &cell{kind: v.Kind, num: v.Number, cat: v.Category}
	}

	var fallbacks []string
	for _, name := range p.encoded {
		c := frame[name]
		enc, _ := p.artifacts.Encoders.Encoder(name)
		code, known := enc.Encode(c.cat)
		if !known {
			fallbacks = append(fallbacks, name)
			p.log.Warn(ctx, "unseen category, encoding as first class",
				logger.String("feature", name),
				logger.String("value", c.cat),
				logger.Int("code", code),
			)
			if p.onFallback != nil {
				p.onFallback(name, c.cat)
			}
		}
		c.num = float64(code)
		c.encoded = true
	}

	x := make([]float64, len(p.scaled))
	for i, name := range p.scaled {
		x[i] = frame[name].num
	}
	scaled, err := p.artifacts.Scaler.Transform(x)
	if err != nil {
		return Result{}, fmt.Errorf("scale: %w", err)
	}
	for i, name := range p.scaled {
		frame[name].num = scaled[i]
	}

	vec, err := p.assemble(values, frame)
	if err != nil {
		return Result{}, err
	}

	code, err := p.artifacts.Model.Predict(vec)
	if err != nil {
		return Result{}, fmt.Errorf("predict: %w", err)
	}
	proba, err := p.artifacts.Model.PredictProba(vec)
	if err != nil {
		return Result{}, fmt.Errorf("predict proba: %w", err)
	}
	return p.decode(code, proba, candidate.Derive(rec), fallbacks)
}

// assemble orders the transformed values by the classifier schema.
func (p *Pipeline) assemble(values []candidate.Value, frame map[string]*cell) ([]float64, error) {
	want := p.artifacts.Model.FeatureNames()
	have := make([]string, len(values))
	for i, v := range values {
		have[i] = v.Name
	}

	mm := diff("classifier", want, have)
	if mm == nil {
		mm = &SchemaMismatchError{Stage: "classifier"}
	}
	vec := make([]float64, len(want))
	for i, name := range want {
		c, ok := frame[name]
		if !ok {
			continue
		}
		if c.kind == candidate.Categorical && !c.encoded {
			mm.Unencoded = append(mm.Unencoded, name)
			continue
		}
		vec[i] = c.num
	}
	if !mm.empty() {
		return nil, mm
	}
	return vec, nil
}

func (p *Pipeline) decode(code int, proba []float64, derived candidate.Derived, fallbacks []string) (Result, error) {
	classes := p.artifacts.Model.Classes()
	if len(proba) == 0 || len(proba) != len(classes) {
		return Result{}, fmt.Errorf("%w: %d probabilities for %d classes", ErrInvalidOutput, len(proba), len(classes))
	}

	best := 0.0
	probs := make(map[string]float64, len(proba))
	for i, v := range proba {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return Result{}, fmt.Errorf("%w: probability %v out of range", ErrInvalidOutput, v)
		}
		label, err := p.artifacts.Target.Decode(classes[i])
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
		probs[label] = roundTo(v, 4)
		best = math.Max(best, v)
	}

	label, err := p.artifacts.Target.Decode(code)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return Result{
		Label:         label,
		Code:          code,
		Confidence:    roundTo(100*best, 2),
		Probabilities: probs,
		Derived:       derived,
		Fallbacks:     fallbacks,
	}, nil
}

// diff compares two name sets; nil means they are equal.
func diff(stage string, want, have []string) *SchemaMismatchError {
	wantSet := make(map[string]struct{}, len(want))
	for _, n := range want {
		wantSet[n] = struct{}{}
	}
	haveSet := make(map[string]struct{}, len(have))
	for _, n := range have {
		haveSet[n] = struct{}{}
	}

	mm := &SchemaMismatchError{Stage: stage}
	for n := range wantSet {
		if _, ok := haveSet[n]; !ok {
			mm.Missing = append(mm.Missing, n)
		}
	}
	for n := range haveSet {
		if _, ok := wantSet[n]; !ok {
			mm.Extra = append(mm.Extra, n)
		}
	}
	if mm.empty() {
		return nil
	}
	sort.Strings(mm.Missing)
	sort.Strings(mm.Extra)
	return mm
}

// roundTo rounds half away from zero.
func roundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
