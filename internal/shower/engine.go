package shower

import (
	"context"
	"errors"
	"log/slog"
)

// DefaultMaxGenerations bounds a single run. Physical inputs finish orders
// of magnitude earlier; the cap only trips for degenerate inputs such as a
// zero ionization loss.
const DefaultMaxGenerations = 1_000_000

// Engine runs showers. An Engine holds configuration only and is safe for
// concurrent use; every call to Simulate owns its own generations.
type Engine struct {
	maxGenerations int
	logger         *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxGenerations sets the generation cap. Zero or a negative value
// disables the cap.
func WithMaxGenerations(n int) Option {
	return func(e *Engine) {
		e.maxGenerations = n
	}
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxGenerations: DefaultMaxGenerations,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxGenerations returns the configured generation cap (0 = unbounded).
func (e *Engine) MaxGenerations() int {
	if e.maxGenerations < 0 {
		return 0
	}
	return e.maxGenerations
}

// Simulate runs one shower with the default engine.
func Simulate(p Params, src Source) (*Result, error) {
	return New().Simulate(context.Background(), p, src)
}

// Simulate runs one shower.
//
// Params are validated before any random draw; a *ParamError is returned
// with no partial result. Within a generation, entities step in order and
// the deposit is folded through them, so a given Source seed reproduces the
// run exactly. ctx is checked between generations.
func (e *Engine) Simulate(ctx context.Context, p Params, src Source) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, errors.New("simulate: nil random source")
	}

	var (
		loss    = p.IonizationLoss()
		s       = p.StepFraction
		limit   = e.MaxGenerations()
		current = []Entity{Primary(p)}
		next    []Entity
	)

	res := &Result{
		EnergyPerStep:     []float64{0},
		PopulationPerStep: []int{1},
	}

	for len(current) > 0 {
		if limit > 0 && res.Generations() >= limit {
			return nil, &GenerationLimitError{
				Generations: res.Generations(),
				Population:  len(current),
				Limit:       limit,
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var deposit float64
		for _, ent := range current {
			switch v := ent.(type) {
			case Charged:
				deposit, next = v.Step(src, loss, p.CriticalEnergy(v.Kind), s, deposit, next)
			case Photon:
				deposit, next = v.Step(src, s, deposit, next)
			}
		}

		res.EnergyPerStep = append(res.EnergyPerStep, deposit)
		res.PopulationPerStep = append(res.PopulationPerStep, len(next))

		// Double-buffer: the finished generation's backing array becomes the
		// next scratch buffer.
		current, next = next, current[:0]
	}

	res.TotalEnergy = sum(res.EnergyPerStep)

	peak, at := res.PeakPopulation()
	e.logger.Debug("shower complete",
		"initial_kind", p.Initial.String(),
		"e0", p.E0,
		"generations", res.Generations(),
		"peak_population", peak,
		"peak_step", at,
		"total_energy", res.TotalEnergy,
	)

	return res, nil
}
