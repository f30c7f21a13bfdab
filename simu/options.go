package simu

import "go.uber.org/zap"

// Default scenario and mode labels of the PROaCTIVE simulation.
var (
	DefaultScenarios = []string{"PROaCTIVE : Cardio A", "PROaCTIVE : Cardio B", "PROaCTIVE : Respiratory"}
	DefaultModes     = []string{"Socratic", "Verbal", "Mixed"}
)

// Options configures GenerateScores.
type Options struct {
	// Scenarios and Modes span the per-attempt cross product.
	Scenarios []string
	Modes     []string

	// Shuffle controls the final presentation shuffle (default true).
	Shuffle bool

	Logger *zap.Logger
}

// Option is a functional option for GenerateScores.
type Option func(*Options)

// DefaultOptions returns the three PROaCTIVE scenarios and modes, shuffled
// output and a no-op logger.
func DefaultOptions() Options {
	return Options{
		Scenarios: append([]string(nil), DefaultScenarios...),
		Modes:     append([]string(nil), DefaultModes...),
		Shuffle:   true,
		Logger:    zap.NewNop(),
	}
}

// WithScenarios overrides the scenario labels.
func WithScenarios(labels ...string) Option {
	return func(o *Options) { o.Scenarios = append([]string(nil), labels...) }
}

// WithModes overrides the mode labels.
func WithModes(labels ...string) Option {
	return func(o *Options) { o.Modes = append([]string(nil), labels...) }
}

// WithoutShuffle keeps rows in generation order.
func WithoutShuffle() Option {
	return func(o *Options) { o.Shuffle = false }
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
