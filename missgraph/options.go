package missgraph

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Granularity selects what a MissGraph node stands for.
type Granularity int

const (
	// Element nodes are individual rubric elements.
	Element Granularity = iota
	// Domain nodes summarize every active element of a domain.
	Domain
)

// String implements fmt.Stringer.
func (g Granularity) String() string {
	switch g {
	case Element:
		return "element"
	case Domain:
		return "domain"
	default:
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
}

// ParseGranularity accepts "element" or "domain", case-insensitively.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "element", "elements":
		return Element, nil
	case "domain", "domains":
		return Domain, nil
	default:
		return Element, fmt.Errorf("%w: %q", ErrBadGranularity, s)
	}
}

// Defaults for Build.
const (
	DefaultMissThreshold = 2.0
	DefaultMinMisses     = 2

	// FocusedUniverse is the active element count at or below which the
	// effective minimum co-miss count drops to 1.
	FocusedUniverse = 4
)

// Options configures Build and BuildRiskMap.
type Options struct {
	Granularity   Granularity
	MissThreshold float64
	MinMisses     int

	// Focus restricts the active elements to the listed domains and/or
	// elements. nil means every element; a non-nil empty slice selects
	// nothing.
	Focus []string

	Logger *zap.Logger
}

// Option is a functional option for Build.
type Option func(*Options)

// DefaultOptions returns element granularity, threshold 2.0 and min misses 2.
func DefaultOptions() Options {
	return Options{
		Granularity:   Element,
		MissThreshold: DefaultMissThreshold,
		MinMisses:     DefaultMinMisses,
		Logger:        zap.NewNop(),
	}
}

// WithGranularity selects element or domain nodes.
func WithGranularity(g Granularity) Option {
	return func(o *Options) { o.Granularity = g }
}

// WithMissThreshold sets the score below which an element counts as missed.
func WithMissThreshold(t float64) Option {
	return func(o *Options) { o.MissThreshold = t }
}

// WithMinMisses sets the configured minimum co-miss count.
func WithMinMisses(n int) Option {
	return func(o *Options) { o.MinMisses = n }
}

// WithFocus restricts analysis to the named domains and/or elements.
func WithFocus(names ...string) Option {
	return func(o *Options) {
		o.Focus = append(make([]string, 0, len(names)), names...)
	}
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
