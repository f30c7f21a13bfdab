package dataset

import "math"

// Columns is a minimal named-column Source. Column order is insertion order.
type Columns struct {
	names []string
	data  map[string][]float64
}

// NewColumns returns an empty Columns.
func NewColumns() *Columns {
	return &Columns{data: make(map[string][]float64)}
}

// Set stores values under name, replacing any previous series.
func (c *Columns) Set(name string, values []float64) {
	if _, ok := c.data[name]; !ok {
		c.names = append(c.names, name)
	}
	c.data[name] = append([]float64(nil), values...)
}

// Column implements Source.
func (c *Columns) Column(name string) ([]float64, bool) {
	v, ok := c.data[name]
	if !ok {
		return nil, false
	}

	return append([]float64(nil), v...), true
}

// Names returns the column names in insertion order.
func (c *Columns) Names() []string { return append([]string(nil), c.names...) }

// Missing is the marker for an absent observation.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v marks an absent observation.
func IsMissing(v float64) bool { return math.IsNaN(v) }
