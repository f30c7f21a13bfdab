// Package rubric defines the static competency configuration every generator
// and analyzer is parameterised with: an ordered list of Domains, each owning
// an ordered list of Elements.
//
// A CriteriaSet is immutable after construction and is always passed
// explicitly. Several sets (e.g. PROaCTIVE and a site-specific variant) can
// coexist in one process without sharing state.
package rubric

import (
	"errors"
	"fmt"
)

// Sentinel errors for malformed criteria configuration.
var (
	// ErrEmptyCriteria indicates a CriteriaSet with no domains.
	ErrEmptyCriteria = errors.New("rubric: criteria set has no domains")

	// ErrEmptyDomain indicates a domain without a name or without elements.
	ErrEmptyDomain = errors.New("rubric: domain is empty")

	// ErrDuplicateElement indicates an element or domain name used twice.
	ErrDuplicateElement = errors.New("rubric: duplicate name")
)

// Domain is a named competency group and its ordered elements.
type Domain struct {
	Name     string   `json:"name" mapstructure:"name"`
	Elements []string `json:"elements" mapstructure:"elements"`
}

// CriteriaSet partitions all Elements into Domains.
type CriteriaSet struct {
	name     string
	domains  []Domain
	elements []string
	owner    map[string]int // element → domain index
	index    map[string]int // element → position in elements
	dindex   map[string]int // domain → position in domains
}

// New validates domains and returns an immutable CriteriaSet.
// Domains and elements keep the order given.
func New(name string, domains []Domain) (*CriteriaSet, error) {
	if len(domains) == 0 {
		return nil, ErrEmptyCriteria
	}
	cs := &CriteriaSet{
		name:   name,
		owner:  make(map[string]int),
		index:  make(map[string]int),
		dindex: make(map[string]int, len(domains)),
	}
	for di, d := range domains {
		if d.Name == "" || len(d.Elements) == 0 {
			return nil, fmt.Errorf("%w: domain #%d %q", ErrEmptyDomain, di, d.Name)
		}
		if _, dup := cs.dindex[d.Name]; dup {
			return nil, fmt.Errorf("%w: domain %q", ErrDuplicateElement, d.Name)
		}
		cs.dindex[d.Name] = di
		elems := make([]string, len(d.Elements))
		for i, el := range d.Elements {
			if el == "" {
				return nil, fmt.Errorf("%w: domain %q has an unnamed element", ErrEmptyDomain, d.Name)
			}
			if _, dup := cs.owner[el]; dup {
				return nil, fmt.Errorf("%w: element %q", ErrDuplicateElement, el)
			}
			cs.owner[el] = di
			cs.index[el] = len(cs.elements)
			cs.elements = append(cs.elements, el)
			elems[i] = el
		}
		cs.domains = append(cs.domains, Domain{Name: d.Name, Elements: elems})
	}

	return cs, nil
}

// MustNew is like New but panics on error. Intended for static sets.
func MustNew(name string, domains []Domain) *CriteriaSet {
	cs, err := New(name, domains)
	if err != nil {
		panic(err)
	}

	return cs
}

// Name returns the criteria set label.
func (cs *CriteriaSet) Name() string { return cs.name }

// Domains returns a copy of the ordered domains.
func (cs *CriteriaSet) Domains() []Domain {
	out := make([]Domain, len(cs.domains))
	for i, d := range cs.domains {
		out[i] = Domain{Name: d.Name, Elements: append([]string(nil), d.Elements...)}
	}

	return out
}

// DomainNames returns the ordered domain names.
func (cs *CriteriaSet) DomainNames() []string {
	out := make([]string, len(cs.domains))
	for i, d := range cs.domains {
		out[i] = d.Name
	}

	return out
}

// Elements returns all elements, domain by domain, in configuration order.
func (cs *CriteriaSet) Elements() []string {
	return append([]string(nil), cs.elements...)
}

// ElementsOf returns the elements of domain, or nil if the domain is unknown.
func (cs *CriteriaSet) ElementsOf(domain string) []string {
	di, ok := cs.dindex[domain]
	if !ok {
		return nil
	}

	return append([]string(nil), cs.domains[di].Elements...)
}

// DomainOf returns the domain that owns element.
func (cs *CriteriaSet) DomainOf(element string) (string, bool) {
	di, ok := cs.owner[element]
	if !ok {
		return "", false
	}

	return cs.domains[di].Name, true
}

// HasElement reports whether element belongs to the set.
func (cs *CriteriaSet) HasElement(element string) bool {
	_, ok := cs.owner[element]
	return ok
}

// HasDomain reports whether domain belongs to the set.
func (cs *CriteriaSet) HasDomain(domain string) bool {
	_, ok := cs.dindex[domain]
	return ok
}

// ElementCount returns the total number of elements.
func (cs *CriteriaSet) ElementCount() int { return len(cs.elements) }
