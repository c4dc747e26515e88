// Package domain defines the portfolio domains folio manages and the
// record model shared by ingest, scoring, and analytics.
package domain

import (
	"fmt"
	"strings"
)

// Direction indicates whether higher raw attribute values are better.
type Direction int

const (
	HigherIsBetter Direction = iota
	LowerIsBetter
)

// AttributeSpec describes one scoreable attribute of a domain.
type AttributeSpec struct {
	Key       string    // column/profile key, exact match
	Label     string    // display label
	Direction Direction // inversion applied during normalization
	Min       float64   // default normalization lower bound
	Max       float64   // default normalization upper bound
}

// Domain is one portfolio vertical (applications, projects, contracts).
type Domain struct {
	Name       string
	Title      string
	Attributes []AttributeSpec
	Categories []string // recommendation buckets, best first
}

// Attribute returns the spec for key, or false if the domain has no such attribute.
func (d Domain) Attribute(key string) (AttributeSpec, bool) {
	for _, a := range d.Attributes {
		if a.Key == key {
			return a, true
		}
	}
	return AttributeSpec{}, false
}

// HasCategory reports whether cat is a valid bucket for this domain.
func (d Domain) HasCategory(cat string) bool {
	for _, c := range d.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Record is a single portfolio item. Attributes holds the raw numeric
// values keyed by AttributeSpec.Key; Metadata carries everything else
// from the source table (owner, vendor, business unit...).
type Record struct {
	ID         string
	Name       string
	Domain     string
	Attributes map[string]float64
	Metadata   map[string]string
	AnnualCost float64
}

// Registry resolves domain names to definitions.
type Registry struct {
	order   []string
	domains map[string]Domain
}

// NewRegistry builds a registry from the given domains, preserving order.
func NewRegistry(domains ...Domain) *Registry {
	r := &Registry{domains: make(map[string]Domain, len(domains))}
	for _, d := range domains {
		key := strings.ToLower(d.Name)
		if _, dup := r.domains[key]; dup {
			continue
		}
		r.order = append(r.order, key)
		r.domains[key] = d
	}
	return r
}

// Get resolves a domain by name (case-insensitive).
func (r *Registry) Get(name string) (Domain, error) {
	d, ok := r.domains[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Domain{}, fmt.Errorf("unknown domain %q (known: %s)", name, strings.Join(r.order, ", "))
	}
	return d, nil
}

// Domains returns all registered domains in registration order.
func (r *Registry) Domains() []Domain {
	out := make([]Domain, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.domains[name])
	}
	return out
}
