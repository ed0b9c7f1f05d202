package rating

import "sync/atomic"

// =============================================================================
// ENGINE - Immutable rate table + factor engine bundle
// =============================================================================

// Engine bundles the two configuration-derived components a calculation
// needs. Both are immutable, so an Engine is safe for any number of
// concurrent calculations.
type Engine struct {
	Rates   *RateTable
	Factors *FactorEngine
}

// NewEngine bundles a rate table and factor engine.
func NewEngine(rates *RateTable, factors *FactorEngine) *Engine {
	return &Engine{Rates: rates, Factors: factors}
}

// =============================================================================
// PROVIDER - Atomic reload-by-swap
// =============================================================================

// Provider hands out the current Engine and supports whole-instance
// replacement. A reload never mutates a live engine: it builds a fresh
// one and swaps the pointer, so readers see either the fully-old or the
// fully-new instance and in-flight calculations keep the engine they
// started with. No locks on the hot path.
type Provider struct {
	current atomic.Pointer[Engine]
}

// NewProvider creates a provider serving the given engine.
func NewProvider(e *Engine) *Provider {
	p := &Provider{}
	p.current.Store(e)
	return p
}

// Current returns the engine new calculations should use.
func (p *Provider) Current() *Engine {
	return p.current.Load()
}

// Swap atomically replaces the served engine and returns the previous one.
func (p *Provider) Swap(e *Engine) *Engine {
	return p.current.Swap(e)
}
