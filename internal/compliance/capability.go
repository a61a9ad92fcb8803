package compliance

import "fairworkly/internal/awards"

// Flags are the caller-supplied per-category switches. Pre-validation is not
// flag-gated; it always runs.
type Flags struct {
	BaseRate       bool
	PenaltyRate    bool
	CasualLoading  bool
	Superannuation bool
}

// AllEnabled returns flags with every rule switched on.
func AllEnabled() Flags {
	return Flags{BaseRate: true, PenaltyRate: true, CasualLoading: true, Superannuation: true}
}

// Capability binds one rule to the flag controlling it. The table is built
// once at startup; the orchestrator walks it in order instead of dispatching
// on rule names.
type Capability struct {
	Rule    Rule
	Enabled func(Flags) bool
}

// Capabilities returns the capability table in fixed evaluation order.
func Capabilities(provider *awards.Provider) []Capability {
	return []Capability{
		{Rule: &BaseRateRule{provider: provider}, Enabled: func(f Flags) bool { return f.BaseRate }},
		{Rule: &PenaltyRateRule{provider: provider}, Enabled: func(f Flags) bool { return f.PenaltyRate }},
		{Rule: &CasualLoadingRule{provider: provider}, Enabled: func(f Flags) bool { return f.CasualLoading }},
		{Rule: &SuperannuationRule{}, Enabled: func(f Flags) bool { return f.Superannuation }},
	}
}
