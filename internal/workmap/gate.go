package workmap

import (
	"lexweave/internal/bundle"
	"lexweave/internal/integrity"
	"lexweave/internal/registry"
)

type schedKey struct {
	field registry.Field
	token int
	sense int
}

// gate answers "canCheck" for a field's dependency list. It is
// evolution-aware: a prerequisite counts as satisfiable when it already
// holds a valid value, when it is an origin field already present, or when
// it was scheduled earlier in this pass (the registry walk is topological,
// so the producing capability runs before the dependent one).
type gate struct {
	b         *bundle.Bundle
	scheduled map[schedKey]bool
}

func newGate(b *bundle.Bundle) *gate {
	return &gate{b: b, scheduled: make(map[schedKey]bool)}
}

func (g *gate) schedule(f registry.Field, sc integrity.Scope) {
	g.scheduled[schedKey{field: f, token: sc.Token, sense: sc.Sense}] = true
}

func (g *gate) isScheduled(f registry.Field, token, sense int) bool {
	return g.scheduled[schedKey{field: f, token: token, sense: sense}]
}

// CanCheck reports whether every prerequisite of e is satisfiable for the
// dependent scope sc. An unsatisfiable prerequisite forces the dependent's
// mask entry false regardless of its own integrity result.
func (g *gate) CanCheck(e registry.Entry, sc integrity.Scope) bool {
	for _, depField := range e.DependsOn {
		dep, ok := registry.Lookup(depField)
		if !ok {
			return false
		}
		if !g.satisfiable(dep, sc) {
			return false
		}
	}
	return true
}

func (g *gate) satisfiable(dep registry.Entry, sc integrity.Scope) bool {
	if dep.Origin {
		return integrity.Satisfied(dep, g.b, integrity.TopLevel(dep.Side))
	}
	switch dep.Scope {
	case registry.ScopeTopLevel:
		if integrity.Satisfied(dep, g.b, integrity.TopLevel(dep.Side)) {
			return true
		}
		return g.isScheduled(dep.Field, -1, -1)

	case registry.ScopeToken:
		if sc.Token >= 0 {
			if integrity.Satisfied(dep, g.b, integrity.TokenScope(dep.Side, sc.Token)) {
				return true
			}
			return g.isScheduled(dep.Field, sc.Token, -1)
		}
		return g.aggregateTokens(dep)

	case registry.ScopeSense:
		if sc.Token >= 0 && sc.Sense >= 0 {
			if integrity.Satisfied(dep, g.b, integrity.SenseScope(dep.Side, sc.Token, sc.Sense)) {
				return true
			}
			return g.isScheduled(dep.Field, sc.Token, sc.Sense)
		}
		return g.aggregateSenses(dep)

	default:
		return false
	}
}

// aggregateTokens evaluates a token-scoped prerequisite for a top-level
// dependent: every position the reference-id list requires must be valid or
// scheduled this pass.
func (g *gate) aggregateTokens(dep registry.Entry) bool {
	refs := g.b.Refs(dep.Side)
	if refs == nil {
		return false
	}
	for i := range refs {
		if integrity.Satisfied(dep, g.b, integrity.TokenScope(dep.Side, i)) {
			continue
		}
		if !g.isScheduled(dep.Field, i, -1) {
			return false
		}
	}
	return true
}

// aggregateSenses evaluates a sense-scoped prerequisite for a top-level
// dependent: every existing sense must be valid or scheduled, and every
// token whose collection is missing must have its first sense scheduled.
func (g *gate) aggregateSenses(dep registry.Entry) bool {
	tokens := g.b.SenseTokens(dep.Side)
	refs := g.b.Refs(dep.Side)
	if refs == nil {
		return false
	}
	for i := range refs {
		if i >= len(tokens) || tokens[i].Senses == nil {
			if !g.isScheduled(dep.Field, i, 0) {
				return false
			}
			continue
		}
		for j := range tokens[i].Senses {
			if integrity.Satisfied(dep, g.b, integrity.SenseScope(dep.Side, i, j)) {
				continue
			}
			if !g.isScheduled(dep.Field, i, j) {
				return false
			}
		}
	}
	return true
}
