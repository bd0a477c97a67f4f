package rules

import "fmt"

// Registry is an ordered, read-only rule list with lookup by id.
type Registry struct {
	list []*Rule
	byID map[string]*Rule
}

// NewRegistry panics on duplicate ids; rule sets are assembled in code.
func NewRegistry(rules ...*Rule) *Registry {
	r := &Registry{list: rules, byID: make(map[string]*Rule, len(rules))}
	for _, rule := range rules {
		if _, dup := r.byID[rule.ID]; dup {
			panic(fmt.Sprintf("rules: duplicate rule id %q", rule.ID))
		}
		r.byID[rule.ID] = rule
	}
	return r
}

// All returns the rules in registration order.
func (r *Registry) All() []*Rule {
	out := make([]*Rule, len(r.list))
	copy(out, r.list)
	return out
}

func (r *Registry) Lookup(id string) (*Rule, bool) {
	rule, ok := r.byID[id]
	return rule, ok
}

func (r *Registry) Len() int {
	return len(r.list)
}

// Without returns a registry without the given ids. Unknown ids are
// returned so callers can warn about them.
func (r *Registry) Without(ids []string) (*Registry, []string) {
	if len(ids) == 0 {
		return r, nil
	}
	drop := make(map[string]bool, len(ids))
	var unknown []string
	for _, id := range ids {
		if _, ok := r.byID[id]; !ok {
			unknown = append(unknown, id)
			continue
		}
		drop[id] = true
	}
	kept := make([]*Rule, 0, len(r.list))
	for _, rule := range r.list {
		if !drop[rule.ID] {
			kept = append(kept, rule)
		}
	}
	return NewRegistry(kept...), unknown
}

var defaultRegistry = NewRegistry(
	noExportLet,
	noReactiveStatements,
	noEffectStateMutation,
	preferSnippets,
	noEventDispatcher,
	requireNativeEvents,
	noComponentConstructor,
	preferDerivedOverEffect,
	noStaleDerivedLet,
	requireBindableRune,
	reactivityLossPrimitive,
	noMagicProps,
	noSvelteComponent,
	noEventModifiers,
	requireSnippetInvocation,
	kitNoSharedServerState,
	kitServerOnlySecrets,
	kitRequireUseEnhance,
	kitNoGotoInServer,
	perfNoLoadWaterfalls,
	perfPreferStateRaw,
	perfNoFunctionDerived,
)

// Default returns the built-in catalog.
func Default() *Registry {
	return defaultRegistry
}
