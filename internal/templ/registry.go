package templ

import (
	"fmt"

	"cxfront/internal/ast"
	"cxfront/internal/diag"
	"cxfront/internal/source"
	"cxfront/internal/types"
)

// InstKind identifies the kind of entity an instantiation produced.
type InstKind uint8

const (
	// InstClass is a class-template instantiation.
	InstClass InstKind = iota
	// InstVar is a variable-template instantiation.
	InstVar
	// InstAlias is an alias-template instantiation.
	InstAlias
	// InstFunc is a function-template instantiation.
	InstFunc
)

func (k InstKind) String() string {
	switch k {
	case InstClass:
		return "class"
	case InstVar:
		return "var"
	case InstAlias:
		return "alias"
	case InstFunc:
		return "fn"
	default:
		return fmt.Sprintf("InstKind(%d)", k)
	}
}

// InstState tracks the two-phase lifecycle of a cache entry: a
// placeholder is registered before substitution recurses into the
// body, and patched once substitution completes.
type InstState uint8

const (
	// InstPending means the placeholder is registered but the body is
	// still being substituted.
	InstPending InstState = iota
	// InstDone means the node contents are final.
	InstDone
	// InstFailed marks an entry whose substitution errored; it stays
	// in the cache so the failure is not retried.
	InstFailed
)

// Instantiation is one memoized instantiation.
type Instantiation struct {
	Key   InstKey
	Hash  uint64
	Kind  InstKind
	State InstState

	// Args is the positional argument list as written. The key splits
	// arguments by kind, so the interleave of type, value and template
	// arguments survives only here; nested template-id matching reads
	// it back.
	Args []TypeArg

	// Name is the mangled instance name.
	Name source.StringID
	// Node is the concrete declaration; during InstPending it is the
	// placeholder being patched.
	Node *ast.Node
	// Type is the minted table handle for class instantiations.
	Type types.Handle
	// Result is the resolved target for alias instantiations.
	Result TypeArg

	// Value is the finalized constant for variable instantiations.
	Value    int64
	HasValue bool

	// Pattern records the chosen specialization, nil for the primary.
	Pattern *Pattern
}

// ExactSpec is a full specialization: one exact, fully concrete
// argument list resolving to a dedicated declaration.
type ExactSpec struct {
	Args []TypeArg
	Node *ast.Node
}

// Registry owns every declared template, their specialization
// patterns, exact specializations, deduction guides, out-of-line
// member definitions and the instantiation memo cache for one
// compilation. It is not a global: a Session threads one Registry
// value through the pipeline and Clear resets it between runs.
type Registry struct {
	strings *source.Interner

	classTemplates map[source.StringID]*ast.Node
	funcTemplates  map[source.StringID][]*ast.Node
	aliasTemplates map[source.StringID]*ast.Node
	varTemplates   map[source.StringID]*ast.Node

	// patterns: class partial specializations; varPatterns: variable
	// template partial specializations.
	patterns    map[source.StringID][]*Pattern
	varPatterns map[source.StringID][]*Pattern
	exact       map[source.StringID][]*ExactSpec
	guides      map[source.StringID][]*DeductionGuide
	pending     map[source.StringID][]*OutOfLineMember
	// outer: bindings of an already-instantiated enclosing class, for
	// member templates declared inside it.
	outer map[source.StringID]*Bindings

	cache    map[uint64][]*Instantiation
	byHandle map[types.Handle]*Instantiation
	byName   map[source.StringID]*Instantiation

	patternSeq int
}

// NewRegistry constructs an empty registry backed by the interner.
func NewRegistry(strings *source.Interner) *Registry {
	r := &Registry{strings: strings}
	r.reset()
	return r
}

func (r *Registry) reset() {
	r.classTemplates = make(map[source.StringID]*ast.Node)
	r.funcTemplates = make(map[source.StringID][]*ast.Node)
	r.aliasTemplates = make(map[source.StringID]*ast.Node)
	r.varTemplates = make(map[source.StringID]*ast.Node)
	r.patterns = make(map[source.StringID][]*Pattern)
	r.varPatterns = make(map[source.StringID][]*Pattern)
	r.exact = make(map[source.StringID][]*ExactSpec)
	r.guides = make(map[source.StringID][]*DeductionGuide)
	r.pending = make(map[source.StringID][]*OutOfLineMember)
	r.outer = make(map[source.StringID]*Bindings)
	r.cache = make(map[uint64][]*Instantiation)
	r.byHandle = make(map[types.Handle]*Instantiation)
	r.byName = make(map[source.StringID]*Instantiation)
	r.patternSeq = 0
}

// Clear resets every table. Only used between independent compilation
// runs; within one compilation nothing is ever removed.
func (r *Registry) Clear() {
	r.reset()
}

// --- declaration tables -----------------------------------------------------

// RegisterClassTemplate records a primary class template under both
// its plain and qualified names.
func (r *Registry) RegisterClassTemplate(node *ast.Node) error {
	data, ok := node.Data.(ast.TemplateClassData)
	if !ok {
		return fmt.Errorf("templ: node %s is not a class template", node.Kind)
	}
	if _, dup := r.classTemplates[data.Name]; dup {
		return fmt.Errorf("templ: class template %q already registered", r.name(data.Name))
	}
	r.classTemplates[data.Name] = node
	if data.Qualified != source.NoStringID {
		r.classTemplates[data.Qualified] = node
	}
	return nil
}

// ClassTemplate looks up a primary class template, with qualified
// lookup falling back to the unqualified name.
func (r *Registry) ClassTemplate(name source.StringID) (*ast.Node, bool) {
	return lookupQualified(r, r.classTemplates, name)
}

// RegisterFuncTemplate appends a function template to the overload set
// for its name.
func (r *Registry) RegisterFuncTemplate(node *ast.Node) error {
	data, ok := node.Data.(ast.TemplateFuncData)
	if !ok {
		return fmt.Errorf("templ: node %s is not a function template", node.Kind)
	}
	r.funcTemplates[data.Name] = append(r.funcTemplates[data.Name], node)
	if data.Qualified != source.NoStringID {
		r.funcTemplates[data.Qualified] = append(r.funcTemplates[data.Qualified], node)
	}
	return nil
}

// FunctionOverloads returns the registered function-template overloads
// for name in registration order.
func (r *Registry) FunctionOverloads(name source.StringID) []*ast.Node {
	if set, ok := lookupQualified(r, r.funcTemplates, name); ok {
		return set
	}
	return nil
}

// RegisterAliasTemplate records an alias template.
func (r *Registry) RegisterAliasTemplate(node *ast.Node) error {
	data, ok := node.Data.(ast.TemplateAliasData)
	if !ok {
		return fmt.Errorf("templ: node %s is not an alias template", node.Kind)
	}
	if _, dup := r.aliasTemplates[data.Name]; dup {
		return fmt.Errorf("templ: alias template %q already registered", r.name(data.Name))
	}
	r.aliasTemplates[data.Name] = node
	if data.Qualified != source.NoStringID {
		r.aliasTemplates[data.Qualified] = node
	}
	return nil
}

// AliasTemplate looks up an alias template.
func (r *Registry) AliasTemplate(name source.StringID) (*ast.Node, bool) {
	return lookupQualified(r, r.aliasTemplates, name)
}

// RegisterVarTemplate records a primary variable template.
func (r *Registry) RegisterVarTemplate(node *ast.Node) error {
	data, ok := node.Data.(ast.TemplateVarData)
	if !ok {
		return fmt.Errorf("templ: node %s is not a variable template", node.Kind)
	}
	if _, dup := r.varTemplates[data.Name]; dup {
		return fmt.Errorf("templ: variable template %q already registered", r.name(data.Name))
	}
	r.varTemplates[data.Name] = node
	if data.Qualified != source.NoStringID {
		r.varTemplates[data.Qualified] = node
	}
	return nil
}

// VarTemplate looks up a primary variable template.
func (r *Registry) VarTemplate(name source.StringID) (*ast.Node, bool) {
	return lookupQualified(r, r.varTemplates, name)
}

// RegisterPattern appends a class partial-specialization pattern.
// Patterns are append-only; seq records registration order for
// tie-breaking.
func (r *Registry) RegisterPattern(name source.StringID, p *Pattern) {
	p.seq = r.patternSeq
	r.patternSeq++
	r.patterns[name] = append(r.patterns[name], p)
}

// Patterns returns the registered partial specializations for name.
func (r *Registry) Patterns(name source.StringID) []*Pattern {
	if set, ok := lookupQualified(r, r.patterns, name); ok {
		return set
	}
	return nil
}

// RegisterVarPattern appends a variable-template partial
// specialization pattern.
func (r *Registry) RegisterVarPattern(name source.StringID, p *Pattern) {
	p.seq = r.patternSeq
	r.patternSeq++
	r.varPatterns[name] = append(r.varPatterns[name], p)
}

// VarPatterns returns the variable-template partial specializations.
func (r *Registry) VarPatterns(name source.StringID) []*Pattern {
	if set, ok := lookupQualified(r, r.varPatterns, name); ok {
		return set
	}
	return nil
}

// RegisterExactSpecialization records a full specialization for one
// exact argument list. A second registration over an equivalent list is
// reported and rejected; the first definition stays.
func (r *Registry) RegisterExactSpecialization(name source.StringID, args []TypeArg, node *ast.Node, reporter diag.Reporter) error {
	for _, spec := range r.exact[name] {
		if argListsEqual(spec.Args, args) {
			var span source.Span
			if node != nil {
				span = node.Span
			}
			diag.ReportError(reporter, diag.TplDuplicateSpecialization, span,
				fmt.Sprintf("duplicate full specialization of %q", r.name(name)))
			return fmt.Errorf("templ: duplicate full specialization of %q", r.name(name))
		}
	}
	r.exact[name] = append(r.exact[name], &ExactSpec{Args: cloneArgs(args), Node: node})
	return nil
}

// ExactSpecialization finds a registered full specialization whose
// argument list equals args.
func (r *Registry) ExactSpecialization(name source.StringID, args []TypeArg) (*ExactSpec, bool) {
	set, ok := lookupQualified(r, r.exact, name)
	if !ok {
		return nil, false
	}
	for _, spec := range set {
		if argListsEqual(spec.Args, args) {
			return spec, true
		}
	}
	return nil, false
}

// RegisterOuterBindings records the parameter bindings of an
// already-instantiated enclosing class so member templates declared
// inside it can resolve the outer parameters.
func (r *Registry) RegisterOuterBindings(member source.StringID, b *Bindings) {
	r.outer[member] = b
}

// OuterBindings returns the enclosing-class bindings for a member
// template, if any.
func (r *Registry) OuterBindings(member source.StringID) (*Bindings, bool) {
	b, ok := r.outer[member]
	return b, ok
}

// --- specialization selection -----------------------------------------------

// MatchedPattern couples a matching pattern with its bindings and
// score during selection.
type MatchedPattern struct {
	Pattern  *Pattern
	Bindings *Bindings
	Score    int
}

// LookupSpecialization picks the definition for (name, args): the
// exact-specialization table wins outright, otherwise the
// highest-scoring matching pattern from the candidate set. A true
// score tie between distinct patterns is resolved by registration
// order and surfaced as an ambiguity warning through the reporter.
func (r *Registry) LookupSpecialization(name source.StringID, args []TypeArg, table *types.Table, reporter diag.Reporter) (*ast.Node, *MatchedPattern, bool) {
	if spec, ok := r.ExactSpecialization(name, args); ok {
		return spec.Node, nil, true
	}
	best := r.bestPattern(r.Patterns(name), args, table, reporter, name)
	if best == nil {
		return nil, nil, false
	}
	return best.Pattern.Node, best, true
}

// LookupVarSpecialization is LookupSpecialization over the
// variable-template pattern table.
func (r *Registry) LookupVarSpecialization(name source.StringID, args []TypeArg, table *types.Table, reporter diag.Reporter) (*MatchedPattern, bool) {
	best := r.bestPattern(r.VarPatterns(name), args, table, reporter, name)
	if best == nil {
		return nil, false
	}
	return best, true
}

func (r *Registry) bestPattern(candidates []*Pattern, args []TypeArg, table *types.Table, reporter diag.Reporter, name source.StringID) *MatchedPattern {
	var best *MatchedPattern
	tied := false
	for _, p := range candidates {
		b, ok := p.Match(args, table, r)
		if !ok {
			continue
		}
		score := p.Specificity()
		switch {
		case best == nil || score > best.Score:
			best = &MatchedPattern{Pattern: p, Bindings: b, Score: score}
			tied = false
		case score == best.Score && p != best.Pattern:
			tied = true
			if p.seq < best.Pattern.seq {
				best = &MatchedPattern{Pattern: p, Bindings: b, Score: score}
			}
		}
	}
	if best != nil && tied {
		// Registration order decides, but the partial-ordering rules
		// would call this ambiguous; let diagnostics know.
		diag.ReportWarning(reporter, diag.TplAmbiguousSpecialization, best.Pattern.Node.Span,
			fmt.Sprintf("specialization choice for %q is ambiguous; keeping the first registered pattern", r.name(name)))
	}
	return best
}

// --- instantiation cache ----------------------------------------------------

// HasInstantiation reports whether an instantiation for key exists
// (placeholder or final).
func (r *Registry) HasInstantiation(key InstKey) bool {
	_, ok := r.Instantiation(key)
	return ok
}

// Instantiation finds the cache entry for key.
func (r *Registry) Instantiation(key InstKey) (*Instantiation, bool) {
	h := key.Hash()
	for _, inst := range r.cache[h] {
		if inst.Key.Equal(key) {
			return inst, true
		}
	}
	return nil, false
}

// RegisterInstantiation inserts a cache entry. Re-registering an
// existing key is a no-op returning the stored entry: the cache
// guarantees at most one instantiation per unique (template, args).
func (r *Registry) RegisterInstantiation(inst *Instantiation) *Instantiation {
	if existing, ok := r.Instantiation(inst.Key); ok {
		return existing
	}
	inst.Hash = inst.Key.Hash()
	r.cache[inst.Hash] = append(r.cache[inst.Hash], inst)
	if inst.Type.IsValid() {
		r.byHandle[inst.Type] = inst
	}
	if inst.Name != source.NoStringID {
		r.byName[inst.Name] = inst
	}
	return inst
}

// bindInstanceType associates the minted type handle with the entry
// once it exists (class placeholders mint the handle after the entry).
func (r *Registry) bindInstanceType(inst *Instantiation, h types.Handle) {
	inst.Type = h
	if h.IsValid() {
		r.byHandle[h] = inst
	}
}

// InstantiationByName finds a cache entry by its mangled name.
func (r *Registry) InstantiationByName(name source.StringID) (*Instantiation, bool) {
	inst, ok := r.byName[name]
	return inst, ok
}

// instantiationArgs resolves a concrete type handle to the template it
// was instantiated from and the arguments used — the record the
// matcher consumes for nested template-id patterns.
func (r *Registry) instantiationArgs(h types.Handle) (source.StringID, []TypeArg, bool) {
	inst, ok := r.byHandle[h]
	if !ok {
		return source.NoStringID, nil, false
	}
	args := inst.Args
	if args == nil && len(inst.Key.Values) == 0 && len(inst.Key.TemplateRefs) == 0 {
		// A type-only key carries the full positional list itself.
		args = inst.Key.TypeArgs
	}
	return inst.Key.Template, args, true
}

// Instantiations returns every cache entry in unspecified order.
func (r *Registry) Instantiations() []*Instantiation {
	out := make([]*Instantiation, 0, len(r.byName))
	for _, bucket := range r.cache {
		out = append(out, bucket...)
	}
	return out
}

// --- helpers ------------------------------------------------------------------

// name renders a StringID for error messages.
func (r *Registry) name(id source.StringID) string {
	if r.strings == nil {
		return fmt.Sprintf("str#%d", id)
	}
	s, ok := r.strings.Lookup(id)
	if !ok {
		return fmt.Sprintf("str#%d", id)
	}
	return s
}

// lookupQualified tries the name as given, then falls back from a
// namespace-qualified name to its unqualified tail.
func lookupQualified[V any](r *Registry, m map[source.StringID]V, name source.StringID) (V, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	var zero V
	if r.strings == nil {
		return zero, false
	}
	full, ok := r.strings.Lookup(name)
	if !ok {
		return zero, false
	}
	tail := source.Unqualify(full)
	if tail == full {
		return zero, false
	}
	v, ok := m[r.strings.Intern(tail)]
	return v, ok
}

func argListsEqual(a, b []TypeArg) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func cloneArgs(args []TypeArg) []TypeArg {
	if len(args) == 0 {
		return nil
	}
	out := make([]TypeArg, len(args))
	copy(out, args)
	return out
}
