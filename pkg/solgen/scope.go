package solgen

// Scope is the insertion-ordered set of bindings visible at a generation
// point. Copies share the identifier allocator and random source but never
// bindings: a Bind on one copy is invisible to every other.
type Scope struct {
	r        *rng
	ids      *identAllocator
	order    []string
	bindings map[string]Binding
}

func newScope(r *rng, ids *identAllocator) *Scope {
	return &Scope{r: r, ids: ids, bindings: map[string]Binding{}}
}

// Has reports whether at least one binding has type t.
func (s *Scope) Has(t Type) bool {
	for _, name := range s.order {
		if s.bindings[name].Type == t {
			return true
		}
	}
	return false
}

// Lookup picks a binding of type t uniformly.
func (s *Scope) Lookup(t Type) (Binding, error) {
	names := s.Names(t)
	if len(names) == 0 {
		return Binding{}, &EmptyScopeError{Type: t}
	}
	return s.bindings[names[s.r.upto(uint32(len(names)))]], nil
}

// Bind allocates a fresh identifier for value and returns it.
func (s *Scope) Bind(t Type, v Value) string {
	name := s.ids.next()
	s.order = append(s.order, name)
	s.bindings[name] = Binding{Name: name, Type: t, Value: v}
	return name
}

// Get returns the binding named name.
func (s *Scope) Get(name string) (Binding, bool) {
	b, ok := s.bindings[name]
	return b, ok
}

// Names lists, in insertion order, the bindings whose type is one of types.
func (s *Scope) Names(types ...Type) []string {
	var out []string
	for _, name := range s.order {
		bt := s.bindings[name].Type
		for _, t := range types {
			if bt == t {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// Len is the number of bindings in scope.
func (s *Scope) Len() int {
	return len(s.order)
}

func (s *Scope) Copy() *Scope {
	c := &Scope{
		r:        s.r,
		ids:      s.ids,
		order:    make([]string, len(s.order)),
		bindings: make(map[string]Binding, len(s.bindings)),
	}
	copy(c.order, s.order)
	for k, v := range s.bindings {
		c.bindings[k] = v
	}
	return c
}
