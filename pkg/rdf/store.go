package rdf

// Store is an immutable, insertion-ordered set of triples with lookup
// indexes by subject, predicate, object and (subject, predicate).
// A Store is safe for concurrent reads.
type Store struct {
	triples     []Triple
	set         map[Triple]struct{}
	bySubject   map[Term][]int
	byPredicate map[Term][]int
	byObject    map[Term][]int
	bySP        map[spKey][]int
	subjects    []Term
	predicates  []Term
}

type spKey struct {
	s Term
	p Term
}

// Builder accumulates triples for a Store. Duplicate triples collapse,
// keeping the position of the first occurrence.
type Builder struct {
	store *Store
	err   error
	count int
}

// NewBuilder creates an empty store builder
func NewBuilder() *Builder {
	return &Builder{store: newStore(0)}
}

// Add validates and appends a triple. After the first invalid triple the
// builder records the error and ignores further input.
func (b *Builder) Add(t Triple) *Builder {
	if b.err != nil {
		return b
	}
	if err := t.validate(b.count); err != nil {
		b.err = err
		return b
	}
	b.count++
	b.store.add(t)
	return b
}

// Err returns the first validation error, if any
func (b *Builder) Err() error {
	return b.err
}

// Build returns the accumulated store, or the first validation error.
// The builder must not be used after Build.
func (b *Builder) Build() (*Store, error) {
	if b.err != nil {
		return nil, b.err
	}
	s := b.store
	b.store = nil
	return s, nil
}

// NewStore builds a store from triples. Any malformed triple fails the whole call.
func NewStore(triples ...Triple) (*Store, error) {
	for i, t := range triples {
		if err := t.validate(i); err != nil {
			return nil, err
		}
	}
	s := newStore(len(triples))
	for _, t := range triples {
		s.add(t)
	}
	return s, nil
}

// EmptyStore returns a store with no triples
func EmptyStore() *Store {
	return newStore(0)
}

func newStore(capacity int) *Store {
	return &Store{
		triples:     make([]Triple, 0, capacity),
		set:         make(map[Triple]struct{}, capacity),
		bySubject:   make(map[Term][]int),
		byPredicate: make(map[Term][]int),
		byObject:    make(map[Term][]int),
		bySP:        make(map[spKey][]int),
	}
}

func (s *Store) add(t Triple) {
	if _, dup := s.set[t]; dup {
		return
	}
	idx := len(s.triples)
	s.triples = append(s.triples, t)
	s.set[t] = struct{}{}

	if _, seen := s.bySubject[t.Subject]; !seen {
		s.subjects = append(s.subjects, t.Subject)
	}
	s.bySubject[t.Subject] = append(s.bySubject[t.Subject], idx)

	if _, seen := s.byPredicate[t.Predicate]; !seen {
		s.predicates = append(s.predicates, t.Predicate)
	}
	s.byPredicate[t.Predicate] = append(s.byPredicate[t.Predicate], idx)

	s.byObject[t.Object] = append(s.byObject[t.Object], idx)

	key := spKey{s: t.Subject, p: t.Predicate}
	s.bySP[key] = append(s.bySP[key], idx)
}

// Len returns the number of distinct triples
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.triples)
}

// Triples returns a copy of all triples in insertion order
func (s *Store) Triples() []Triple {
	if s == nil {
		return nil
	}
	out := make([]Triple, len(s.triples))
	copy(out, s.triples)
	return out
}

// Each calls fn for every triple in insertion order until fn returns false
func (s *Store) Each(fn func(Triple) bool) {
	if s == nil {
		return
	}
	for _, t := range s.triples {
		if !fn(t) {
			return
		}
	}
}

// Contains reports whether the triple is in the store
func (s *Store) Contains(t Triple) bool {
	if s == nil {
		return false
	}
	_, ok := s.set[t]
	return ok
}

// HasSubject reports whether any triple has the given subject
func (s *Store) HasSubject(subject Term) bool {
	if s == nil {
		return false
	}
	_, ok := s.bySubject[subject]
	return ok
}

// Subjects returns distinct subjects in first-appearance order
func (s *Store) Subjects() []Term {
	if s == nil {
		return nil
	}
	out := make([]Term, len(s.subjects))
	copy(out, s.subjects)
	return out
}

// Predicates returns distinct predicates in first-appearance order
func (s *Store) Predicates() []Term {
	if s == nil {
		return nil
	}
	out := make([]Term, len(s.predicates))
	copy(out, s.predicates)
	return out
}

// BySubject returns the triples with the given subject, in insertion order
func (s *Store) BySubject(subject Term) []Triple {
	if s == nil {
		return nil
	}
	return s.collect(s.bySubject[subject])
}

// ByPredicate returns the triples with the given predicate, in insertion order
func (s *Store) ByPredicate(predicate Term) []Triple {
	if s == nil {
		return nil
	}
	return s.collect(s.byPredicate[predicate])
}

// ByObject returns the triples with the given object, in insertion order
func (s *Store) ByObject(object Term) []Triple {
	if s == nil {
		return nil
	}
	return s.collect(s.byObject[object])
}

// BySubjectPredicate returns the triples matching both subject and predicate
func (s *Store) BySubjectPredicate(subject, predicate Term) []Triple {
	if s == nil {
		return nil
	}
	return s.collect(s.bySP[spKey{s: subject, p: predicate}])
}

func (s *Store) collect(idx []int) []Triple {
	if len(idx) == 0 {
		return nil
	}
	out := make([]Triple, len(idx))
	for i, j := range idx {
		out[i] = s.triples[j]
	}
	return out
}

// Filter returns a new store holding the triples for which keep returns true.
// The receiver is not modified.
func (s *Store) Filter(keep func(Triple) bool) *Store {
	out := newStore(0)
	if s == nil {
		return out
	}
	for _, t := range s.triples {
		if keep(t) {
			out.add(t)
		}
	}
	return out
}
