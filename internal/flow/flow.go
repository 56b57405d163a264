// Package flow implements a generic forward dataflow engine over the While
// syntax tree. An analysis supplies a fact type forming a join semilattice
// and a handful of transfer hooks; the engine handles sequencing, branching,
// loop fixpoints and the routing of facts through break and continue.
package flow

// Fact is the information computed by a dataflow analysis for a single
// program point. Merge must be commutative, associative and idempotent so
// that loop iteration reaches a fixpoint.
type Fact[T any] interface {
	// Merge combines the facts of two control-flow paths meeting at a join
	// point.
	Merge(T) T

	// Equal reports whether two facts carry the same information.
	Equal(T) bool
}

// fact is an optional fact. The absent value stands for an edge no control
// path reaches, and is the identity of join.
type fact[T Fact[T]] struct {
	val T
	ok  bool
}

func some[T Fact[T]](v T) fact[T] {
	return fact[T]{val: v, ok: true}
}

func join[T Fact[T]](x, y fact[T]) fact[T] {
	if !x.ok {
		return y
	}
	if !y.ok {
		return x
	}
	return some(x.val.Merge(y.val))
}

func (x fact[T]) equal(y fact[T]) bool {
	if x.ok != y.ok {
		return false
	}
	return !x.ok || x.val.Equal(y.val)
}

// Flow carries the facts leaving a statement along its three possible exits:
// falling through to the next statement, breaking out of the enclosing loop
// or switch, and continuing the enclosing loop. Any of the three may be
// absent when no control path takes that exit.
type Flow[T Fact[T]] struct {
	next fact[T]
	brk  fact[T]
	cont fact[T]
}

// FlowNext is the flow of ordinary sequential execution with the given fact.
func FlowNext[T Fact[T]](data T) Flow[T] {
	return Flow[T]{next: some(data)}
}

// Next returns the fact flowing to the next statement, if any path does.
func (f Flow[T]) Next() (T, bool) {
	return f.next.val, f.next.ok
}

// Break returns the fact flowing to the enclosing break destination.
func (f Flow[T]) Break() (T, bool) {
	return f.brk.val, f.brk.ok
}

// Continue returns the fact flowing to the enclosing continue destination.
func (f Flow[T]) Continue() (T, bool) {
	return f.cont.val, f.cont.ok
}

// Merge joins two flows exit by exit.
func (f Flow[T]) Merge(g Flow[T]) Flow[T] {
	return Flow[T]{
		next: join(f.next, g.next),
		brk:  join(f.brk, g.brk),
		cont: join(f.cont, g.cont),
	}
}

// Equal reports whether two flows carry the same facts on every exit.
func (f Flow[T]) Equal(g Flow[T]) bool {
	return f.next.equal(g.next) && f.brk.equal(g.brk) && f.cont.equal(g.cont)
}
