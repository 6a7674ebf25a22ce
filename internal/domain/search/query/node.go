// Package query models the engine-independent predicate tree for hotel search.
// Nodes are immutable values; constructors copy their slice arguments.
package query

// Node is a query tree element.
type Node interface {
	isNode()
}

// MatchAll matches every document with a constant score.
type MatchAll struct{}

// Match is a scored full-text match on a field.
type Match struct {
	Field string
	Text  string
}

// Term is an exact, non-analysed value match.
type Term struct {
	Field string
	Value any
}

// Range bounds a numeric field. Nil bounds are open.
type Range struct {
	Field string
	GTE   *float64
	LTE   *float64
}

// Bool combines scoring Must clauses with non-scoring Filter clauses conjunctively.
type Bool struct {
	must   []Node
	filter []Node
}

// ScoreFunction multiplies the score of documents matching Filter by Weight.
type ScoreFunction struct {
	Filter Node
	Weight float64
}

// FunctionScore rescores the documents matched by its inner query.
// It never changes the matched set.
type FunctionScore struct {
	query     Node
	functions []ScoreFunction
}

func (MatchAll) isNode()      {}
func (Match) isNode()         {}
func (Term) isNode()          {}
func (Range) isNode()         {}
func (Bool) isNode()          {}
func (FunctionScore) isNode() {}

// NewBool creates a Bool node.
func NewBool(must, filter []Node) Bool {
	return Bool{must: append([]Node(nil), must...), filter: append([]Node(nil), filter...)}
}

// Must returns a copy of the scoring clauses.
func (b Bool) Must() []Node { return append([]Node(nil), b.must...) }

// Filter returns a copy of the non-scoring clauses.
func (b Bool) Filter() []Node { return append([]Node(nil), b.filter...) }

// NewFunctionScore creates a FunctionScore node.
func NewFunctionScore(q Node, functions []ScoreFunction) FunctionScore {
	return FunctionScore{query: q, functions: append([]ScoreFunction(nil), functions...)}
}

// Query returns the wrapped query.
func (f FunctionScore) Query() Node { return f.query }

// Functions returns a copy of the score functions.
func (f FunctionScore) Functions() []ScoreFunction {
	return append([]ScoreFunction(nil), f.functions...)
}

// NewRange creates a Range with both bounds optional.
func NewRange(field string, gte, lte *int) Range {
	r := Range{Field: field}
	if gte != nil {
		v := float64(*gte)
		r.GTE = &v
	}
	if lte != nil {
		v := float64(*lte)
		r.LTE = &v
	}
	return r
}
