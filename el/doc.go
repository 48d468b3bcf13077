// Package el provides ergonomic HTML element constructors for building
// virtual render trees.
//
// Element constructors take a variadic argument list that mixes attributes,
// event handlers, child nodes, and strings:
//
//	el.Div(el.Class("counter"),
//		el.Span(el.Textf("count: %d", n)),
//		el.Button(el.OnClick(inc), "+"),
//	)
package el
