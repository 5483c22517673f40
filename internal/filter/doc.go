// Package filter provides the include/exclude filter hierarchy and the line
// predicate evaluated against it.
//
// Filters are plain substring tests. They are organized into a [Forest]: an
// ordered sequence of [Group] values, each holding one root [Filter] and zero
// or more child filters that the user attached to the root.
//
// # Main Types
//
//   - [Filter]: a pattern with an [Include] or [Exclude] polarity
//   - [Group]: a root filter plus its children
//   - [Forest]: the ordered set of groups, with add/toggle/delete operations
//
// # Evaluation
//
// A line survives [Forest.Evaluate] when it passes two tiers:
//
//  1. Root tier (OR across groups): an Exclude root that matches drops the
//     line immediately. If any Include roots exist, at least one must match.
//
//  2. Child tier (AND across groups, OR within a group): an Exclude child
//     that matches drops the line immediately. For every group that has
//     Include children, at least one of them must match.
//
// Exclusion wins at both tiers. When blank lines are not included, the empty
// line is dropped before any filter is consulted.
//
// # Usage
//
//	f := filter.New()
//	errs, _ := f.Add("ERROR", filter.Include)
//	_, _ = f.AddChild(errs.ID, "retry", filter.Exclude)
//
//	if f.Evaluate(line, true) {
//	    // keep line
//	}
//
// A Forest is not safe for concurrent mutation. Use [Forest.Clone] to hand a
// read-only copy to another goroutine.
package filter
