package filter

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/logparser/internal/errors"
)

// Polarity classifies a filter as keeping or dropping the lines it matches.
type Polarity int

const (
	// Exclude drops lines containing the pattern. It is the default polarity
	// for newly added filters.
	Exclude Polarity = iota
	// Include keeps lines containing the pattern.
	Include
)

// String returns the lowercase name of the polarity.
func (p Polarity) String() string {
	switch p {
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	default:
		return fmt.Sprintf("polarity(%d)", int(p))
	}
}

// Toggle returns the opposite polarity.
func (p Polarity) Toggle() Polarity {
	if p == Include {
		return Exclude
	}
	return Include
}

// ParsePolarity converts "include"/"exclude" (case-insensitive, also "+"/"-")
// to a Polarity.
func ParsePolarity(s string) (Polarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "include", "+":
		return Include, nil
	case "exclude", "-", "":
		return Exclude, nil
	default:
		return Exclude, fmt.Errorf("unknown polarity %q: must be include or exclude", s)
	}
}

// ValidPolarities returns the accepted polarity names.
func ValidPolarities() []string {
	return []string{"include", "exclude"}
}

// ID identifies a filter within one Forest. Zero is never a valid ID.
type ID uint64

// ChildIndent prefixes a child filter's label in list displays.
const ChildIndent = "   "

// Filter is a single substring test.
type Filter struct {
	ID       ID
	Pattern  string
	Polarity Polarity
}

// Matches reports whether the pattern occurs in line.
func (f Filter) Matches(line string) bool {
	return strings.Contains(line, f.Pattern)
}

// Group is a root filter plus the child filters attached to it.
type Group struct {
	Root     Filter
	Children []Filter
}

// Len returns the number of filters in the group, root included.
func (g Group) Len() int {
	return 1 + len(g.Children)
}

func (g Group) clone() Group {
	out := Group{Root: g.Root}
	if len(g.Children) > 0 {
		out.Children = make([]Filter, len(g.Children))
		copy(out.Children, g.Children)
	}
	return out
}

// Entry is one row of the flattened filter list, in display order.
type Entry struct {
	Filter
	Group  int  // index of the owning group
	IsRoot bool // false for children
}

// Label returns the text shown for the entry in a filter list.
func (e Entry) Label() string {
	if e.IsRoot {
		return e.Pattern
	}
	return ChildIndent + e.Pattern
}

// Forest is the ordered collection of filter groups.
type Forest struct {
	groups []Group
	nextID ID
}

// New creates an empty Forest.
func New() *Forest {
	return &Forest{}
}

// Clone returns a deep copy. IDs are preserved.
func (f *Forest) Clone() *Forest {
	if f == nil {
		return New()
	}
	out := &Forest{nextID: f.nextID}
	if len(f.groups) > 0 {
		out.groups = make([]Group, len(f.groups))
		for i, g := range f.groups {
			out.groups[i] = g.clone()
		}
	}
	return out
}

// Groups returns a copy of the groups in insertion order.
func (f *Forest) Groups() []Group {
	if f == nil || len(f.groups) == 0 {
		return nil
	}
	out := make([]Group, len(f.groups))
	for i, g := range f.groups {
		out[i] = g.clone()
	}
	return out
}

// Len returns the number of groups.
func (f *Forest) Len() int {
	if f == nil {
		return 0
	}
	return len(f.groups)
}

// Count returns the total number of filters across all groups.
func (f *Forest) Count() int {
	if f == nil {
		return 0
	}
	n := 0
	for _, g := range f.groups {
		n += g.Len()
	}
	return n
}

// Empty reports whether the forest has no filters.
func (f *Forest) Empty() bool {
	return f.Len() == 0
}

// Entries flattens the forest into display order: each root followed by its
// children.
func (f *Forest) Entries() []Entry {
	if f == nil {
		return nil
	}
	out := make([]Entry, 0, f.Count())
	for gi, g := range f.groups {
		out = append(out, Entry{Filter: g.Root, Group: gi, IsRoot: true})
		for _, c := range g.Children {
			out = append(out, Entry{Filter: c, Group: gi})
		}
	}
	return out
}

// Lookup returns the filter with the given id.
func (f *Forest) Lookup(id ID) (Filter, bool) {
	gi, ci, ok := f.locate(id)
	if !ok {
		return Filter{}, false
	}
	if ci < 0 {
		return f.groups[gi].Root, true
	}
	return f.groups[gi].Children[ci], true
}

// IsRoot reports whether id is the root of its group.
func (f *Forest) IsRoot(id ID) bool {
	_, ci, ok := f.locate(id)
	return ok && ci < 0
}

// GroupRoot returns the root of the group containing id. Selecting a child
// attaches new filters to its group, so callers resolve selections through
// this.
func (f *Forest) GroupRoot(id ID) (Filter, bool) {
	gi, _, ok := f.locate(id)
	if !ok {
		return Filter{}, false
	}
	return f.groups[gi].Root, true
}

// Contains reports whether any filter in the forest has exactly this pattern.
func (f *Forest) Contains(pattern string) bool {
	if f == nil {
		return false
	}
	for _, g := range f.groups {
		if g.Root.Pattern == pattern {
			return true
		}
		for _, c := range g.Children {
			if c.Pattern == pattern {
				return true
			}
		}
	}
	return false
}

// Add appends a new group with pattern as its root.
func (f *Forest) Add(pattern string, polarity Polarity) (Filter, error) {
	if err := f.validate(pattern); err != nil {
		return Filter{}, err
	}
	flt := f.newFilter(pattern, polarity)
	f.groups = append(f.groups, Group{Root: flt})
	return flt, nil
}

// AddChild attaches pattern to the group containing target. target may be
// the group's root or any of its children.
func (f *Forest) AddChild(target ID, pattern string, polarity Polarity) (Filter, error) {
	gi, _, ok := f.locate(target)
	if !ok {
		return Filter{}, errors.NewFilterError("cannot attach filter", errors.ErrFilterNotFound).
			WithFilterID(uint64(target))
	}
	if err := f.validate(pattern); err != nil {
		return Filter{}, err
	}
	flt := f.newFilter(pattern, polarity)
	f.groups[gi].Children = append(f.groups[gi].Children, flt)
	return flt, nil
}

// SetPolarity sets the polarity of a single filter.
func (f *Forest) SetPolarity(id ID, polarity Polarity) error {
	gi, ci, ok := f.locate(id)
	if !ok {
		return errors.NewFilterError("cannot set polarity", errors.ErrFilterNotFound).WithFilterID(uint64(id))
	}
	if ci < 0 {
		f.groups[gi].Root.Polarity = polarity
	} else {
		f.groups[gi].Children[ci].Polarity = polarity
	}
	return nil
}

// Toggle flips Include and Exclude for each id. Unknown ids are skipped and
// reported in the returned error; known ids are still toggled.
func (f *Forest) Toggle(ids ...ID) error {
	var errs []error
	for _, id := range ids {
		flt, ok := f.Lookup(id)
		if !ok {
			errs = append(errs, errors.NewFilterError("cannot toggle filter", errors.ErrFilterNotFound).
				WithFilterID(uint64(id)))
			continue
		}
		_ = f.SetPolarity(id, flt.Polarity.Toggle())
	}
	return errors.Join(errs...)
}

// Delete removes each id. Deleting a root removes its whole group; deleting a
// child removes only that child. Unknown ids are reported in the returned
// error; known ids are still removed.
func (f *Forest) Delete(ids ...ID) error {
	var errs []error
	dropGroup := make(map[int]bool)
	dropChild := make(map[ID]bool)

	for _, id := range ids {
		gi, ci, ok := f.locate(id)
		switch {
		case !ok:
			errs = append(errs, errors.NewFilterError("cannot delete filter", errors.ErrFilterNotFound).
				WithFilterID(uint64(id)))
		case ci < 0:
			dropGroup[gi] = true
		default:
			dropChild[id] = true
		}
	}

	if len(dropGroup) > 0 || len(dropChild) > 0 {
		kept := f.groups[:0]
		for gi, g := range f.groups {
			if dropGroup[gi] {
				continue
			}
			if len(dropChild) > 0 && len(g.Children) > 0 {
				children := make([]Filter, 0, len(g.Children))
				for _, c := range g.Children {
					if !dropChild[c.ID] {
						children = append(children, c)
					}
				}
				if len(children) == 0 {
					children = nil
				}
				g.Children = children
			}
			kept = append(kept, g)
		}
		// Clear the tail so removed groups don't linger in the backing array.
		for i := len(kept); i < len(f.groups); i++ {
			f.groups[i] = Group{}
		}
		f.groups = kept
	}

	return errors.Join(errs...)
}

// Clear removes every filter. IDs are not reused afterwards.
func (f *Forest) Clear() {
	f.groups = nil
}

// ValidatePattern reports whether pattern is acceptable as a filter:
// it must contain something other than whitespace.
func ValidatePattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return errors.NewFilterError("filter rejected", errors.ErrEmptyPattern).WithPattern(pattern)
	}
	return nil
}

func (f *Forest) validate(pattern string) error {
	if err := ValidatePattern(pattern); err != nil {
		return err
	}
	if f.Contains(pattern) {
		return errors.NewFilterError("filter rejected", errors.ErrDuplicatePattern).WithPattern(pattern)
	}
	return nil
}

func (f *Forest) newFilter(pattern string, polarity Polarity) Filter {
	f.nextID++
	return Filter{ID: f.nextID, Pattern: pattern, Polarity: polarity}
}

// locate returns the group index and child index of id. The child index is
// -1 for a root.
func (f *Forest) locate(id ID) (group, child int, ok bool) {
	if f == nil || id == 0 {
		return 0, 0, false
	}
	for gi, g := range f.groups {
		if g.Root.ID == id {
			return gi, -1, true
		}
		for ci, c := range g.Children {
			if c.ID == id {
				return gi, ci, true
			}
		}
	}
	return 0, 0, false
}
