package filter

// Evaluate reports whether line survives the forest. It is shorthand for
// Evaluate(line, f, includeBlankLines).
func (f *Forest) Evaluate(line string, includeBlankLines bool) bool {
	if f == nil {
		return Evaluate(line, nil, includeBlankLines)
	}
	return Evaluate(line, f.groups, includeBlankLines)
}

// Evaluate applies the two-tier filter test to one line.
//
// Exclusion short-circuits the whole evaluation at both tiers: an exclude
// match in an earlier group is never undone by an include match in a later
// one.
func Evaluate(line string, groups []Group, includeBlankLines bool) bool {
	if !includeBlankLines && line == "" {
		return false
	}
	if !passRoots(line, groups) {
		return false
	}
	return passChildren(line, groups)
}

// passRoots is the OR tier: any include root may satisfy the line.
func passRoots(line string, groups []Group) bool {
	includeExists := false
	for _, g := range groups {
		if g.Root.Polarity == Include {
			includeExists = true
			break
		}
	}

	includeMatched := false
	for _, g := range groups {
		if !g.Root.Matches(line) {
			continue
		}
		if g.Root.Polarity == Exclude {
			return false
		}
		includeMatched = true
	}

	return !includeExists || includeMatched
}

// passChildren is the AND tier: every group's children must accept the line.
func passChildren(line string, groups []Group) bool {
	for _, g := range groups {
		if len(g.Children) == 0 {
			continue
		}

		includeExists := false
		includeMatched := false
		for _, c := range g.Children {
			if c.Polarity == Include {
				includeExists = true
			}
		}

		for _, c := range g.Children {
			if !c.Matches(line) {
				continue
			}
			if c.Polarity == Exclude {
				return false
			}
			includeMatched = true
		}

		if includeExists && !includeMatched {
			return false
		}
	}
	return true
}
