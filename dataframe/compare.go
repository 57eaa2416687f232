package dataframe

// ColumnComparison reports how the column sets of two frames differ.
type ColumnComparison struct {
	Mismatch bool
	ANotInB  []string
	BNotInA  []string
}

// CompareColumns compares the column sets of two frames, skipping any
// column named in ignore. Stages use the report to build shape-mismatch
// errors when transform-time columns differ from fit-time columns.
func CompareColumns(a, b *DataFrame, ignore ...string) ColumnComparison {
	skip := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		skip[name] = true
	}

	cmp := ColumnComparison{ANotInB: []string{}, BNotInA: []string{}}
	for _, name := range a.Names {
		if skip[name] {
			continue
		}
		if !b.Has(name) {
			cmp.ANotInB = append(cmp.ANotInB, name)
		}
	}
	for _, name := range b.Names {
		if skip[name] {
			continue
		}
		if !a.Has(name) {
			cmp.BNotInA = append(cmp.BNotInA, name)
		}
	}
	cmp.Mismatch = len(cmp.ANotInB) > 0 || len(cmp.BNotInA) > 0
	return cmp
}
