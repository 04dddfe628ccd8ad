package reservation

// Diff is the result of reconciling a stored collection with a desired one.
type Diff[T comparable] struct {
	ToAdd    []T
	ToRemove []T
}

func (d Diff[T]) Empty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0
}

// Reconcile compares current with desired and reports what must be added and
// removed to turn one into the other. Elements are counted, so a value listed
// twice in desired but once in current is added once. Elements present in
// both are left out of the diff. Output order follows the input order.
func Reconcile[T comparable](current, desired []T) Diff[T] {
	have := make(map[T]int, len(current))
	for _, v := range current {
		have[v]++
	}
	want := make(map[T]int, len(desired))
	for _, v := range desired {
		want[v]++
	}

	var diff Diff[T]
	for _, v := range desired {
		if have[v] > 0 {
			have[v]--
			continue
		}
		diff.ToAdd = append(diff.ToAdd, v)
	}
	for _, v := range current {
		if want[v] > 0 {
			want[v]--
			continue
		}
		diff.ToRemove = append(diff.ToRemove, v)
	}
	return diff
}
