package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name       string
		current    []int64
		desired    []int64
		wantAdd    []int64
		wantRemove []int64
	}{
		{name: "no change", current: []int64{1, 2}, desired: []int64{2, 1}},
		{name: "from empty", desired: []int64{3, 4}, wantAdd: []int64{3, 4}},
		{name: "to empty", current: []int64{3, 4}, wantRemove: []int64{3, 4}},
		{name: "swap one", current: []int64{1, 2, 3}, desired: []int64{1, 3, 5}, wantAdd: []int64{5}, wantRemove: []int64{2}},
		{name: "counts duplicates", current: []int64{9}, desired: []int64{9, 9}, wantAdd: []int64{9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := Reconcile(tt.current, tt.desired)
			assert.Equal(t, tt.wantAdd, diff.ToAdd)
			assert.Equal(t, tt.wantRemove, diff.ToRemove)
			assert.Equal(t, len(tt.wantAdd) == 0 && len(tt.wantRemove) == 0, diff.Empty())
		})
	}
}

func TestReconcile_StructKeys(t *testing.T) {
	type key struct {
		Department  int64
		Description string
	}
	diff := Reconcile(
		[]key{{1, "chairs"}, {2, "sound"}, {3, "catering"}},
		[]key{{2, "sound"}},
	)
	assert.Empty(t, diff.ToAdd)
	assert.Equal(t, []key{{1, "chairs"}, {3, "catering"}}, diff.ToRemove)
}
