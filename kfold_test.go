package automatminer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKFoldPartition(t *testing.T) {
	folds, err := NewKFold(5).Split(50)
	require.NoError(t, err)
	require.Len(t, folds, 5)

	seen := map[int]int{}
	for _, fold := range folds {
		assert.Equal(t, 50, len(fold.Train)+len(fold.Test))
		assert.Len(t, fold.Test, 10)
		for _, idx := range fold.Test {
			seen[idx]++
		}
		trainSet := map[int]bool{}
		for _, idx := range fold.Train {
			trainSet[idx] = true
		}
		for _, idx := range fold.Test {
			assert.False(t, trainSet[idx], "train and test must be disjoint")
		}
	}
	require.Len(t, seen, 50, "test sets must cover every row")
	for idx, count := range seen {
		assert.Equalf(t, 1, count, "row %d held out once", idx)
	}
}

func TestKFoldUnevenSizes(t *testing.T) {
	folds, err := NewKFold(3).Split(10)
	require.NoError(t, err)
	assert.Len(t, folds[0].Test, 4)
	assert.Len(t, folds[1].Test, 3)
	assert.Len(t, folds[2].Test, 3)
}

func TestKFoldShuffleDeterministicBySeed(t *testing.T) {
	a := &KFold{NSplits: 4, Shuffle: true, Seed: 9}
	b := &KFold{NSplits: 4, Shuffle: true, Seed: 9}
	c := &KFold{NSplits: 4, Shuffle: true, Seed: 10}

	fa, err := a.Split(20)
	require.NoError(t, err)
	fb, err := b.Split(20)
	require.NoError(t, err)
	fc, err := c.Split(20)
	require.NoError(t, err)

	assert.Equal(t, fa, fb)
	assert.NotEqual(t, fa, fc)
}

func TestKFoldErrors(t *testing.T) {
	_, err := (&KFold{NSplits: 1}).Split(10)
	assert.Error(t, err)

	_, err = NewKFold(5).Split(3)
	assert.Error(t, err, "more splits than rows")
}

func TestStratifiedKFoldPreservesClassBalance(t *testing.T) {
	// 12 rows, two classes at a 2:1 ratio.
	labels := make([]string, 12)
	for i := range labels {
		if i%3 == 0 {
			labels[i] = "metal"
		} else {
			labels[i] = "insulator"
		}
	}

	folds, err := NewStratifiedKFold(2, labels).Split(12)
	require.NoError(t, err)
	require.Len(t, folds, 2)

	seen := map[int]int{}
	for _, fold := range folds {
		assert.Len(t, fold.Test, 6)
		metals := 0
		for _, idx := range fold.Test {
			seen[idx]++
			if labels[idx] == "metal" {
				metals++
			}
		}
		assert.Equal(t, 2, metals, "each test set keeps the 2:1 class ratio")
	}
	require.Len(t, seen, 12, "test sets must partition the rows")
}

func TestStratifiedKFoldSingletonClasses(t *testing.T) {
	// Every row its own class: folds must still balance instead of piling
	// all rows into one fold.
	labels := []string{"a", "b", "c", "d", "e", "f"}
	folds, err := NewStratifiedKFold(3, labels).Split(6)
	require.NoError(t, err)
	for _, fold := range folds {
		assert.Len(t, fold.Test, 2)
	}
}

func TestStratifiedKFoldErrors(t *testing.T) {
	_, err := NewStratifiedKFold(3, []string{"a", "b"}).Split(5)
	assert.Error(t, err, "label count must match row count")

	_, err = (&StratifiedKFold{NSplits: 1, Labels: []string{"a", "b"}}).Split(2)
	assert.Error(t, err)
}
