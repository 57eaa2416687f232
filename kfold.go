package automatminer

import (
	"math/rand/v2"
	"sort"

	"github.com/ardunn/automatminer/pkg/errors"
)

// Fold is one train/test row-index split of a dataset.
type Fold struct {
	Train []int
	Test  []int
}

// Splitter produces cross-validation folds over n rows. Benchmark accepts
// any Splitter; KFold is the standard one.
type Splitter interface {
	Split(n int) ([]Fold, error)
}

// KFold splits rows into k consecutive (or shuffled) folds. Each fold's
// test set appears exactly once; test sets partition the row set.
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    int64
}

// NewKFold returns a k-fold splitter without shuffling. Non-positive k
// falls back to 5.
func NewKFold(k int) *KFold {
	if k <= 0 {
		k = 5
	}
	return &KFold{NSplits: k}
}

// Split produces the folds for n rows, in a fixed fold order.
func (kf *KFold) Split(n int) ([]Fold, error) {
	if kf.NSplits < 2 {
		return nil, errors.NewConfigError("KFold", "need at least 2 splits")
	}
	if kf.NSplits > n {
		return nil, errors.NewValueError("KFold", "more splits than rows")
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		rng := rand.New(rand.NewPCG(uint64(kf.Seed), uint64(kf.Seed)+1))
		rng.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, 0, kf.NSplits)
	foldSize := n / kf.NSplits
	remainder := n % kf.NSplits
	cursor := 0
	for k := 0; k < kf.NSplits; k++ {
		size := foldSize
		if k < remainder {
			size++
		}
		test := make([]int, size)
		copy(test, indices[cursor:cursor+size])
		train := make([]int, 0, n-size)
		train = append(train, indices[:cursor]...)
		train = append(train, indices[cursor+size:]...)
		folds = append(folds, Fold{Train: train, Test: test})
		cursor += size
	}
	return folds, nil
}

// StratifiedKFold spreads each class's rows across the folds so every test
// set roughly preserves the class proportions. Labels are supplied up
// front because the Splitter interface only sees row counts.
type StratifiedKFold struct {
	NSplits int
	Labels  []string
	Shuffle bool
	Seed    int64
}

// NewStratifiedKFold returns a stratified splitter over the given class
// labels. Non-positive k falls back to 5.
func NewStratifiedKFold(k int, labels []string) *StratifiedKFold {
	if k <= 0 {
		k = 5
	}
	return &StratifiedKFold{NSplits: k, Labels: labels}
}

// Split produces the folds for n rows. n must match the label count.
func (sf *StratifiedKFold) Split(n int) ([]Fold, error) {
	if sf.NSplits < 2 {
		return nil, errors.NewConfigError("StratifiedKFold", "need at least 2 splits")
	}
	if sf.NSplits > n {
		return nil, errors.NewValueError("StratifiedKFold", "more splits than rows")
	}
	if len(sf.Labels) != n {
		return nil, errors.NewValueError("StratifiedKFold", "label count does not match row count")
	}

	groups := make(map[string][]int)
	var order []string
	for i, label := range sf.Labels {
		if _, seen := groups[label]; !seen {
			order = append(order, label)
		}
		groups[label] = append(groups[label], i)
	}
	if sf.Shuffle {
		rng := rand.New(rand.NewPCG(uint64(sf.Seed), uint64(sf.Seed)+1))
		for _, label := range order {
			idx := groups[label]
			rng.Shuffle(len(idx), func(i, j int) {
				idx[i], idx[j] = idx[j], idx[i]
			})
		}
	}

	// Deal each class's rows across the folds; the cursor persists between
	// classes so fold sizes stay balanced even with many small classes.
	testSets := make([][]int, sf.NSplits)
	cursor := 0
	for _, label := range order {
		for _, idx := range groups[label] {
			testSets[cursor] = append(testSets[cursor], idx)
			cursor = (cursor + 1) % sf.NSplits
		}
	}

	folds := make([]Fold, sf.NSplits)
	for k, test := range testSets {
		sort.Ints(test)
		inTest := make(map[int]bool, len(test))
		for _, idx := range test {
			inTest[idx] = true
		}
		train := make([]int, 0, n-len(test))
		for i := 0; i < n; i++ {
			if !inTest[i] {
				train = append(train, i)
			}
		}
		folds[k] = Fold{Train: train, Test: test}
	}
	return folds, nil
}
