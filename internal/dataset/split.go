package dataset

import (
	"math"
	"math/rand/v2"
	"sort"
)

// StratifiedSplit shuffles indices of each class with seed and holds out
// testSize of every class. Both returned slices are sorted. A testSize
// outside [0, 1] holds out nothing or everything.
func StratifiedSplit(labels []bool, testSize float64, seed uint64) (train, test []int) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for _, class := range classIndices(labels) {
		rng.Shuffle(len(class), func(i, j int) { class[i], class[j] = class[j], class[i] })
		nTest := int(math.Round(testSize * float64(len(class))))
		if testSize > 0 && nTest == 0 && len(class) > 1 {
			nTest = 1
		}
		nTest = min(max(nTest, 0), len(class))
		test = append(test, class[:nTest]...)
		train = append(train, class[nTest:]...)
	}
	sort.Ints(train)
	sort.Ints(test)
	return train, test
}

// StratifiedKFold partitions indices into k folds that keep the class ratio.
// Each returned fold is a sorted test set; k is capped at the number of samples.
func StratifiedKFold(labels []bool, k int, seed uint64) [][]int {
	if k > len(labels) {
		k = len(labels)
	}
	if k < 1 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	folds := make([][]int, k)
	next := 0
	for _, class := range classIndices(labels) {
		rng.Shuffle(len(class), func(i, j int) { class[i], class[j] = class[j], class[i] })
		for _, idx := range class {
			folds[next%k] = append(folds[next%k], idx)
			next++
		}
	}
	for _, f := range folds {
		sort.Ints(f)
	}
	return folds
}

// Complement returns the indices in [0, n) not present in subset.
func Complement(n int, subset []int) []int {
	in := make([]bool, n)
	for _, i := range subset {
		in[i] = true
	}
	out := make([]int, 0, n-len(subset))
	for i := range n {
		if !in[i] {
			out = append(out, i)
		}
	}
	return out
}

func classIndices(labels []bool) [2][]int {
	var classes [2][]int
	for i, spam := range labels {
		if spam {
			classes[1] = append(classes[1], i)
		} else {
			classes[0] = append(classes[0], i)
		}
	}
	return classes
}
