package model

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/cockroachdb/errors"
)

// StratifiedSplit partitions row indices into train/test so that both
// sides preserve the label mix. |test| = round(fraction*n) exactly; the
// per-label quotas are assigned by largest remainder so no label is
// starved by rounding.
//
// The split is deterministic: the same labels and seed always produce
// the same assignment. Shuffling uses a PCG source seeded per call, and
// label groups are visited in sorted order so map iteration never leaks
// into the result.
func StratifiedSplit(labels []float64, fraction float64, seed uint64) (train, test []int, err error) {
	n := len(labels)
	if n == 0 {
		return nil, nil, errors.New("stratified split: no rows")
	}
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, errors.Newf("stratified split: fraction %v outside (0,1)", fraction)
	}

	byLabel := make(map[float64][]int)
	for i, y := range labels {
		byLabel[y] = append(byLabel[y], i)
	}

	values := make([]float64, 0, len(byLabel))
	for y := range byLabel {
		values = append(values, y)
	}
	sort.Float64s(values)

	r := rand.New(rand.NewPCG(seed, seed))
	for _, y := range values {
		idx := byLabel[y]
		r.Shuffle(len(idx), func(i, j int) {
			idx[i], idx[j] = idx[j], idx[i]
		})
	}

	// Largest-remainder quotas: floor each label's share, then hand the
	// leftover test slots to the labels with the biggest fractional parts.
	total := int(math.Round(fraction * float64(n)))
	quotas := make(map[float64]int, len(values))
	assigned := 0
	type rem struct {
		label float64
		frac  float64
	}
	rems := make([]rem, 0, len(values))
	for _, y := range values {
		exact := fraction * float64(len(byLabel[y]))
		q := int(math.Floor(exact))
		quotas[y] = q
		assigned += q
		rems = append(rems, rem{label: y, frac: exact - float64(q)})
	}
	sort.Slice(rems, func(i, j int) bool {
		if rems[i].frac != rems[j].frac {
			return rems[i].frac > rems[j].frac
		}
		return rems[i].label < rems[j].label
	})
	for i := 0; assigned < total && i < len(rems); i++ {
		y := rems[i].label
		if quotas[y] < len(byLabel[y]) {
			quotas[y]++
			assigned++
		}
	}

	for _, y := range values {
		idx := byLabel[y]
		q := quotas[y]
		test = append(test, idx[:q]...)
		train = append(train, idx[q:]...)
	}
	sort.Ints(train)
	sort.Ints(test)

	if len(train) == 0 || len(test) == 0 {
		return nil, nil, errors.Newf("stratified split: degenerate sizes train=%d test=%d", len(train), len(test))
	}
	return train, test, nil
}

// whiffRate returns the share of rows labeled 1 among idx, or over all
// labels when idx is nil.
func whiffRate(labels []float64, idx []int) float64 {
	if idx == nil {
		idx = make([]int, len(labels))
		for i := range labels {
			idx[i] = i
		}
	}
	if len(idx) == 0 {
		return 0
	}
	var pos float64
	for _, i := range idx {
		if labels[i] == 1 {
			pos++
		}
	}
	return pos / float64(len(idx))
}
