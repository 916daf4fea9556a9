// Package forest implements a bagged regression-tree ensemble.
//
// Trees use variance-reduction splits on bootstrap samples. All randomness
// derives from a base seed (per-tree seeds are base+index), so training is
// deterministic for a given input regardless of parallelism.
package forest

import (
	"errors"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Config controls ensemble training.
type Config struct {
	Trees           int
	Seed            int64
	MaxDepth        int // 0 means unlimited
	MinSamplesSplit int // 0 means 2
	Parallelism     int // 0 means GOMAXPROCS
}

// Forest is a trained ensemble.
type Forest struct {
	trees       []*node
	nFeatures   int
	importances []float64
}

type node struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *node
	right     *node
}

// Train fits the ensemble on the given feature matrix and targets.
func Train(features [][]float64, targets []float64, cfg Config) (*Forest, error) {
	if len(features) == 0 {
		return nil, errors.New("no training samples")
	}
	if len(features) != len(targets) {
		return nil, errors.New("features and targets length mismatch")
	}
	nFeatures := len(features[0])
	if nFeatures == 0 {
		return nil, errors.New("no features")
	}
	for _, row := range features {
		if len(row) != nFeatures {
			return nil, errors.New("ragged feature matrix")
		}
	}
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	f := &Forest{
		trees:       make([]*node, cfg.Trees),
		nFeatures:   nFeatures,
		importances: make([]float64, nFeatures),
	}
	treeImportances := make([][]float64, cfg.Trees)

	var g errgroup.Group
	g.SetLimit(parallelism)
	for i := 0; i < cfg.Trees; i++ {
		i := i
		g.Go(func() error {
			rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
			samples := make([]int, len(features))
			for j := range samples {
				samples[j] = rng.Intn(len(features))
			}
			imp := make([]float64, nFeatures)
			b := &treeBuilder{
				features:        features,
				targets:         targets,
				maxDepth:        cfg.MaxDepth,
				minSamplesSplit: cfg.MinSamplesSplit,
				importances:     imp,
			}
			f.trees[i] = b.build(samples, 0)
			treeImportances[i] = imp
			return nil
		})
	}
	// Tree building cannot fail past the validation above.
	_ = g.Wait()

	total := 0.0
	for _, imp := range treeImportances {
		for j, v := range imp {
			f.importances[j] += v
			total += v
		}
	}
	if total > 0 {
		for j := range f.importances {
			f.importances[j] /= total
		}
	}
	return f, nil
}

// Predict returns the ensemble mean prediction for one feature vector.
func (f *Forest) Predict(x []float64) float64 {
	sum := 0.0
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.trees))
}

// PredictAll predicts every row of the feature matrix.
func (f *Forest) PredictAll(features [][]float64) []float64 {
	out := make([]float64, len(features))
	for i, x := range features {
		out[i] = f.Predict(x)
	}
	return out
}

// FeatureImportances returns per-feature impurity decrease normalized to sum
// to 1. All zeros when no tree ever split (constant targets).
func (f *Forest) FeatureImportances() []float64 {
	out := make([]float64, len(f.importances))
	copy(out, f.importances)
	return out
}

func (n *node) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

type treeBuilder struct {
	features        [][]float64
	targets         []float64
	maxDepth        int
	minSamplesSplit int
	importances     []float64
}

const minGain = 1e-12

func (b *treeBuilder) build(samples []int, depth int) *node {
	sum, sumSq := 0.0, 0.0
	for _, s := range samples {
		y := b.targets[s]
		sum += y
		sumSq += y * y
	}
	n := float64(len(samples))
	mean := sum / n
	sse := sumSq - sum*sum/n

	if len(samples) < b.minSamplesSplit || sse <= minGain ||
		(b.maxDepth > 0 && depth >= b.maxDepth) {
		return &node{leaf: true, value: mean}
	}

	feature, threshold, gain := b.bestSplit(samples, sse)
	if gain <= minGain {
		return &node{leaf: true, value: mean}
	}
	b.importances[feature] += gain

	var left, right []int
	for _, s := range samples {
		if b.features[s][feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	return &node{
		feature:   feature,
		threshold: threshold,
		left:      b.build(left, depth+1),
		right:     b.build(right, depth+1),
	}
}

// bestSplit scans every feature for the threshold with the largest SSE
// reduction, using prefix sums over value-sorted samples.
func (b *treeBuilder) bestSplit(samples []int, parentSSE float64) (int, float64, float64) {
	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0
	order := make([]int, len(samples))
	for f := 0; f < len(b.features[samples[0]]); f++ {
		copy(order, samples)
		sortByFeature(order, b.features, f)

		sumL, sumSqL := 0.0, 0.0
		sumR, sumSqR := 0.0, 0.0
		for _, s := range order {
			y := b.targets[s]
			sumR += y
			sumSqR += y * y
		}
		for i := 0; i < len(order)-1; i++ {
			y := b.targets[order[i]]
			sumL += y
			sumSqL += y * y
			sumR -= y
			sumSqR -= y * y

			xi := b.features[order[i]][f]
			xj := b.features[order[i+1]][f]
			if xi == xj {
				continue
			}
			nL := float64(i + 1)
			nR := float64(len(order) - i - 1)
			sseL := sumSqL - sumL*sumL/nL
			sseR := sumSqR - sumR*sumR/nR
			gain := parentSSE - sseL - sseR
			if gain > bestGain {
				bestFeature = f
				bestThreshold = (xi + xj) / 2
				bestGain = gain
			}
		}
	}
	return bestFeature, bestThreshold, bestGain
}

func sortByFeature(idx []int, features [][]float64, f int) {
	sort.Slice(idx, func(a, b int) bool {
		return features[idx[a]][f] < features[idx[b]][f]
	})
}
