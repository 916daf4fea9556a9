package forest

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// Evaluation holds regression quality metrics over a held-out set.
type Evaluation struct {
	R2   float64
	MAE  float64
	RMSE float64
}

// Evaluate computes R², MAE and RMSE for predictions against actuals.
// R² is 0 when the actuals carry no variance.
func Evaluate(actual, predicted []float64) Evaluation {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return Evaluation{}
	}
	mean := stat.Mean(actual, nil)
	ssRes, ssTot := 0.0, 0.0
	absSum, sqSum := 0.0, 0.0
	for i := range actual {
		diff := actual[i] - predicted[i]
		ssRes += diff * diff
		dev := actual[i] - mean
		ssTot += dev * dev
		absSum += math.Abs(diff)
		sqSum += diff * diff
	}
	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	n := float64(len(actual))
	return Evaluation{
		R2:   r2,
		MAE:  absSum / n,
		RMSE: math.Sqrt(sqSum / n),
	}
}

// SplitTrainTest shuffles the samples with the given seed and splits off a
// held-out fraction (at least one sample on each side when possible).
func SplitTrainTest(features [][]float64, targets []float64, testFraction float64, seed int64) (trainX, testX [][]float64, trainY, testY []float64) {
	n := len(features)
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(math.Ceil(testFraction * float64(n)))
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}
	if nTest < 1 {
		return features, nil, targets, nil
	}
	for i, p := range perm {
		if i < nTest {
			testX = append(testX, features[p])
			testY = append(testY, targets[p])
		} else {
			trainX = append(trainX, features[p])
			trainY = append(trainY, targets[p])
		}
	}
	return trainX, testX, trainY, testY
}
