package archetype

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Coordinate is a record's position on the first two principal components.
type Coordinate struct {
	PC1 float64 `json:"pc1"`
	PC2 float64 `json:"pc2"`
}

// Projection is a two-component PCA of a standardized matrix.
type Projection struct {
	// Loadings holds the unit component vectors, one value per feature.
	Loadings               [2][]float64
	ExplainedVarianceRatio [2]float64
	Coordinates            []Coordinate
}

// Project computes the first two principal components of x and the score of
// every row. Each component is oriented so its largest-magnitude loading is
// positive; with a single feature PC2 is zero everywhere.
func Project(x *mat.Dense) (*Projection, error) {
	n, p := x.Dims()
	centered := mat.NewDense(n, p, nil)
	centered.Copy(x)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, centered)
		mean := floats.Sum(col) / float64(n)
		for i := range col {
			centered.Set(i, j, col[i]-mean)
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, fmt.Errorf("%w: %dx%d", ErrFactorization, n, p)
	}
	var v mat.Dense
	svd.VTo(&v)
	values := svd.Values(nil)

	_, available := v.Dims()
	proj := &Projection{Coordinates: make([]Coordinate, n)}
	var totalVar float64
	for _, s := range values {
		totalVar += s * s
	}

	row := make([]float64, p)
	for c := 0; c < 2; c++ {
		if c >= available {
			proj.Loadings[c] = make([]float64, p)
			continue
		}
		loading := mat.Col(nil, c, &v)
		orient(loading)
		proj.Loadings[c] = loading
		if totalVar > 0 {
			proj.ExplainedVarianceRatio[c] = values[c] * values[c] / totalVar
		}
		for i := 0; i < n; i++ {
			mat.Row(row, i, centered)
			score := floats.Dot(row, loading)
			if c == 0 {
				proj.Coordinates[i].PC1 = score
			} else {
				proj.Coordinates[i].PC2 = score
			}
		}
	}
	return proj, nil
}

// orient flips v in place so that its largest-magnitude entry is positive.
// Ties go to the lowest index.
func orient(v []float64) {
	idx := 0
	for i := range v {
		if math.Abs(v[i]) > math.Abs(v[idx]) {
			idx = i
		}
	}
	if v[idx] < 0 {
		floats.Scale(-1, v)
	}
}
