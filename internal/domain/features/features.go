// Package features turns cohort records into an imputed, standardized feature matrix.
package features

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/playbook/internal/domain/model"
)

// MinCohortSize is the smallest cohort the engine will model.
const MinCohortSize = 10

// zeroVarianceTolerance is relative to max(1, |mean|).
const zeroVarianceTolerance = 1e-12

// Params holds the per-feature standardization parameters of one cohort.
type Params struct {
	Means   []float64
	StdDevs []float64
	// Constant marks features whose standardized values are all zero.
	Constant []bool
}

// Matrix is the prepared feature matrix of a cohort. Rows follow cohort order.
type Matrix struct {
	Features     []string
	Raw          *mat.Dense
	Standardized *mat.Dense
	Params       Params
}

// Rows returns the number of records.
func (m *Matrix) Rows() int {
	r, _ := m.Standardized.Dims()
	return r
}

// Cols returns the number of features.
func (m *Matrix) Cols() int {
	_, c := m.Standardized.Dims()
	return c
}

// Row returns a copy of the standardized vector of record i.
func (m *Matrix) Row(i int) []float64 {
	return mat.Row(nil, i, m.Standardized)
}

// RawRow returns a copy of the imputed raw vector of record i.
func (m *Matrix) RawRow(i int) []float64 {
	return mat.Row(nil, i, m.Raw)
}

// Points returns the standardized rows as independent slices.
func (m *Matrix) Points() [][]float64 {
	n := m.Rows()
	out := make([][]float64, n)
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}

// Prepare imputes missing values with 0 and standardizes every feature to zero
// mean and unit population variance over records. Constant features map to 0.
func Prepare(records []model.PlayerSeason, names []string) (*Matrix, error) {
	if len(records) < MinCohortSize {
		return nil, &InsufficientDataError{Size: len(records), Min: MinCohortSize}
	}
	if len(names) == 0 {
		return nil, ErrNoFeatures
	}

	n, p := len(records), len(names)
	raw := mat.NewDense(n, p, nil)
	for i, rec := range records {
		for j, name := range names {
			raw.Set(i, j, rec.ValueOrZero(name))
		}
	}

	params := Params{
		Means:    make([]float64, p),
		StdDevs:  make([]float64, p),
		Constant: make([]bool, p),
	}
	std := mat.NewDense(n, p, nil)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, raw)
		mean, sd := stat.PopMeanStdDev(col, nil)
		params.Means[j] = mean
		params.StdDevs[j] = sd
		if isConstant(col, mean, sd) {
			// std stays zero for this column
			params.Constant[j] = true
			continue
		}
		for i, v := range col {
			std.Set(i, j, (v-mean)/sd)
		}
	}

	return &Matrix{
		Features:     append([]string(nil), names...),
		Raw:          raw,
		Standardized: std,
		Params:       params,
	}, nil
}

func isConstant(col []float64, mean, sd float64) bool {
	if sd <= zeroVarianceTolerance*math.Max(1, math.Abs(mean)) {
		return true
	}
	for _, v := range col[1:] {
		if v != col[0] {
			return false
		}
	}
	return true
}
