package model

// Parameter is an externally supplied value owned by the model's
// external-parameter registry and referenced by key from external
// connections and backups.
type Parameter interface {
	isParameter()
}

// ScalarParam is a single external value.
type ScalarParam struct {
	Value float64
}

func (ScalarParam) isParameter() {}

// ArrayParam is a dimensioned external value. Values is row-major; Shape
// gives the extent of each dimension and must multiply out to len(Values).
// Dims optionally names the dimensions (e.g. ["time"] or ["time","region"]).
type ArrayParam struct {
	Dims   []string
	Shape  []int
	Values []float64
}

func (ArrayParam) isParameter() {}

// IsTimeIndexed reports whether the array's leading dimension is time.
func (a ArrayParam) IsTimeIndexed() bool {
	return len(a.Dims) > 0 && a.Dims[0] == TimeDim
}
