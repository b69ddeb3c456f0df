package significance_test

import (
	"fmt"

	"github.com/katalvlaran/sigfit/matrix"
	"github.com/katalvlaran/sigfit/significance"
)

func ExamplePseudoPValues() {
	// three signatures, five bootstrap replicates
	e, _ := matrix.NewDenseFromRows([][]float64{
		{0.70, 0.65, 0.72, 0.68, 0.71},
		{0.30, 0.35, 0.28, 0.32, 0.29},
		{0.00, 0.00, 0.00, 0.00, 0.00},
	})
	p, _ := significance.PseudoPValues(e, significance.DefaultThreshold)
	fmt.Println(p)
	// Output: [0 0 1]
}
