package sigfit_test

import (
	"fmt"

	"github.com/katalvlaran/sigfit"
	"github.com/katalvlaran/sigfit/signature"
)

func ExampleDecomposeSingle() {
	sigs, _ := signature.FromColumns([][]float64{
		{0.2, 0.3, 0.5},
		{0.1, 0.4, 0.5},
		{0.3, 0.1, 0.6},
	})
	e, err := sigfit.DecomposeSingle([]float64{0.5, 0.3, 0.2}, sigs)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%.3f\n", e)
	// Output: [1.000 0.000 0.000]
}
