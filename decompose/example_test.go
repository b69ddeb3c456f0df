package decompose_test

import (
	"fmt"

	"github.com/katalvlaran/sigfit/decompose"
	"github.com/katalvlaran/sigfit/signature"
)

// ExampleQP fits a profile whose best explanation is a single signature.
func ExampleQP() {
	sigs, err := signature.FromColumns([][]float64{
		{0.2, 0.3, 0.5},
		{0.1, 0.4, 0.5},
		{0.3, 0.1, 0.6},
	}, signature.WithIDs("SBS1", "SBS5", "SBS13"))
	if err != nil {
		fmt.Println(err)
		return
	}
	profile := []float64{0.5, 0.3, 0.2}

	e, err := decompose.NewQP(decompose.DefaultQPOptions()).Decompose(profile, sigs)
	if err != nil {
		fmt.Println(err)
		return
	}
	res, _ := decompose.Residual(profile, sigs, e)
	for j, id := range sigs.IDs() {
		fmt.Printf("%s=%.4f\n", id, e[j])
	}
	fmt.Printf("residual=%.4f\n", res)
	// Output:
	// SBS1=1.0000
	// SBS5=0.0000
	// SBS13=0.0000
	// residual=0.4243
}
