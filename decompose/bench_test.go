package decompose_test

import (
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/sigfit/decompose"
)

func BenchmarkQP96x30(b *testing.B) {
	sigs := randomCatalog(b, 96, 30, 1)
	profile := randomSimplex(rand.New(rand.NewPCG(2, 2)), 96)
	qp := decompose.NewQP(decompose.DefaultQPOptions())
	if _, err := sigs.Factor(); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := qp.Decompose(profile, sigs); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReference96x10(b *testing.B) {
	sigs := randomCatalog(b, 96, 10, 1)
	profile := randomSimplex(rand.New(rand.NewPCG(2, 2)), 96)
	ref := decompose.NewReference(decompose.ReferenceOptions{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ref.Decompose(profile, sigs); err != nil {
			b.Fatal(err)
		}
	}
}
