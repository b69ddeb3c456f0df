package metrics_test

import (
	"testing"

	"github.com/katalvlaran/sigfit/signature"
	"github.com/stretchr/testify/require"
)

func mustCatalog(t *testing.T) *signature.Catalog {
	t.Helper()
	c, err := signature.FromColumns([][]float64{
		{0.3, 0.2, 0.1, 0.1, 0.2, 0.1},
		{0.05, 0.05, 0.4, 0.3, 0.1, 0.1},
		{0.1, 0.3, 0.1, 0.1, 0.1, 0.3},
	})
	require.NoError(t, err)

	return c
}
