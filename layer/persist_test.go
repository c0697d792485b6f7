package layer

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsRoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	src := []Parametric{
		NewConv2D(2, 4, 3, 1, 1, rng),
		NewConvTranspose2D(4, 2, 2, 2, rng),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteParams(&buf, src))

	rng2 := rand.New(rand.NewSource(99))
	dst := []Parametric{
		NewConv2D(2, 4, 3, 1, 1, rng2),
		NewConvTranspose2D(4, 2, 2, 2, rng2),
	}
	require.NoError(t, ReadParams(&buf, dst))

	for i := range src {
		assert.Equal(t, src[i].Params(), dst[i].Params(), "layer %d", i)
	}
}
