package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMangleModule(t *testing.T) {
	assert.Equal(t, "pkg___mod", MangleModule("pkg.mod"))
	assert.Equal(t, "a___3_b___c", MangleModule("a___b.c"))
	assert.Equal(t, "single", MangleModule("single"))

	// Escaping literal runs first keeps distinct names distinct.
	assert.NotEqual(t, MangleModule("a___b.c"), MangleModule("a.b.c"))
}
