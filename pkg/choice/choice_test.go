package choice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTernary(t *testing.T) {
	assert.Equal(t, "v2.0", Ternary(true, "v2.0", "v1.0"))
	assert.Equal(t, "v1.0", Ternary(false, "v2.0", "v1.0"))
	assert.Equal(t, 0, Ternary(false, 1, 0))
}
