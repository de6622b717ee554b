package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNewer(t *testing.T) {
	assert.True(t, IsNewer("0.3.0", "0.4.0"))
	assert.True(t, IsNewer("0.3.0", "1.0.0"))
	assert.True(t, IsNewer("0.3.0", "0.3.0.1"))
	assert.False(t, IsNewer("0.3.0", "0.3.0"))
	assert.False(t, IsNewer("0.3.0", "0.2.9"))
	assert.False(t, IsNewer("0.3.0", ""))
}
