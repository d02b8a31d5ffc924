package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPtrAndDeref(t *testing.T) {
	p := Ptr(int64(42))
	assert.Equal(t, int64(42), *p)
	assert.Equal(t, int64(42), Deref(p, 0))
	assert.Equal(t, "default", Deref[string](nil, "default"))
}
