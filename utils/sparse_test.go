package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparse(t *testing.T) {
	A := NewDOK(3, 3)
	A.Set(0, 0, 2)
	A.Set(1, 1, 3)
	A.Set(2, 0, -1)
	assert.Equal(t, 3, A.NNZ())
	A.SetReadOnly("A")
	assert.Panics(t, func() { A.Set(0, 1, 1) })
	C := A.ToCSR()
	r, c := C.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, -1., C.At(2, 0))
	assert.Equal(t, 0., C.At(0, 2))
	assert.Equal(t, 3, C.NNZ())
	D := C.ToDense()
	assert.Equal(t, 3., D.At(1, 1))
	assert.Equal(t, -1., C.T().At(0, 2))
}
