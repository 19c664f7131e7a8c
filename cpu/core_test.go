package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoreSize(t *testing.T) {
	assert := assert.New(t)

	core, err := NewCore(0, 0)
	assert.NoError(err)
	assert.Equal(CORE_SIZE_MIN, core.Size())

	core, err = NewCore(CORE_SIZE_MAX, 0)
	assert.NoError(err)
	assert.Equal(CORE_SIZE_MAX, core.Size())

	_, err = NewCore(CORE_SIZE_MAX+1, 0)
	assert.ErrorIs(err, ErrCoreSize)
}

func TestCoreRegions(t *testing.T) {
	assert := assert.New(t)

	core, err := NewCore(64, 0)
	assert.NoError(err)
	assert.Equal(Region{Base: 56, Size: 8}, core.Frames)
	assert.Equal(Region{Base: 48, Size: 8}, core.Globals)
	assert.Equal(64, core.Frames.End())
	assert.True(core.Globals.Contains(48))
	assert.False(core.Globals.Contains(56))

	core.SetRegions(4, 16)
	assert.Equal(Region{Base: 48, Size: 16}, core.Frames)
	assert.Equal(Region{Base: 44, Size: 4}, core.Globals)

	core.SetRegions(100, 100)
	assert.Equal(Region{Base: 0, Size: 64}, core.Frames)
	assert.Equal(Region{Base: 0, Size: 0}, core.Globals)

	core.SetRegions(-1, -1)
	assert.Equal(Region{Base: 64, Size: 0}, core.Frames)
	assert.Equal(Region{Base: 64, Size: 0}, core.Globals)
}

func TestCoreAccess(t *testing.T) {
	assert := assert.New(t)

	core, err := NewCore(16, SENTINEL)
	assert.NoError(err)

	for _, word := range core.Words(0, core.Size()) {
		assert.Equal(SENTINEL, word)
	}

	assert.NoError(core.Write(3, 0x1234))
	value, err := core.Read(3)
	assert.NoError(err)
	assert.Equal(Word(0x1234), value)

	for _, addr := range []int{-1, 16, 0x10000} {
		_, err = core.Read(addr)
		assert.ErrorIs(err, ErrCoreRange, addr)
		assert.Equal(ErrAddress(addr), err)

		err = core.Write(addr, 0)
		assert.ErrorIs(err, ErrCoreRange, addr)
	}

	assert.Equal([]Word{SENTINEL, SENTINEL, SENTINEL, 0x1234}, core.Words(-5, 4))
	assert.Equal(4, len(core.Words(12, 100)))
	assert.Nil(core.Words(5, 5))

	// Copies do not alias the core.
	words := core.Words(3, 4)
	words[0] = 0
	value, _ = core.Read(3)
	assert.Equal(Word(0x1234), value)
}

func TestCoreSum(t *testing.T) {
	assert := assert.New(t)

	a, _ := NewCore(32, 0)
	b, _ := NewCore(32, 0)
	assert.Equal(a.Sum(), b.Sum())

	_ = a.Write(7, 1)
	assert.NotEqual(a.Sum(), b.Sum())

	_ = b.Write(7, 1)
	assert.Equal(a.Sum(), b.Sum())

	c, _ := NewCore(32, SENTINEL)
	assert.NotEqual(a.Sum(), c.Sum())

	assert.True(errors.Is(ErrAddress(-1), ErrCoreRange))
}
