package cpu

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

const (
	CORE_SIZE_MIN = 16      // Smallest core; requests below are rounded up.
	CORE_SIZE_MAX = 0x10000 // Largest core addressable by a Word.

	SENTINEL = Word(0xffff) // Fill value of a debug core.
)

// Region is a reserved range of core addresses.
type Region struct {
	Base int // First address of the region.
	Size int // Number of words in the region.
}

// End returns the address one past the region.
func (r Region) End() int {
	return r.Base + r.Size
}

// Contains returns true if addr lies within the region.
func (r Region) Contains(addr int) bool {
	return addr >= r.Base && addr < r.End()
}

// Core is the flat word memory shared by code, data and both stacks.
// Every access is bounds checked.
type Core struct {
	Globals Region // Global variable stack.
	Frames  Region // Call stack.

	word []Word
}

// NewCore allocates a core of size words. Returns ErrCoreSize if the
// core would not be addressable.
func NewCore(size uint, fill Word) (core *Core, err error) {
	size = max(size, CORE_SIZE_MIN)
	if size > CORE_SIZE_MAX {
		err = ErrCoreSize
		return
	}

	core = &Core{
		word: make([]Word, size),
	}
	if fill != 0 {
		for n := range core.word {
			core.word[n] = fill
		}
	}

	// Default layout: the top eighth is the call stack, the eighth below
	// it the global variable stack.
	core.SetRegions(int(size)/8, int(size)/8)

	return
}

// SetRegions reserves the top of the core for the global and call stacks.
// Sizes are clamped so that both regions fit.
func (core *Core) SetRegions(globals, frames int) {
	size := core.Size()
	frames = min(max(frames, 0), size)
	globals = min(max(globals, 0), size-frames)

	core.Frames = Region{Base: size - frames, Size: frames}
	core.Globals = Region{Base: core.Frames.Base - globals, Size: globals}
}

// Size returns the number of words in the core.
func (core *Core) Size() int {
	return len(core.word)
}

// Valid returns true if addr is inside the core.
func (core *Core) Valid(addr int) bool {
	return addr >= 0 && addr < len(core.word)
}

// Read a word from the core.
func (core *Core) Read(addr int) (value Word, err error) {
	if !core.Valid(addr) {
		err = ErrAddress(addr)
		return
	}

	value = core.word[addr]
	return
}

// Write a word to the core.
func (core *Core) Write(addr int, value Word) (err error) {
	if !core.Valid(addr) {
		err = ErrAddress(addr)
		return
	}

	core.word[addr] = value
	return
}

// Words returns a copy of the core contents in [from, to).
func (core *Core) Words(from, to int) (words []Word) {
	from = max(from, 0)
	to = min(to, len(core.word))
	if from >= to {
		return
	}
	words = make([]Word, to-from)
	copy(words, core.word[from:to])
	return
}

// Sum returns a murmur3 fingerprint of the whole core.
func (core *Core) Sum() uint32 {
	hash := murmur3.New32()
	var buff [2]byte
	for _, w := range core.word {
		binary.LittleEndian.PutUint16(buff[:], uint16(w))
		hash.Write(buff[:])
	}
	return hash.Sum32()
}
