// Package cpu implements the qovm word machine and its loader.
//
// The machine has a flat core of 16-bit words shared by code, data, a
// global variable stack and a call stack, and a register file of six
// words: the accumulator A, its previous value B, the program counter C,
// the resolved address D, the frame pointer P and the global base G.
//
// An instruction is one word. The function field selects the operation;
// the D, P, G and I modifiers build the effective address, always in that
// order: the base is the next word (D) or the program counter plus the
// inline offset, then P and G are added, then I indirects once.
//
// The assembler loads a compact mnemonic stream of single letters and
// upper case hex literals directly into the core.
package cpu
