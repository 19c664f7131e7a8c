package internal

import (
	"iter"
)

// Concat2 chains key/value sequences. Later sequences may repeat keys of
// earlier ones; consumers that build maps see the last value win.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			if seq == nil {
				continue
			}
			for k, v := range seq {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}
