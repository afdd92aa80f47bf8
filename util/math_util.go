package util

import "math/bits"

// AddUint64 returns the sum of ns, false when the sum doesn't fit into uint64.
func AddUint64(ns ...uint64) (uint64, bool) {
	var sum uint64
	for _, n := range ns {
		var ok bool
		if sum, ok = SafeAdd(sum, n); !ok {
			return 0, false
		}
	}
	return sum, true
}

// SafeAdd returns a+b, false on overflow.
func SafeAdd(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}
