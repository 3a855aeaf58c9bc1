package solgen

import "strconv"

// identLetters is the size of the name alphabet; 'y' and 'z' are never used.
const identLetters = 24

// identAllocator hands out a1, b1, ..., x1, a2, ... for one program.
type identAllocator struct {
	n int
}

func (a *identAllocator) next() string {
	name := string(rune('a'+a.n%identLetters)) + strconv.Itoa(a.n/identLetters+1)
	a.n++
	return name
}

func (a *identAllocator) reset() {
	a.n = 0
}
