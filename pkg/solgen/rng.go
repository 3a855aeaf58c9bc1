package solgen

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

const (
	lcgA    uint64 = 0x5DEECE66D
	lcgC    uint64 = 0xB
	lcgMask uint64 = (1 << 48) - 1
)

// rng is the srand48/lrand48/drand48 recurrence. One rng lives for the whole
// process and is never reseeded between programs.
type rng struct {
	state     uint64
	trace     bool
	traceSite bool
	traceFile string
	tracePos  uint64
}

func newRNG(seed uint64) *rng {
	// srand48 semantics.
	r := &rng{state: ((seed << 16) + 0x330E) & lcgMask}
	if os.Getenv("SOLGEN_TRACE_RNG") != "" {
		r.trace = true
		r.traceSite = os.Getenv("SOLGEN_TRACE_RNG_SITE") != ""
		r.traceFile = os.Getenv("SOLGEN_TRACE_RNG_FILE")
		if r.traceFile == "" {
			r.traceFile = "/tmp/solgen-rng.trace"
		}
		_ = os.WriteFile(r.traceFile, []byte(fmt.Sprintf("# seed=%d\n", seed)), 0o644)
	}
	return r
}

func (r *rng) step() uint64 {
	r.state = (lcgA*r.state + lcgC) & lcgMask
	return r.state
}

func (r *rng) next31() uint32 {
	return uint32(r.step() >> 17)
}

// upto returns a value in [0, n).
func (r *rng) upto(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	x := r.next31() % n
	r.record("U", n, x)
	return x
}

// between returns a value in [lo, hi].
func (r *rng) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + int(r.upto(uint32(hi-lo+1)))
}

func (r *rng) flipcoin(p uint32) bool {
	if p > 100 {
		p = 100
	}
	ok := r.next31()%100 < p
	var b uint32
	if ok {
		b = 1
	}
	r.record("F", p, b)
	return ok
}

func (r *rng) coin() bool {
	return r.flipcoin(50)
}

// unit returns a float in [0, 1) with drand48 precision.
func (r *rng) unit() float64 {
	v := float64(r.step()) / float64(uint64(1)<<48)
	if r.trace {
		r.write(fmt.Sprintf("D -> %v", v))
	}
	return v
}

func (r *rng) record(kind string, n, x uint32) {
	if r.trace {
		r.write(fmt.Sprintf("%s %d -> %d", kind, n, x))
	}
}

func (r *rng) write(line string) {
	r.tracePos++
	f, err := os.OpenFile(r.traceFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return
	}
	if r.traceSite {
		_, _ = fmt.Fprintf(f, "%d %s @%s\n", r.tracePos, line, traceCaller())
	} else {
		_, _ = fmt.Fprintf(f, "%d %s\n", r.tracePos, line)
	}
	_ = f.Close()
}

func traceCaller() string {
	var pcs [12]uintptr
	n := runtime.Callers(4, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		fr, more := frames.Next()
		if fr.Function != "" && !strings.Contains(fr.Function, ".(*rng).") {
			return fr.Function
		}
		if !more {
			break
		}
	}
	return "unknown"
}
