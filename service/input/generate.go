package input

import (
	"bufio"
	"io"
	"strconv"

	"github.com/valyala/fastrand"
)

// Generate writes count pseudo random integers in [0, bound) to w, one per
// line.  A zero bound means the full uint32 range.
func Generate(w io.Writer, count int, bound uint32) error {
	writer := bufio.NewWriter(w)
	var rng fastrand.RNG
	buf := make([]byte, 0, 16)
	for i := 0; i < count; i++ {
		var v uint32
		if bound == 0 {
			v = rng.Uint32()
		} else {
			v = rng.Uint32n(bound)
		}
		buf = strconv.AppendUint(buf[:0], uint64(v), 10)
		buf = append(buf, '\n')
		if _, err := writer.Write(buf); err != nil {
			return err
		}
	}
	return writer.Flush()
}
