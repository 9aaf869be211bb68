package backend

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/hyp3rd/sigma/pkg/parser"
)

// Key returns the cache key of xs: the xxhash64 of its canonical
// comma-separated decimal form, in hex.
func Key(xs parser.NumberList) string {
	digest := xxhash.New()

	buf := make([]byte, 0, 24)
	for i, x := range xs {
		buf = buf[:0]
		if i > 0 {
			buf = append(buf, ',')
		}

		buf = strconv.AppendInt(buf, x, 10)
		_, _ = digest.Write(buf)
	}

	return strconv.FormatUint(digest.Sum64(), 16)
}
