package remote

import (
	"fmt"
	"strconv"
	"strings"
)

// ByteRange is a resolved, inclusive byte span.
type ByteRange struct {
	Start int64
	End   int64
}

// Length is the number of bytes in the range.
func (r ByteRange) Length() int64 { return r.End - r.Start + 1 }

// ContentRange formats the Content-Range header value for a file of size.
func (r ByteRange) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

// ParseRange resolves a single-range "bytes=" header against size. It
// returns ok=false when the header is empty, malformed or multi-range, in
// which case the whole file should be served. ErrRangeNotSatisfiable is
// returned when the range starts past the end of the file.
// Stores that serve local bytes use it; proxied stores forward the header.
func ParseRange(header string, size int64) (r ByteRange, ok bool, err error) {
	spec, found := strings.CutPrefix(strings.TrimSpace(header), "bytes=")
	if !found || spec == "" || strings.Contains(spec, ",") {
		return ByteRange{}, false, nil
	}
	startStr, endStr, found := strings.Cut(spec, "-")
	if !found {
		return ByteRange{}, false, nil
	}
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	switch {
	case startStr == "":
		// Suffix range: last N bytes.
		n, perr := strconv.ParseInt(endStr, 10, 64)
		if perr != nil || n <= 0 {
			return ByteRange{}, false, nil
		}
		if n > size {
			n = size
		}
		if size == 0 {
			return ByteRange{}, false, ErrRangeNotSatisfiable
		}
		return ByteRange{Start: size - n, End: size - 1}, true, nil
	default:
		start, perr := strconv.ParseInt(startStr, 10, 64)
		if perr != nil || start < 0 {
			return ByteRange{}, false, nil
		}
		if start >= size {
			return ByteRange{}, false, ErrRangeNotSatisfiable
		}
		end := size - 1
		if endStr != "" {
			e, perr := strconv.ParseInt(endStr, 10, 64)
			if perr != nil || e < start {
				return ByteRange{}, false, nil
			}
			if e < end {
				end = e
			}
		}
		return ByteRange{Start: start, End: end}, true, nil
	}
}
