package trace

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// CanonicalRepr renders a captured value in a deterministic textual form so
// that structurally equal values always produce the same digest. Supported
// shapes are the ones calculators capture: big integers, integer-keyed
// caches and value buffers. Anything else falls back to fmt formatting,
// which is stable for the flat types that reach a footprint.
//
// Parameters:
//   - v: the captured value.
//
// Returns:
//   - string: the canonical representation.
func CanonicalRepr(v any) string {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case *big.Int:
		return val.String()
	case map[int]*big.Int:
		keys := make([]int, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		var sb strings.Builder
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d:%s", k, val[k].String())
		}
		sb.WriteByte('}')
		return sb.String()
	case []*big.Int:
		parts := make([]string, len(val))
		for i, x := range val {
			if x == nil {
				parts[i] = "<nil>"
				continue
			}
			parts[i] = x.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// DigestValue returns the identity digest of a captured value: the xxhash
// of its canonical representation, printed as fixed-width hex. Two values
// with equal canonical forms always share a digest, which is the equality
// notion used when matching observations against expected values.
func DigestValue(v any) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(CanonicalRepr(v)))
}
