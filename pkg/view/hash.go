package view

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Hash fingerprints a view's own content fields. Equal inputs always yield
// equal fingerprints, across processes. Each part is length- and
// type-prefixed, so Hash("ab", "c") != Hash("a", "bc").
//
// Pass only the fields that affect the view's own markup; never hash
// children.
func Hash(parts ...any) uint64 {
	d := xxhash.New()
	var scratch [binary.MaxVarintLen64 + 1]byte
	writeUint := func(tag byte, v uint64) {
		scratch[0] = tag
		n := binary.PutUvarint(scratch[1:], v)
		d.Write(scratch[:n+1])
	}
	writeString := func(tag byte, s string) {
		writeUint(tag, uint64(len(s)))
		d.WriteString(s)
	}

	for _, p := range parts {
		switch v := p.(type) {
		case nil:
			writeUint('z', 0)
		case string:
			writeString('s', v)
		case []byte:
			writeUint('b', uint64(len(v)))
			d.Write(v)
		case bool:
			if v {
				writeUint('t', 1)
			} else {
				writeUint('t', 0)
			}
		case int:
			writeUint('i', uint64(v))
		case int32:
			writeUint('i', uint64(v))
		case int64:
			writeUint('i', uint64(v))
		case uint:
			writeUint('u', uint64(v))
		case uint32:
			writeUint('u', uint64(v))
		case uint64:
			writeUint('u', v)
		case float64:
			writeUint('f', math.Float64bits(v))
		case float32:
			writeUint('f', math.Float64bits(float64(v)))
		case Attributes:
			writeUint('a', uint64(len(v)))
			for _, k := range v.Keys() {
				val := v[k]
				writeString('k', k)
				if val.Set {
					writeString('v', val.Str)
				} else {
					writeUint('n', 0)
				}
			}
		case fmt.Stringer:
			writeString('S', v.String())
		default:
			writeString('?', fmt.Sprintf("%#v", v))
		}
	}
	return d.Sum64()
}
