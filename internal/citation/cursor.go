package citation

import "google.golang.org/protobuf/encoding/protowire"

// field is one top-level record read by the cursor. payload is only set for
// length-delimited fields and aliases the underlying buffer.
type field struct {
	num     protowire.Number
	typ     protowire.Type
	payload []byte
}

// cursor walks the top-level fields of an immutable buffer.
type cursor struct {
	buf []byte
	off int
}

// next reads the following field. Once the walk fails (bad tag, length past
// the end, unbalanced group) the cursor is exhausted and stays that way.
func (c *cursor) next() (field, bool) {
	if c.off >= len(c.buf) {
		return field{}, false
	}
	rest := c.buf[c.off:]

	num, typ, n := protowire.ConsumeTag(rest)
	if n < 0 {
		c.off = len(c.buf)
		return field{}, false
	}
	rest = rest[n:]

	f := field{num: num, typ: typ}
	var m int
	if typ == protowire.BytesType {
		f.payload, m = protowire.ConsumeBytes(rest)
	} else {
		m = protowire.ConsumeFieldValue(num, typ, rest)
	}
	if m < 0 {
		c.off = len(c.buf)
		return field{}, false
	}

	c.off += n + m
	return f, true
}
