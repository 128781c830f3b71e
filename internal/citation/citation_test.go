package citation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func quoteBlob(text string) []byte {
	b := protowire.AppendTag(nil, QuoteField, protowire.BytesType)
	return protowire.AppendString(b, text)
}

func TestDecode_Quote(t *testing.T) {
	c, ok := Decode(quoteBlob("That's great to hear!"))
	require.True(t, ok)
	assert.Equal(t, "That's great to hear!", c.Text)
}

func TestDecode_Absent(t *testing.T) {
	_, ok := Decode(nil)
	assert.False(t, ok)

	_, ok = Decode([]byte{})
	assert.False(t, ok)

	// only unrelated fields
	b := protowire.AppendTag(nil, 2, protowire.BytesType)
	b = protowire.AppendString(b, "not a quote but long enough")
	_, ok = Decode(b)
	assert.False(t, ok)
}

func TestDecode_LengthThreshold(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
	}{
		{name: "ten ascii", text: "0123456789", ok: false},
		{name: "eleven ascii", text: "0123456789a", ok: true},
		{name: "ten multibyte runes", text: strings.Repeat("é", 10), ok: false},
		{name: "eleven multibyte runes", text: strings.Repeat("é", 11), ok: true},
		{name: "emoji runes", text: strings.Repeat("😂", 11), ok: true},
		{name: "empty", text: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Decode(quoteBlob(tt.text))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.text, c.Text)
			}
		})
	}
}

func TestDecode_EveryPayloadLength(t *testing.T) {
	for n := 0; n <= 300; n++ {
		text := strings.Repeat("x", n)
		c, ok := Decode(quoteBlob(text))
		if n > MinQuoteRunes {
			require.True(t, ok, "length %d", n)
			require.Equal(t, text, c.Text)
		} else {
			require.False(t, ok, "length %d", n)
		}
	}
}

func TestDecode_InvalidUTF8(t *testing.T) {
	b := protowire.AppendTag(nil, QuoteField, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte{0xff, 0xfe, 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j'})
	_, ok := Decode(b)
	assert.False(t, ok)
}

func TestDecode_SkipsOtherWireTypes(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, 1<<40)
	b = protowire.AppendTag(b, 3, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 42)
	b = protowire.AppendTag(b, 4, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 7)
	b = protowire.AppendTag(b, 5, protowire.BytesType)
	b = protowire.AppendString(b, "\x0a\x20decoy that must not be walked into")
	b = protowire.AppendTag(b, 6, protowire.StartGroupType)
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, 9)
	b = protowire.AppendTag(b, 6, protowire.EndGroupType)
	b = append(b, quoteBlob("Are you coming tonight?")...)

	c, ok := Decode(b)
	require.True(t, ok)
	assert.Equal(t, "Are you coming tonight?", c.Text)
}

func TestDecode_FieldOneOfOtherWireType(t *testing.T) {
	b := protowire.AppendTag(nil, QuoteField, protowire.VarintType)
	b = protowire.AppendVarint(b, 300)
	b = append(b, quoteBlob("the actual quoted text")...)

	c, ok := Decode(b)
	require.True(t, ok)
	assert.Equal(t, "the actual quoted text", c.Text)
}

func TestDecode_OnlyFirstQuoteFieldCounts(t *testing.T) {
	b := quoteBlob("short")
	b = append(b, quoteBlob("a much longer second quote")...)

	_, ok := Decode(b)
	assert.False(t, ok)
}

func TestDecode_NestedQuoteIgnored(t *testing.T) {
	inner := quoteBlob("quoted text hidden inside a submessage")
	b := protowire.AppendTag(nil, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, inner)

	_, ok := Decode(b)
	assert.False(t, ok)
}

func TestDecode_MultiByteLength(t *testing.T) {
	text := strings.Repeat("long quote ", 40)
	blob := quoteBlob(text)
	require.Greater(t, len(text), 127)
	assert.Equal(t, byte(0x0a), blob[0])
	assert.NotZero(t, blob[1]&0x80, "length should need a continuation byte")

	c, ok := Decode(blob)
	require.True(t, ok)
	assert.Equal(t, text, c.Text)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{name: "declared length past end", blob: []byte{0x0a, 0x1e, 'h', 'e', 'l', 'l', 'o'}},
		{name: "length varint cut off", blob: []byte{0x0a, 0x80}},
		{name: "tag varint cut off", blob: []byte{0x80}},
		{name: "field number zero", blob: append([]byte{0x02, 0x00}, quoteBlob("valid quote afterwards")...)},
		{name: "unterminated varint before quote", blob: append([]byte{0x10, 0xff, 0xff}, 0xff)},
		{name: "stray end group", blob: append([]byte{0x0c}, quoteBlob("valid quote afterwards")...)},
		{name: "unterminated group", blob: []byte{0x33, 0x08, 0x01}},
		{name: "fixed64 cut off", blob: []byte{0x19, 0x01, 0x02}},
		{name: "reserved wire type", blob: append([]byte{0x0e}, quoteBlob("valid quote afterwards")...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, ok := Decode(tt.blob)
				assert.False(t, ok)
			})
		})
	}
}

func TestDecode_CopiesPayload(t *testing.T) {
	blob := quoteBlob("original quoted text")
	c, ok := Decode(blob)
	require.True(t, ok)

	for i := range blob {
		blob[i] = 'z'
	}
	assert.Equal(t, "original quoted text", c.Text)
}

func TestCursor_WalksAllFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, 1)
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, "x")
	b = protowire.AppendTag(b, 9, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 1)

	c := cursor{buf: b}
	var nums []protowire.Number
	for {
		f, ok := c.next()
		if !ok {
			break
		}
		nums = append(nums, f.num)
		if f.num == 1 {
			assert.Equal(t, []byte("x"), f.payload)
		}
	}
	assert.Equal(t, []protowire.Number{3, 1, 9}, nums)

	_, ok := c.next()
	assert.False(t, ok, "exhausted cursor stays exhausted")
}

func TestForwardID(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"hash", "3A`kF9{x}Qp2", "3A`kF9{x}Qp2", true},
		{"hash with noise", " 3A`kF9 {x}Qp2\n", "3A`kF9{x}Qp2", true},
		{"apostrophe separator", "Zq7'Lm3nB8", "", false}, // too short once stripped
		{"long apostrophe", "Zq7'Lm3nB8xY", "Zq7'Lm3nB8xY", true},
		{"no separator", "Are you coming tonight?", "", false},
		{"lowercase only", "abcd'efghijkl", "", false},
		{"two separators", "ab'cd'efghijk1", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ForwardID(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
