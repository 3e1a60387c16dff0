package pktview

// HeaderSize is the length in bytes of a variable length IPv4 or TCP header,
// measured from its 4 bit length field (IHL or data offset) at construction.
type HeaderSize uint8

// Header size classes. The 4 bit length field counts 32 bit words so only
// these eleven lengths exist.
const (
	HeaderSize20 HeaderSize = 20 + 4*iota
	HeaderSize24
	HeaderSize28
	HeaderSize32
	HeaderSize36
	HeaderSize40
	HeaderSize44
	HeaderSize48
	HeaderSize52
	HeaderSize56
	HeaderSize60
)

// MinHeaderSize and MaxHeaderSize bound the IPv4 and TCP header size classes.
const (
	MinHeaderSize = HeaderSize20
	MaxHeaderSize = HeaderSize60
)

// sizeFromWords is total over all 16 nibble values. Zero marks words below 5.
var sizeFromWords = [16]HeaderSize{
	5:  HeaderSize20,
	6:  HeaderSize24,
	7:  HeaderSize28,
	8:  HeaderSize32,
	9:  HeaderSize36,
	10: HeaderSize40,
	11: HeaderSize44,
	12: HeaderSize48,
	13: HeaderSize52,
	14: HeaderSize56,
	15: HeaderSize60,
}

// SizeFromWords maps a 4 bit word count to its header size class. It returns
// zero if words is below 5. Bits above the low nibble are ignored.
func SizeFromWords(words uint8) HeaderSize {
	return sizeFromWords[words&0xf]
}

// Words returns the 4 bit word count that encodes the size class.
func (hs HeaderSize) Words() uint8 { return uint8(hs) / 4 }

// OptionsLength returns the number of option bytes past the fixed 20 byte header.
func (hs HeaderSize) OptionsLength() int { return int(hs) - int(MinHeaderSize) }

// IsValid reports whether hs is one of the defined size classes.
func (hs HeaderSize) IsValid() bool {
	return hs >= MinHeaderSize && hs <= MaxHeaderSize && hs%4 == 0
}

// SizeSelector describes where a header keeps its 4 bit word count and which
// errors to report while measuring it. It implements the measuring step shared
// by the IPv4 and TCP constructors.
type SizeSelector struct {
	// Offset of the byte holding the word count.
	Offset int
	// High selects the high nibble of the byte at Offset, else the low nibble.
	High bool
	// ErrShort is returned when the buffer cannot hold the fixed 20 byte header.
	ErrShort error
	// ErrWords is returned when the word count is below 5.
	ErrWords error
	// ErrShortForWords is returned when the buffer cannot hold the measured header.
	ErrShortForWords error
}

// Peek checks the buffer holds the fixed header, reads the word count, maps it
// to a size class and checks the buffer holds the whole header. Exactly three
// comparisons are made regardless of buffer contents. The word count byte is
// only read after the first check passes. On ErrShortForWords the measured
// size is returned alongside the error.
func (sel *SizeSelector) Peek(buf []byte) (HeaderSize, error) {
	if len(buf) < int(MinHeaderSize) {
		return 0, sel.ErrShort
	}
	nibble := buf[sel.Offset]
	if sel.High {
		nibble >>= 4
	}
	size := SizeFromWords(nibble)
	if size == 0 {
		return 0, sel.ErrWords
	}
	if len(buf) < int(size) {
		return size, sel.ErrShortForWords
	}
	return size, nil
}
