package tcp

import (
	"golang.org/x/crypto/cryptobyte"

	"github.com/soypat/pktview"
)

// OptionCodec reads and writes the TLV encoded options region of a TCP header.
// The frame itself treats options as opaque bytes, see [Frame.Options].
type OptionCodec struct {
	Flags OptionFlags
}

type OptionFlags uint8

const (
	OptFlagSkipSizeValidation OptionFlags = 1 << iota
	OptFlagSkipObsolete
)

func (flags OptionFlags) HasAny(ofTheseFlags OptionFlags) bool {
	return flags&ofTheseFlags != 0
}

// PutOption16 writes a 4 octet option holding a 16 bit value, such as [OptMaxSegmentSize].
func (op OptionCodec) PutOption16(dst []byte, kind OptionKind, v uint16) (int, error) {
	return op.PutOption(dst, kind, byte(v>>8), byte(v))
}

// PutOption32 writes a 6 octet option holding a 32 bit value.
func (op OptionCodec) PutOption32(dst []byte, kind OptionKind, v uint32) (int, error) {
	return op.PutOption(dst, kind, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// PutOption writes kind, length and data to dst and returns the number of octets written.
// Single octet options ([OptNop], [OptEnd]) are not written by PutOption.
func (op OptionCodec) PutOption(dst []byte, kind OptionKind, data ...byte) (int, error) {
	putSize := 2 + len(data)
	if len(dst) < putSize {
		return -1, pktview.ErrShortBuffer
	} else if putSize > 255 {
		return -1, pktview.ErrInvalidLengthField
	} else if kind == OptNop || kind == OptEnd {
		return -1, pktview.ErrInvalidField
	}
	b := cryptobyte.NewFixedBuilder(dst[:0])
	b.AddUint8(uint8(kind))
	b.AddUint8(uint8(putSize))
	b.AddBytes(data)
	out, err := b.Bytes()
	if err != nil {
		return -1, pktview.ErrShortBuffer
	}
	return len(out), nil
}

// ForEachOption walks the options in opts calling fn with each option's kind and data,
// the data not including the kind and length octets. The walk stops at [OptEnd] or at the
// end of opts. [OptNop] padding is skipped. The data passed to fn aliases opts.
func (op OptionCodec) ForEachOption(opts []byte, fn func(OptionKind, []byte) error) error {
	skipSizeValidation := op.Flags.HasAny(OptFlagSkipSizeValidation)
	skipObsolete := op.Flags.HasAny(OptFlagSkipObsolete)
	s := cryptobyte.String(opts)
	for !s.Empty() {
		var kind8 uint8
		s.ReadUint8(&kind8)
		kind := OptionKind(kind8)
		if kind == OptEnd {
			break
		} else if kind == OptNop {
			continue
		}
		var size uint8 // Total option length including kind and length bytes.
		if !s.ReadUint8(&size) {
			return pktview.ErrShortBuffer
		}
		if size < 2 {
			return pktview.ErrInvalidLengthField
		}
		var data []byte
		if !s.ReadBytes(&data, int(size)-2) {
			return pktview.ErrShortBuffer
		}

		if !skipSizeValidation {
			expectSize := uint8(0)
			switch kind {
			case OptTimestamps:
				expectSize = 10
			case OptMaxSegmentSize, OptUserTimeout:
				expectSize = 4
			case OptWindowScale:
				expectSize = 3
			case OptSACKPermitted:
				expectSize = 2
			}
			if expectSize != 0 && size != expectSize {
				return pktview.ErrInvalidLengthField
			}
		}
		if !(skipObsolete && kind.IsObsolete()) {
			err := fn(kind, data)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
