package pktview

// Error is a header decoding error kind. Errors are byte sized so returning
// one as an error interface does not allocate.
type Error uint8

// Errors returned by header constructors. Each is terminal for the call that returned it.
const (
	_                       Error = iota // non-initialized err
	ErrWrongSize                         // ethernet: buffer shorter than 14 bytes
	ErrWrongSizeForType                  // ethernet: buffer too short for tagged frame
	ErrInvalidSize                       // buffer shorter than minimum header
	ErrInvalidSizeForIHL                 // ipv4: buffer shorter than IHL
	ErrInvalidSizeForOffset              // tcp: buffer shorter than data offset
	ErrInvalidIHL                        // ipv4: IHL below 5
	ErrInvalidDataOffset                 // tcp: data offset below 5
	ErrInvalidVersion                    // ipv4: version not 4
	ErrValueTooLarge                     // value too large for 16 bit length field
	ErrInvalidLength                     // udp: buffer shorter than 8 bytes
)

// Generic errors reported by validation and option handling.
const (
	ErrShortBuffer        Error = iota + 32 // short buffer
	ErrInvalidLengthField                   // invalid length field
	ErrInvalidField                         // invalid field
	ErrZeroSource                           // zero source port/address
	ErrZeroDestination                      // zero destination port/address
	ErrBadCRC                               // incorrect checksum
	ErrPacketDrop                           // packet dropped
	ErrOutOfBounds                          // access past end of packet
)

func (err Error) Error() string {
	return err.String()
}

func (err Error) String() string {
	switch err {
	case ErrWrongSize:
		return "ethernet: buffer shorter than 14 bytes"
	case ErrWrongSizeForType:
		return "ethernet: buffer too short for tagged frame"
	case ErrInvalidSize:
		return "buffer shorter than minimum header"
	case ErrInvalidSizeForIHL:
		return "ipv4: buffer shorter than IHL"
	case ErrInvalidSizeForOffset:
		return "tcp: buffer shorter than data offset"
	case ErrInvalidIHL:
		return "ipv4: IHL below 5"
	case ErrInvalidDataOffset:
		return "tcp: data offset below 5"
	case ErrInvalidVersion:
		return "ipv4: version not 4"
	case ErrValueTooLarge:
		return "value too large for 16 bit length field"
	case ErrInvalidLength:
		return "udp: buffer shorter than 8 bytes"
	case ErrShortBuffer:
		return "short buffer"
	case ErrInvalidLengthField:
		return "invalid length field"
	case ErrInvalidField:
		return "invalid field"
	case ErrZeroSource:
		return "zero source port/address"
	case ErrZeroDestination:
		return "zero destination port/address"
	case ErrBadCRC:
		return "incorrect checksum"
	case ErrPacketDrop:
		return "packet dropped"
	case ErrOutOfBounds:
		return "access past end of packet"
	}
	return "pktview: unknown error"
}

// IsParseError reports whether err is one of the errors returned by header constructors.
func (err Error) IsParseError() bool {
	return err >= ErrWrongSize && err <= ErrInvalidLength && err != ErrValueTooLarge
}
