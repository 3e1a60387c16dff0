package udp

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/soypat/pktview"
	"github.com/soypat/pktview/internal"
)

const sizeHeader = 8

// NewFrame returns a Frame over the 8 octet UDP header at the start of buf and
// the rest of buf. [pktview.ErrInvalidLength] is returned if buf is shorter than 8.
// The length field is not checked, see [Frame.ValidateSize].
func NewFrame(buf []byte) (Frame, []byte, error) {
	if len(buf) < sizeHeader {
		return Frame{}, nil, pktview.ErrInvalidLength
	}
	return Frame{buf: buf[:sizeHeader:sizeHeader]}, buf[sizeHeader:], nil
}

// Frame encapsulates the raw data of a UDP header
// and provides methods for manipulating, validating and
// retrieving fields. See [RFC768].
//
// [RFC768]: https://tools.ietf.org/html/rfc768
type Frame struct {
	buf []byte
}

// RawData returns the 8 header octets.
func (ufrm Frame) RawData() []byte { return ufrm.buf }

// HeaderLength always returns 8.
func (ufrm Frame) HeaderLength() int { return len(ufrm.buf) }

// SourcePort identifies the sending port for the UDP packet. Zero if unused.
func (ufrm Frame) SourcePort() uint16 {
	return binary.BigEndian.Uint16(ufrm.buf[0:2])
}

// SetSourcePort sets UDP source port. See [Frame.SourcePort]
func (ufrm Frame) SetSourcePort(src uint16) {
	binary.BigEndian.PutUint16(ufrm.buf[0:2], src)
}

// DestinationPort identifies the receiving port for the UDP packet. Must be non-zero.
func (ufrm Frame) DestinationPort() uint16 {
	return binary.BigEndian.Uint16(ufrm.buf[2:4])
}

// SetDestinationPort sets UDP destination port. See [Frame.DestinationPort]
func (ufrm Frame) SetDestinationPort(dst uint16) {
	binary.BigEndian.PutUint16(ufrm.buf[2:4], dst)
}

// Length specifies length in bytes of UDP header and UDP payload. The minimum length
// is 8 bytes (UDP header length). This field should match the result of the IP header
// TotalLength field minus the IP header size: udp.Length == ip.TotalLength - 4*ip.IHL
func (ufrm Frame) Length() uint16 {
	return binary.BigEndian.Uint16(ufrm.buf[4:6])
}

// SetLength sets the UDP header's length field. See [Frame.Length].
func (ufrm Frame) SetLength(length uint16) {
	binary.BigEndian.PutUint16(ufrm.buf[4:6], length)
}

// CRC returns the checksum field in the UDP header. Zero means the sender did not compute one.
func (ufrm Frame) CRC() uint16 {
	return binary.BigEndian.Uint16(ufrm.buf[6:8])
}

// SetCRC sets the UDP header's CRC field. See [Frame.CRC].
func (ufrm Frame) SetCRC(checksum uint16) {
	binary.BigEndian.PutUint16(ufrm.buf[6:8], checksum)
}

// ClearCRC zeros the checksum field, which over IPv4 signals that no checksum was computed.
// A computed checksum of zero must be sent as 0xffff, see [pktview.NeverZeroChecksum].
func (ufrm Frame) ClearCRC() { ufrm.SetCRC(0) }

// ClearHeader zeros out the header contents.
func (ufrm Frame) ClearHeader() {
	clear(ufrm.buf)
}

//
// Validation API.
//

// ValidateSize checks the length field is at least the header size.
func (ufrm Frame) ValidateSize(v *pktview.Validator) {
	if ufrm.Length() < sizeHeader {
		v.AddBitPosErr(4*8, 16, pktview.ErrInvalidLengthField)
	}
}

func (ufrm Frame) String() string {
	return fmt.Sprintf("UDP :%d -> :%d LEN=%d", ufrm.SourcePort(), ufrm.DestinationPort(), ufrm.Length())
}

// LogValue implements [slog.LogValuer].
func (ufrm Frame) LogValue() slog.Value {
	return slog.GroupValue(
		internal.SlogPorts("port", ufrm.SourcePort(), ufrm.DestinationPort()),
		slog.Uint64("len", uint64(ufrm.Length())),
	)
}
