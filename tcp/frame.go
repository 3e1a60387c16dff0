package tcp

import (
	"encoding/binary"
	"log/slog"
	"math"
	"strconv"

	"github.com/soypat/pktview"
	"github.com/soypat/pktview/internal"
)

var offsetSelector = pktview.SizeSelector{
	Offset:           12,
	High:             true,
	ErrShort:         pktview.ErrInvalidSize,
	ErrWords:         pktview.ErrInvalidDataOffset,
	ErrShortForWords: pktview.ErrInvalidSizeForOffset,
}

// NewFrame measures the TCP header at the start of buf using its data offset
// field and returns a Frame over exactly the header octets, options included,
// along with the rest of buf (the segment payload). Errors are checked in this order:
//   - [pktview.ErrInvalidSize] if buf is shorter than 20 bytes.
//   - [pktview.ErrInvalidDataOffset] if the data offset is below 5.
//   - [pktview.ErrInvalidSizeForOffset] if buf is shorter than 4*offset.
func NewFrame(buf []byte) (Frame, []byte, error) {
	size, err := offsetSelector.Peek(buf)
	if err != nil {
		return Frame{}, nil, err
	}
	return Frame{buf: buf[:size:size]}, buf[size:], nil
}

// Frame encapsulates the raw data of a TCP header
// and provides methods for manipulating, validating and
// retrieving fields. See [RFC9293].
//
// A Frame's length is measured from the data offset when it is created and is
// fixed thereafter. The payload is not part of the frame; it is the remainder
// returned by [NewFrame].
//
// [RFC9293]: https://datatracker.ietf.org/doc/html/rfc9293
type Frame struct {
	buf []byte
}

// PseudoHeader holds the IPv4 addresses that take part in the TCP checksum. See [RFC9293 3.1].
//
// [RFC9293 3.1]: https://datatracker.ietf.org/doc/html/rfc9293#section-3.1
type PseudoHeader struct {
	Source      [4]byte
	Destination [4]byte
}

// RawData returns the header octets the frame was measured to hold.
func (tfrm Frame) RawData() []byte { return tfrm.buf }

// HeaderLength returns the length of the TCP header measured at construction, options included.
func (tfrm Frame) HeaderLength() int { return len(tfrm.buf) }

// Size returns the header size class measured at construction.
func (tfrm Frame) Size() pktview.HeaderSize { return pktview.HeaderSize(len(tfrm.buf)) }

// SourcePort identifies the sending port of the TCP packet. Must be non-zero.
func (tfrm Frame) SourcePort() uint16 {
	return binary.BigEndian.Uint16(tfrm.buf[0:2])
}

// SetSourcePort sets TCP source port. See [Frame.SourcePort]
func (tfrm Frame) SetSourcePort(src uint16) {
	binary.BigEndian.PutUint16(tfrm.buf[0:2], src)
}

// DestinationPort identifies the receiving port for the TCP packet. Must be non-zero.
func (tfrm Frame) DestinationPort() uint16 {
	return binary.BigEndian.Uint16(tfrm.buf[2:4])
}

// SetDestinationPort sets TCP destination port. See [Frame.DestinationPort]
func (tfrm Frame) SetDestinationPort(dst uint16) {
	binary.BigEndian.PutUint16(tfrm.buf[2:4], dst)
}

// Seq returns sequence number of the first data octet in this segment (except when SYN present)
// If SYN present this is the Initial Sequence Number (ISN) and the first data octet would be ISN+1.
func (tfrm Frame) Seq() uint32 {
	return binary.BigEndian.Uint32(tfrm.buf[4:8])
}

// SetSeq sets Seq field. See [Frame.Seq].
func (tfrm Frame) SetSeq(v uint32) {
	binary.BigEndian.PutUint32(tfrm.buf[4:8], v)
}

// Ack is the next sequence number (Seq field) the sender is expecting to receive (when ACK is present).
// In other words an Ack of X indicates all octets up to but not including X have been received.
// Once a connection is established the ACK flag should always be set.
func (tfrm Frame) Ack() uint32 {
	return binary.BigEndian.Uint32(tfrm.buf[8:12])
}

// SetAck sets Ack field. See [Frame.Ack].
func (tfrm Frame) SetAck(v uint32) {
	binary.BigEndian.PutUint32(tfrm.buf[8:12], v)
}

// DataOffset returns the data offset field: the header length in 32 bit words.
func (tfrm Frame) DataOffset() uint8 { return tfrm.buf[12] >> 4 }

// SetDataOffset sets the data offset field leaving the reserved bits and NS untouched.
// The frame keeps the length it was measured with.
func (tfrm Frame) SetDataOffset(words uint8) {
	tfrm.buf[12] = words<<4 | tfrm.buf[12]&0xf
}

// OffsetAndFlags returns the offset and flag fields of TCP header.
// Offset is amount of 32-bit words used for TCP header including TCP options.
// See [Flags] for more information on TCP flags.
func (tfrm Frame) OffsetAndFlags() (offset uint8, flags Flags) {
	v := binary.BigEndian.Uint16(tfrm.buf[12:14])
	offset = uint8(v >> 12)
	flags = Flags(v).Mask()
	return offset, flags
}

// SetOffsetAndFlags sets offset and flag fields of TCP header, clearing the reserved bits. See [Frame.OffsetAndFlags].
func (tfrm Frame) SetOffsetAndFlags(offset uint8, flags Flags) {
	v := uint16(offset)<<12 | uint16(flags.Mask())
	binary.BigEndian.PutUint16(tfrm.buf[12:14], v)
}

// Flags returns the nine TCP flag bits.
func (tfrm Frame) Flags() Flags {
	return Flags(binary.BigEndian.Uint16(tfrm.buf[12:14])).Mask()
}

// SetFlags sets all nine TCP flag bits leaving the data offset and reserved bits untouched.
func (tfrm Frame) SetFlags(flags Flags) {
	v := binary.BigEndian.Uint16(tfrm.buf[12:14])&^flagMask | uint16(flags.Mask())
	binary.BigEndian.PutUint16(tfrm.buf[12:14], v)
}

// SetFlag sets or clears the flag bits in f leaving all other bits untouched.
func (tfrm Frame) SetFlag(f Flags, on bool) {
	flags := tfrm.Flags()
	if on {
		flags |= f
	} else {
		flags &^= f
	}
	tfrm.SetFlags(flags)
}

// WindowSize returns the receive window field.
func (tfrm Frame) WindowSize() uint16 { return binary.BigEndian.Uint16(tfrm.buf[14:16]) }

// SetWindowSize sets the receive window field. See [Frame.WindowSize].
func (tfrm Frame) SetWindowSize(v uint16) {
	binary.BigEndian.PutUint16(tfrm.buf[14:16], v)
}

// CRC returns the checksum field in the TCP header.
func (tfrm Frame) CRC() uint16 {
	return binary.BigEndian.Uint16(tfrm.buf[16:18])
}

// SetCRC sets the checksum field of the TCP header. See [Frame.CRC].
func (tfrm Frame) SetCRC(checksum uint16) {
	binary.BigEndian.PutUint16(tfrm.buf[16:18], checksum)
}

func (tfrm Frame) UrgentPtr() uint16      { return binary.BigEndian.Uint16(tfrm.buf[18:20]) }
func (tfrm Frame) SetUrgentPtr(up uint16) { binary.BigEndian.PutUint16(tfrm.buf[18:20], up) }

// Options returns the TCP option buffer portion of the frame. The returned slice may be zero length.
// Use [OptionCodec] to walk the options.
func (tfrm Frame) Options() []byte {
	return tfrm.buf[sizeHeaderTCP:]
}

// ClearHeader zeros out the fixed(non-variable) header contents.
func (tfrm Frame) ClearHeader() {
	clear(tfrm.buf[:sizeHeaderTCP])
}

// CalculateChecksum returns the TCP checksum over the pseudo header, the TCP
// header and payload. The stored checksum field is left out of the sum so it
// need not be zeroed beforehand. An odd length payload is padded with a zero octet.
// [pktview.ErrValueTooLarge] is returned if the segment length does not fit the 16 bit pseudo header field.
func (tfrm Frame) CalculateChecksum(ph PseudoHeader, payload []byte) (uint16, error) {
	tcpLen := len(tfrm.buf) + len(payload)
	if tcpLen > math.MaxUint16 {
		return 0, pktview.ErrValueTooLarge
	}
	var crc pktview.CRC791
	crc.Add4(ph.Source)
	crc.Add4(ph.Destination)
	crc.AddUint16(uint16(pktview.IPProtoTCP))
	crc.AddUint16(uint16(tcpLen))
	crc.WriteEven(tfrm.buf[0:16])
	crc.WriteEven(tfrm.buf[18:])
	return crc.PayloadSum16(payload), nil
}

// UpdateChecksum calculates the checksum with [Frame.CalculateChecksum] and stores it in the frame.
// The frame is not modified on error.
func (tfrm Frame) UpdateChecksum(ph PseudoHeader, payload []byte) error {
	crc, err := tfrm.CalculateChecksum(ph, payload)
	if err != nil {
		return err
	}
	tfrm.SetCRC(crc)
	return nil
}

// SetSourcePortUpdateCRC writes the source port and patches the checksum in constant time.
// The result equals [Frame.UpdateChecksum] if the stored checksum was correct beforehand.
func (tfrm Frame) SetSourcePortUpdateCRC(port uint16) {
	old := tfrm.SourcePort()
	tfrm.SetSourcePort(port)
	tfrm.SetCRC(pktview.UpdateChecksum16(tfrm.CRC(), old, port))
}

// SetDestinationPortUpdateCRC is [Frame.SetSourcePortUpdateCRC] for the destination port.
func (tfrm Frame) SetDestinationPortUpdateCRC(port uint16) {
	old := tfrm.DestinationPort()
	tfrm.SetDestinationPort(port)
	tfrm.SetCRC(pktview.UpdateChecksum16(tfrm.CRC(), old, port))
}

// UpdateCRCForAddr patches the checksum after one pseudo header address
// changed from old to new, as happens when a NAT rewrites the IPv4 header.
func (tfrm Frame) UpdateCRCForAddr(old, new [4]byte) {
	o := binary.BigEndian.Uint32(old[:])
	n := binary.BigEndian.Uint32(new[:])
	tfrm.SetCRC(pktview.UpdateChecksum32(tfrm.CRC(), o, n))
}

func (tfrm Frame) String() string {
	b := make([]byte, 0, 64)
	b = append(b, "TCP :"...)
	b = strconv.AppendUint(b, uint64(tfrm.SourcePort()), 10)
	b = append(b, " -> :"...)
	b = strconv.AppendUint(b, uint64(tfrm.DestinationPort()), 10)
	b = append(b, " ["...)
	b = tfrm.Flags().AppendFormat(b)
	b = append(b, "] SEQ="...)
	b = strconv.AppendUint(b, uint64(tfrm.Seq()), 10)
	b = append(b, " ACK="...)
	b = strconv.AppendUint(b, uint64(tfrm.Ack()), 10)
	b = append(b, " WND="...)
	b = strconv.AppendUint(b, uint64(tfrm.WindowSize()), 10)
	return string(b)
}

// LogValue implements [slog.LogValuer].
func (tfrm Frame) LogValue() slog.Value {
	return slog.GroupValue(
		internal.SlogPorts("port", tfrm.SourcePort(), tfrm.DestinationPort()),
		slog.Uint64("seq", uint64(tfrm.Seq())),
		slog.Uint64("ack", uint64(tfrm.Ack())),
		slog.Uint64("flags", uint64(tfrm.Flags())),
		slog.Int("hlen", len(tfrm.buf)),
	)
}

//
// Validation API
//

// ValidateSize checks the data offset field against the measured header length.
func (tfrm Frame) ValidateSize(v *pktview.Validator) {
	if int(tfrm.DataOffset())*4 != len(tfrm.buf) {
		v.AddBitPosErr(12*8, 4, pktview.ErrInvalidLengthField)
	}
}

// ValidateExceptCRC checks for invalid frame values but does not check the checksum.
func (tfrm Frame) ValidateExceptCRC(v *pktview.Validator) {
	tfrm.ValidateSize(v)
	if tfrm.DestinationPort() == 0 {
		v.AddBitPosErr(2*8, 16, pktview.ErrZeroDestination)
	}
	if tfrm.SourcePort() == 0 {
		v.AddBitPosErr(0, 16, pktview.ErrZeroSource)
	}
}
