package ethernet

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/soypat/pktview"
	"github.com/soypat/pktview/internal"
)

// NewFrame measures the Ethernet header at the start of buf and returns a Frame
// over exactly those bytes along with the rest of buf (the Ethernet payload).
//
// The TPID at octets 12:14 selects the header size: [TypeQinQ] selects 18,
// [TypeVLAN] selects 16 and any other value selects 14. The TPID is only read
// after buf is known to hold 14 bytes. An error is returned if buf is shorter
// than 14 bytes ([pktview.ErrWrongSize]) or shorter than the size its TPID
// selects ([pktview.ErrWrongSizeForType]). A short tagged frame is not retried
// as an untagged 14 octet header; use [NewFrameUntagged] for that.
func NewFrame(buf []byte) (Frame, []byte, error) {
	if len(buf) < int(SizeUntagged) {
		return Frame{}, nil, pktview.ErrWrongSize
	}
	size := SizeUntagged
	switch Type(binary.BigEndian.Uint16(buf[12:14])) {
	case TypeQinQ:
		size = SizeDoubleTagged
	case TypeVLAN:
		size = SizeTagged
	}
	if len(buf) < int(size) {
		return Frame{}, nil, pktview.ErrWrongSizeForType
	}
	return Frame{buf: buf[:size:size]}, buf[size:], nil
}

// NewFrameUntagged returns a 14 octet Frame without looking at the TPID, for
// callers that know the frame carries no VLAN tags. The only error returned is
// [pktview.ErrWrongSize].
func NewFrameUntagged(buf []byte) (Frame, []byte, error) {
	if len(buf) < int(SizeUntagged) {
		return Frame{}, nil, pktview.ErrWrongSize
	}
	return Frame{buf: buf[:SizeUntagged:SizeUntagged]}, buf[SizeUntagged:], nil
}

// Frame encapsulates the raw data of an Ethernet header
// without including preamble (first byte is start of destination address)
// and provides methods for manipulating and retrieving fields. See [IEEE 802.3].
//
// A Frame's length is fixed when it is created. Writing a different TPID
// afterwards does not grow or shrink it.
//
// [IEEE 802.3]: https://standards.ieee.org/ieee/802.3/7071/
type Frame struct {
	buf []byte
}

// RawData returns the header octets the frame was measured to hold.
func (efrm Frame) RawData() []byte { return efrm.buf }

// HeaderLength returns the length of the ethernet header: 14, 16 or 18.
func (efrm Frame) HeaderLength() int { return len(efrm.buf) }

// Size returns the header size class measured at construction.
func (efrm Frame) Size() HeaderSize { return HeaderSize(len(efrm.buf)) }

// DestinationHardwareAddr returns the target's MAC/hardware address for the ethernet packet.
func (efrm Frame) DestinationHardwareAddr() (dst *[6]byte) {
	return (*[6]byte)(efrm.buf[0:6])
}

// SetDestinationHardwareAddr sets the destination MAC address. See [Frame.DestinationHardwareAddr].
func (efrm Frame) SetDestinationHardwareAddr(dst [6]byte) { copy(efrm.buf[0:6], dst[:]) }

// SourceHardwareAddr returns the sender's MAC/hardware address of the ethernet packet.
func (efrm Frame) SourceHardwareAddr() (src *[6]byte) {
	return (*[6]byte)(efrm.buf[6:12])
}

// SetSourceHardwareAddr sets the source MAC address. See [Frame.SourceHardwareAddr].
func (efrm Frame) SetSourceHardwareAddr(src [6]byte) { copy(efrm.buf[6:12], src[:]) }

// IsBroadcast returns true if the destination is the broadcast address ff:ff:ff:ff:ff:ff, false otherwise.
func (efrm Frame) IsBroadcast() bool {
	return *efrm.DestinationHardwareAddr() == BroadcastAddr()
}

// TPID returns octets 12:14 of the header. For untagged frames this is the
// EtherType, for tagged frames it is the tag protocol identifier.
func (efrm Frame) TPID() Type {
	return Type(binary.BigEndian.Uint16(efrm.buf[12:14]))
}

// IsVLAN reports whether the frame was measured as tagged, that is, longer than 14 octets.
func (efrm Frame) IsVLAN() bool { return len(efrm.buf) > int(SizeUntagged) }

// Tags returns the octets between the source address and the final EtherType.
// It is empty for untagged frames.
func (efrm Frame) Tags() []byte {
	return efrm.buf[12 : len(efrm.buf)-2]
}

// EtherType returns the final EtherType/Size field of the header, read from the
// last two octets of the frame so any tags are skipped.
// Caller should check if the field is actually a valid EtherType or if it represents the Ethernet payload size with [Type.IsSize].
func (efrm Frame) EtherType() Type {
	n := len(efrm.buf)
	return Type(binary.BigEndian.Uint16(efrm.buf[n-2 : n]))
}

// SetEtherType sets the final EtherType field, the last two octets of the
// frame. Tags and the frame length are left untouched.
func (efrm Frame) SetEtherType(v Type) {
	n := len(efrm.buf)
	binary.BigEndian.PutUint16(efrm.buf[n-2:n], uint16(v))
}

// ClearHeader zeros out the header contents.
func (efrm Frame) ClearHeader() {
	clear(efrm.buf)
}

func (efrm Frame) String() string {
	var buf [64]byte
	b := append(buf[:0], "ETH "...)
	b = AppendAddr(b, *efrm.SourceHardwareAddr())
	b = append(b, " -> "...)
	b = AppendAddr(b, *efrm.DestinationHardwareAddr())
	return fmt.Sprintf("%s %s LEN=%d", b, efrm.EtherType().String(), len(efrm.buf))
}

// LogValue implements [slog.LogValuer].
func (efrm Frame) LogValue() slog.Value {
	return slog.GroupValue(
		internal.SlogAddr6("src", efrm.SourceHardwareAddr()),
		internal.SlogAddr6("dst", efrm.DestinationHardwareAddr()),
		slog.Uint64("type", uint64(efrm.EtherType())),
		slog.Int("hlen", len(efrm.buf)),
	)
}
