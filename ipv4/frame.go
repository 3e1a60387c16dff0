package ipv4

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"net/netip"

	"github.com/soypat/pktview"
	"github.com/soypat/pktview/internal"
)

var ihlSelector = pktview.SizeSelector{
	Offset:           0,
	High:             false,
	ErrShort:         pktview.ErrInvalidSize,
	ErrWords:         pktview.ErrInvalidIHL,
	ErrShortForWords: pktview.ErrInvalidSizeForIHL,
}

// NewFrame measures the IPv4 header at the start of buf using its IHL field and
// returns a Frame over exactly the header octets, options included, along with
// the rest of buf. Errors are checked in this order:
//   - [pktview.ErrInvalidSize] if buf is shorter than 20 bytes.
//   - [pktview.ErrInvalidIHL] if IHL is below 5.
//   - [pktview.ErrInvalidVersion] if the version is not 4.
//   - [pktview.ErrInvalidSizeForIHL] if buf is shorter than 4*IHL.
func NewFrame(buf []byte) (Frame, []byte, error) {
	size, err := ihlSelector.Peek(buf)
	if err == nil || err == pktview.ErrInvalidSizeForIHL {
		if buf[0]>>4 != 4 {
			return Frame{}, nil, pktview.ErrInvalidVersion
		}
	}
	if err != nil {
		return Frame{}, nil, err
	}
	return Frame{buf: buf[:size:size]}, buf[size:], nil
}

// Frame encapsulates the raw data of an IPv4 header
// and provides methods for manipulating, validating and
// retrieving fields. See [RFC791].
//
// A Frame's length is measured from IHL when it is created and is fixed
// thereafter: setting IHL does not grow or shrink the frame.
//
// [RFC791]: https://tools.ietf.org/html/rfc791
type Frame struct {
	buf []byte
}

// RawData returns the header octets the frame was measured to hold.
func (ifrm Frame) RawData() []byte { return ifrm.buf }

// HeaderLength returns the length of the IPv4 header measured at construction. It includes IP options.
func (ifrm Frame) HeaderLength() int { return len(ifrm.buf) }

// Size returns the header size class measured at construction.
func (ifrm Frame) Size() pktview.HeaderSize { return pktview.HeaderSize(len(ifrm.buf)) }

// Version returns the version field. It is always 4 for frames returned by [NewFrame]
// unless modified with [Frame.SetVersionAndIHL].
func (ifrm Frame) Version() uint8 { return ifrm.buf[0] >> 4 }

// IHL returns the Internet Header Length field in 32 bit words.
func (ifrm Frame) IHL() uint8 { return ifrm.buf[0] & 0xf }

// VersionAndIHL returns the version and IHL fields in the IPv4 header. Version should always be 4.
func (ifrm Frame) VersionAndIHL() (version, IHL uint8) {
	v := ifrm.buf[0]
	return v >> 4, v & 0xf
}

// SetVersionAndIHL sets the version and IHL fields in the IPv4 header. Version should always be 4.
// The frame keeps the length it was measured with.
func (ifrm Frame) SetVersionAndIHL(version, IHL uint8) { ifrm.buf[0] = version<<4 | IHL&0xf }

// ToS (Type of Service) contains Differential Services Code Point (DSCP) and
// Explicit Congestion Notification (ECN) union data.
//
// DSCP originally defined as the type of service (ToS), this field specifies
// differentiated services (DiffServ) per RFC 2474. Real-time data streaming
// makes use of the DSCP field. An example is Voice over IP (VoIP), which is
// used for interactive voice services.
//
// ECN is defined in RFC 3168 and allows end-to-end notification of
// network congestion without dropping packets. ECN is an optional feature available
// when both endpoints support it and effective when also supported by the underlying network.
func (ifrm Frame) ToS() ToS {
	return ToS(ifrm.buf[1])
}

// SetToS sets ToS field. See [Frame.ToS].
func (ifrm Frame) SetToS(tos ToS) { ifrm.buf[1] = byte(tos) }

// DSCP returns the 6 bit Differentiated Services Code Point. See [Frame.ToS].
func (ifrm Frame) DSCP() uint8 { return ifrm.ToS().DS() }

// SetDSCP sets the DSCP bits leaving ECN untouched. Bits of dscp above the low 6 are discarded.
func (ifrm Frame) SetDSCP(dscp uint8) { ifrm.SetToS(ifrm.ToS().WithDS(dscp)) }

// ECN returns the 2 bit Explicit Congestion Notification field. See [Frame.ToS].
func (ifrm Frame) ECN() uint8 { return ifrm.ToS().ECN() }

// SetECN sets the ECN bits leaving DSCP untouched. Bits of ecn above the low 2 are discarded.
func (ifrm Frame) SetECN(ecn uint8) { ifrm.SetToS(ifrm.ToS().WithECN(ecn)) }

// TotalLength defines the entire packet size in bytes, including IP header and data.
// The minimum size is 20 bytes (IPv4 header without data) and the maximum is 65,535 bytes.
// The value is not checked against the buffer; see [Frame.ValidateSize].
func (ifrm Frame) TotalLength() uint16 {
	return binary.BigEndian.Uint16(ifrm.buf[2:4])
}

// SetTotalLength sets TotalLength field. See [Frame.TotalLength].
func (ifrm Frame) SetTotalLength(tl uint16) { binary.BigEndian.PutUint16(ifrm.buf[2:4], tl) }

// ID is an identification field and is primarily used for uniquely
// identifying the group of fragments of a single IP datagram.
func (ifrm Frame) ID() uint16 {
	return binary.BigEndian.Uint16(ifrm.buf[4:6])
}

// SetID sets ID field. See [Frame.ID].
func (ifrm Frame) SetID(id uint16) { binary.BigEndian.PutUint16(ifrm.buf[4:6], id) }

// Flags returns the [Flags] of the IP packet: fragmentation bits and fragment offset.
func (ifrm Frame) Flags() Flags {
	return Flags(binary.BigEndian.Uint16(ifrm.buf[6:8]))
}

// SetFlags sets the IPv4 flags field. See [Flags].
func (ifrm Frame) SetFlags(flags Flags) {
	binary.BigEndian.PutUint16(ifrm.buf[6:8], uint16(flags))
}

// DontFragment returns the DF bit. See [Flags.DontFragment].
func (ifrm Frame) DontFragment() bool { return ifrm.Flags().DontFragment() }

// SetDontFragment sets or clears the DF bit leaving other bits untouched.
func (ifrm Frame) SetDontFragment(df bool) {
	ifrm.SetFlags(ifrm.Flags().with(FlagDontFragment, df))
}

// MoreFragments returns the MF bit. See [Flags.MoreFragments].
func (ifrm Frame) MoreFragments() bool { return ifrm.Flags().MoreFragments() }

// SetMoreFragments sets or clears the MF bit leaving other bits untouched.
func (ifrm Frame) SetMoreFragments(mf bool) {
	ifrm.SetFlags(ifrm.Flags().with(FlagMoreFragments, mf))
}

// FragmentOffset returns the 13 bit fragment offset in units of 8 octets. See [Flags.FragmentOffset].
func (ifrm Frame) FragmentOffset() uint16 { return ifrm.Flags().FragmentOffset() }

// SetFragmentOffset sets the 13 bit fragment offset leaving the flag bits untouched.
// Bits of off above the low 13 are discarded.
func (ifrm Frame) SetFragmentOffset(off uint16) {
	flags := ifrm.Flags()&^FlagOffsetMask | Flags(off)&FlagOffsetMask
	ifrm.SetFlags(flags)
}

// TTL is an eight-bit time to live field limits a datagram's lifetime to prevent
// network failure in the event of a routing loop. In practice, the field
// is used as a hop count: when the datagram arrives at a router,
// the router decrements the TTL field by one.
func (ifrm Frame) TTL() uint8 { return ifrm.buf[8] }

// SetTTL sets the IP frame's TTL field. See [Frame.TTL].
func (ifrm Frame) SetTTL(ttl uint8) { ifrm.buf[8] = ttl }

// Protocol field defines the protocol used in the data portion of the IP datagram. TCP is 6, UDP is 17.
// See [pktview.IPProto].
func (ifrm Frame) Protocol() pktview.IPProto { return pktview.IPProto(ifrm.buf[9]) }

// SetProtocol sets protocol field. See [Frame.Protocol] and [pktview.IPProto].
func (ifrm Frame) SetProtocol(proto pktview.IPProto) { ifrm.buf[9] = uint8(proto) }

// CRC returns the header checksum field of the IPv4 header.
func (ifrm Frame) CRC() uint16 {
	return binary.BigEndian.Uint16(ifrm.buf[10:12])
}

// SetCRC sets the header checksum field of the IP packet. See [Frame.CRC].
func (ifrm Frame) SetCRC(cs uint16) {
	binary.BigEndian.PutUint16(ifrm.buf[10:12], cs)
}

// CalculateHeaderCRC calculates the header checksum of the frame over all
// header octets, options included, leaving out the checksum field itself.
// The stored checksum need not be zeroed beforehand.
func (ifrm Frame) CalculateHeaderCRC() uint16 {
	var crc pktview.CRC791
	crc.WriteEven(ifrm.buf[0:10])
	crc.WriteEven(ifrm.buf[12:])
	return crc.Sum16()
}

// UpdateCRC calculates the header checksum and stores it in the frame.
func (ifrm Frame) UpdateCRC() {
	ifrm.SetCRC(ifrm.CalculateHeaderCRC())
}

// SourceAddr returns pointer to the source IPv4 address in the IP header.
func (ifrm Frame) SourceAddr() *[4]byte {
	return (*[4]byte)(ifrm.buf[12:16])
}

// DestinationAddr returns pointer to the destination IPv4 address in the IP header.
func (ifrm Frame) DestinationAddr() *[4]byte {
	return (*[4]byte)(ifrm.buf[16:20])
}

// SetSourceAddrUpdateCRC writes the source address and patches the header
// checksum in constant time. The result equals [Frame.UpdateCRC] if the
// stored checksum was correct beforehand.
func (ifrm Frame) SetSourceAddrUpdateCRC(addr [4]byte) {
	ifrm.setAddrUpdateCRC(ifrm.SourceAddr(), addr)
}

// SetDestinationAddrUpdateCRC is [Frame.SetSourceAddrUpdateCRC] for the destination address.
func (ifrm Frame) SetDestinationAddrUpdateCRC(addr [4]byte) {
	ifrm.setAddrUpdateCRC(ifrm.DestinationAddr(), addr)
}

func (ifrm Frame) setAddrUpdateCRC(field *[4]byte, addr [4]byte) {
	old := binary.BigEndian.Uint32(field[:])
	new := binary.BigEndian.Uint32(addr[:])
	*field = addr
	ifrm.SetCRC(pktview.UpdateChecksum32(ifrm.CRC(), old, new))
}

// SetTTLUpdateCRC writes the TTL and patches the header checksum in constant time.
func (ifrm Frame) SetTTLUpdateCRC(ttl uint8) {
	old := binary.BigEndian.Uint16(ifrm.buf[8:10])
	ifrm.SetTTL(ttl)
	new := binary.BigEndian.Uint16(ifrm.buf[8:10])
	ifrm.SetCRC(pktview.UpdateChecksum16(ifrm.CRC(), old, new))
}

// Options returns the options portion of the IPv4 header. May be zero lengthed.
// The options are opaque to the frame.
func (ifrm Frame) Options() []byte {
	return ifrm.buf[sizeHeader:]
}

// ClearHeader zeros out the fixed(non-variable) header contents.
func (ifrm Frame) ClearHeader() {
	clear(ifrm.buf[:sizeHeader])
}

//
// Validation API.
//

// ValidateSize checks the total length field against the measured header. The
// payload is not part of the frame so total length is only checked from below.
func (ifrm Frame) ValidateSize(v *pktview.Validator) {
	tl := ifrm.TotalLength()
	if int(tl) < len(ifrm.buf) {
		v.AddBitPosErr(2*8, 16, pktview.ErrInvalidLengthField)
	}
	if int(ifrm.IHL())*4 != len(ifrm.buf) {
		v.AddBitPosErr(4, 4, pktview.ErrInvalidLengthField)
	}
}

// ValidateExceptCRC checks for invalid frame values but does not check CRC.
func (ifrm Frame) ValidateExceptCRC(v *pktview.Validator) {
	ifrm.ValidateSize(v)
	if ifrm.Version() != 4 {
		v.AddBitPosErr(0, 4, pktview.ErrInvalidField)
	}
	if v.Flags()&pktview.ValidateEvilBit != 0 && ifrm.Flags().IsEvil() {
		v.AddBitPosErr(6*8, 1, pktview.ErrPacketDrop)
	}
}

// ValidateCRC checks the stored header checksum.
func (ifrm Frame) ValidateCRC(v *pktview.Validator) {
	if ifrm.CalculateHeaderCRC() != ifrm.CRC() {
		v.AddBitPosErr(10*8, 16, pktview.ErrBadCRC)
	}
}

func (ifrm Frame) String() string {
	dst := netip.AddrFrom4(*ifrm.DestinationAddr())
	src := netip.AddrFrom4(*ifrm.SourceAddr())

	hl := ifrm.HeaderLength()
	tl := int(ifrm.TotalLength())
	ttl := ifrm.TTL()
	id := ifrm.ID()
	proto := ifrm.Protocol()
	tos := ifrm.ToS()
	return fmt.Sprintf("IP %s SRC=%s DST=%s LEN=%d HLEN=%d TTL=%d ID=%d ToS=0x%x", proto.String(), src.String(), dst.String(), tl, hl, ttl, id, uint8(tos))
}

// LogValue implements [slog.LogValuer].
func (ifrm Frame) LogValue() slog.Value {
	return slog.GroupValue(
		internal.SlogAddr4("src", ifrm.SourceAddr()),
		internal.SlogAddr4("dst", ifrm.DestinationAddr()),
		slog.Uint64("proto", uint64(ifrm.Protocol())),
		slog.Uint64("tl", uint64(ifrm.TotalLength())),
		slog.Int("hlen", len(ifrm.buf)),
		slog.Uint64("ttl", uint64(ifrm.TTL())),
	)
}
