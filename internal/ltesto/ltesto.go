// Package ltesto generates well formed packets for tests.
package ltesto

import (
	"math/rand"

	"golang.org/x/crypto/cryptobyte"

	"github.com/soypat/pktview"
	"github.com/soypat/pktview/ethernet"
	"github.com/soypat/pktview/tcp"
)

// Segment holds the TCP fields of a generated packet.
type Segment struct {
	Seq, Ack uint32
	Window   uint16
	Flags    tcp.Flags
	DataLen  int
}

// PacketGen builds Ethernet/IPv4/TCP and Ethernet/IPv4/UDP frames with valid
// checksums. Optional VLAN tags and IP/TCP options are chosen at random.
type PacketGen struct {
	SrcMAC, DstMAC   [6]byte // hardware address
	SrcIPv4, DstIPv4 [4]byte // address
	SrcPort, DstPort uint16  // ports
	EnableVLAN       bool
}

func (gen *PacketGen) RandomizeAddrs(rng *rand.Rand) {
	rng.Read(gen.SrcMAC[:])
	rng.Read(gen.DstMAC[:])
	rng.Read(gen.SrcIPv4[:])
	rng.Read(gen.DstIPv4[:])
	ports := rng.Uint32()
	gen.SrcPort = uint16(ports) | 1
	gen.DstPort = uint16(ports>>16) | 1
}

// Layout describes where the headers of a generated packet start.
type Layout struct {
	EthLen     int
	IPLen      int
	TCPLen     int // zero for UDP packets
	PayloadOff int
}

// AppendRandomIPv4TCPPacket appends a frame carrying seg with a random payload
// to dst and returns the extended buffer and the header layout.
func (gen *PacketGen) AppendRandomIPv4TCPPacket(dst []byte, rng *rand.Rand, seg Segment) ([]byte, Layout) {
	if seg.DataLen > 2048 || seg.DataLen < 0 {
		panic("bad datalen")
	}
	ri := rng.Int()
	hasIPOpt := ri&(1<<2) != 0
	hasTCPOpt := ri&(1<<3) != 0
	var tcpOpts []byte
	if hasTCPOpt {
		tcpOpts = []byte{byte(tcp.OptMaxSegmentSize), 4, 0x05, 0xb4, byte(tcp.OptNop), byte(tcp.OptWindowScale), 3, 7}
	}
	payload := make([]byte, seg.DataLen)
	rng.Read(payload)

	var lay Layout
	off := len(dst)
	b := cryptobyte.NewBuilder(dst)
	lay.EthLen = gen.addEthernet(b, ri)
	ipOpts := addIPv4Start(b, hasIPOpt)
	lay.IPLen = 20 + len(ipOpts)
	lay.TCPLen = 20 + len(tcpOpts)
	tl := lay.IPLen + lay.TCPLen + len(payload)
	gen.addIPv4Rest(b, rng, ipOpts, tl, pktview.IPProtoTCP)

	b.AddUint16(gen.SrcPort)
	b.AddUint16(gen.DstPort)
	b.AddUint32(seg.Seq)
	b.AddUint32(seg.Ack)
	b.AddUint16(uint16(lay.TCPLen/4)<<12 | uint16(seg.Flags.Mask()))
	b.AddUint16(seg.Window)
	b.AddUint16(0) // checksum, filled below.
	b.AddUint16(uint16(rng.Uint32()))
	b.AddBytes(tcpOpts)
	b.AddBytes(payload)
	out := b.BytesOrPanic()
	lay.PayloadOff = lay.EthLen + lay.IPLen + lay.TCPLen

	pkt := out[off:]
	setIPv4CRC(pkt[lay.EthLen : lay.EthLen+lay.IPLen])
	var crc pktview.CRC791
	ip := pkt[lay.EthLen:]
	crc.Write(ip[12:20])
	crc.AddUint16(uint16(pktview.IPProtoTCP))
	crc.AddUint16(uint16(lay.TCPLen + len(payload)))
	seghdr := pkt[lay.EthLen+lay.IPLen:]
	sum := crc.PayloadSum16(seghdr)
	seghdr[16] = byte(sum >> 8)
	seghdr[17] = byte(sum)
	return out, lay
}

// AppendRandomIPv4UDPPacket appends a UDP frame with a random payload of dataLen
// octets. The UDP checksum is left zero.
func (gen *PacketGen) AppendRandomIPv4UDPPacket(dst []byte, rng *rand.Rand, dataLen int) ([]byte, Layout) {
	ri := rng.Int()
	payload := make([]byte, dataLen)
	rng.Read(payload)

	var lay Layout
	off := len(dst)
	b := cryptobyte.NewBuilder(dst)
	lay.EthLen = gen.addEthernet(b, ri)
	ipOpts := addIPv4Start(b, ri&(1<<2) != 0)
	lay.IPLen = 20 + len(ipOpts)
	gen.addIPv4Rest(b, rng, ipOpts, lay.IPLen+8+dataLen, pktview.IPProtoUDP)
	b.AddUint16(gen.SrcPort)
	b.AddUint16(gen.DstPort)
	b.AddUint16(uint16(8 + dataLen))
	b.AddUint16(0)
	b.AddBytes(payload)
	out := b.BytesOrPanic()
	lay.PayloadOff = lay.EthLen + lay.IPLen + 8
	pkt := out[off:]
	setIPv4CRC(pkt[lay.EthLen : lay.EthLen+lay.IPLen])
	return out, lay
}

func (gen *PacketGen) addEthernet(b *cryptobyte.Builder, ri int) int {
	b.AddBytes(gen.DstMAC[:])
	b.AddBytes(gen.SrcMAC[:])
	size := 14
	if gen.EnableVLAN {
		switch ri & 3 {
		case 1:
			b.AddUint16(uint16(ethernet.TypeVLAN))
			size = 16
		case 2:
			b.AddUint16(uint16(ethernet.TypeQinQ))
			b.AddUint16(uint16(ethernet.TypeVLAN))
			size = 18
		}
	}
	b.AddUint16(uint16(ethernet.TypeIPv4))
	return size
}

// addIPv4Start writes the version/IHL octet and returns the options to be written.
func addIPv4Start(b *cryptobyte.Builder, hasOpts bool) []byte {
	var opts []byte
	if hasOpts {
		opts = []byte{1, 1, 1, 0} // NOP, NOP, NOP, EOL.
	}
	b.AddUint8(4<<4 | uint8((20+len(opts))/4))
	return opts
}

func (gen *PacketGen) addIPv4Rest(b *cryptobyte.Builder, rng *rand.Rand, opts []byte, totalLen int, proto pktview.IPProto) {
	b.AddUint8(192) // ToS: DSCP 48 (CS6).
	b.AddUint16(uint16(totalLen))
	b.AddUint16(uint16(rng.Uint32()))
	b.AddUint16(0x4000) // Don't fragment.
	b.AddUint8(64)
	b.AddUint8(uint8(proto))
	b.AddUint16(0) // checksum, filled after building.
	b.AddBytes(gen.SrcIPv4[:])
	b.AddBytes(gen.DstIPv4[:])
	b.AddBytes(opts)
}

func setIPv4CRC(hdr []byte) {
	var crc pktview.CRC791
	crc.WriteEven(hdr[:10])
	crc.WriteEven(hdr[12:])
	sum := crc.Sum16()
	hdr[10] = byte(sum >> 8)
	hdr[11] = byte(sum)
}
