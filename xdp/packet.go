package xdp

import (
	"encoding/binary"

	"github.com/soypat/pktview"
	"github.com/soypat/pktview/ethernet"
	"github.com/soypat/pktview/ipv4"
	"github.com/soypat/pktview/tcp"
	"github.com/soypat/pktview/udp"
)

// Layer is a bitmask of the headers present in a [Packet].
type Layer uint8

const (
	LayerEthernet Layer = 1 << iota
	LayerIPv4
	LayerTCP
	LayerUDP
)

// Packet holds views over the headers of a single frame. Only the views
// whose [Layer] bit is set are valid. All views and Payload alias the
// buffer passed to [Decode] and do not overlap each other.
type Packet struct {
	Layers   Layer
	Ethernet ethernet.Frame
	IPv4     ipv4.Frame
	TCP      tcp.Frame
	UDP      udp.Frame
	// Payload is what follows the innermost decoded header.
	Payload []byte
}

// Has reports whether all layers in l were decoded.
func (p *Packet) Has(l Layer) bool { return p.Layers&l == l }

// Decode walks an Ethernet frame down to its transport header. Decoding stops
// without error at an EtherType other than IPv4 or an IP protocol other than
// TCP or UDP; Payload then holds the undecoded remainder. A header that fails
// to parse stops decoding and its error is returned along with the layers
// decoded so far.
func Decode(pkt []byte) (Packet, error) {
	var p Packet
	efrm, rest, err := ethernet.NewFrame(pkt)
	if err != nil {
		return p, err
	}
	p.Layers |= LayerEthernet
	p.Ethernet = efrm
	p.Payload = rest
	if efrm.EtherType() != ethernet.TypeIPv4 {
		return p, nil
	}

	ifrm, rest, err := ipv4.NewFrame(rest)
	if err != nil {
		return p, err
	}
	p.Layers |= LayerIPv4
	p.IPv4 = ifrm
	p.Payload = rest

	switch ifrm.Protocol() {
	case pktview.IPProtoTCP:
		tfrm, rest, err := tcp.NewFrame(rest)
		if err != nil {
			return p, err
		}
		p.Layers |= LayerTCP
		p.TCP = tfrm
		p.Payload = rest
	case pktview.IPProtoUDP:
		ufrm, rest, err := udp.NewFrame(rest)
		if err != nil {
			return p, err
		}
		p.Layers |= LayerUDP
		p.UDP = ufrm
		p.Payload = rest
	}
	return p, nil
}

// PseudoHeader returns the TCP pseudo header addresses of the IPv4 layer.
func (p *Packet) PseudoHeader() tcp.PseudoHeader {
	return tcp.PseudoHeader{
		Source:      *p.IPv4.SourceAddr(),
		Destination: *p.IPv4.DestinationAddr(),
	}
}

// ValidateChecksums checks the IPv4 header checksum and, for TCP, the segment
// checksum over Payload. It returns [pktview.ErrBadCRC] on mismatch.
// UDP checksums are not verified.
func (p *Packet) ValidateChecksums() error {
	if !p.Has(LayerIPv4) {
		return nil
	}
	if p.IPv4.CalculateHeaderCRC() != p.IPv4.CRC() {
		return pktview.ErrBadCRC
	}
	if !p.Has(LayerTCP) {
		return nil
	}
	crc, err := p.TCP.CalculateChecksum(p.PseudoHeader(), p.Payload)
	if err != nil {
		return err
	} else if crc != p.TCP.CRC() {
		return pktview.ErrBadCRC
	}
	return nil
}

// RewriteDestination rewrites the IPv4 destination address and, if a transport
// layer was decoded, its destination port. All checksums are patched in
// constant time. A zero UDP checksum is left zero.
func (p *Packet) RewriteDestination(addr [4]byte, port uint16) error {
	if !p.Has(LayerIPv4) {
		return pktview.ErrInvalidField
	}
	old := *p.IPv4.DestinationAddr()
	p.IPv4.SetDestinationAddrUpdateCRC(addr)
	p.patchTransport(old, addr, 2, port)
	return nil
}

// RewriteSource is [Packet.RewriteDestination] for the source address and port.
func (p *Packet) RewriteSource(addr [4]byte, port uint16) error {
	if !p.Has(LayerIPv4) {
		return pktview.ErrInvalidField
	}
	old := *p.IPv4.SourceAddr()
	p.IPv4.SetSourceAddrUpdateCRC(addr)
	p.patchTransport(old, addr, 0, port)
	return nil
}

// patchTransport updates the transport checksum for an address change and
// writes port at portOff of the transport header.
func (p *Packet) patchTransport(oldAddr, newAddr [4]byte, portOff int, port uint16) {
	switch {
	case p.Has(LayerTCP):
		p.TCP.UpdateCRCForAddr(oldAddr, newAddr)
		if portOff == 0 {
			p.TCP.SetSourcePortUpdateCRC(port)
		} else {
			p.TCP.SetDestinationPortUpdateCRC(port)
		}
	case p.Has(LayerUDP):
		raw := p.UDP.RawData()
		oldPort := binary.BigEndian.Uint16(raw[portOff:])
		binary.BigEndian.PutUint16(raw[portOff:], port)
		crc := p.UDP.CRC()
		if crc == 0 {
			return
		}
		o := binary.BigEndian.Uint32(oldAddr[:])
		n := binary.BigEndian.Uint32(newAddr[:])
		crc = pktview.UpdateChecksum32(crc, o, n)
		crc = pktview.UpdateChecksum16(crc, oldPort, port)
		p.UDP.SetCRC(pktview.NeverZeroChecksum(crc))
	}
}
