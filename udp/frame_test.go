package udp

import (
	"math/rand"
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/soypat/pktview"
)

func TestNewFrame(t *testing.T) {
	for n := 0; n < 8; n++ {
		if _, _, err := NewFrame(make([]byte, n)); err != pktview.ErrInvalidLength {
			t.Errorf("len=%d: want ErrInvalidLength, got %v", n, err)
		}
	}
	buf := make([]byte, 20)
	ufrm, rest, err := NewFrame(buf)
	if err != nil {
		t.Fatal(err)
	}
	if ufrm.HeaderLength() != 8 || len(rest) != 12 || cap(ufrm.RawData()) != 8 {
		t.Errorf("bad split: header %d cap %d, rest %d", ufrm.HeaderLength(), cap(ufrm.RawData()), len(rest))
	}
}

func TestFrameSetGet(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	buf := make([]byte, 9)
	ufrm, rest, _ := NewFrame(buf)
	for i := 0; i < 64; i++ {
		rest[0] = 0xaa
		src, dst, l, crc := uint16(rng.Uint32()), uint16(rng.Uint32()), uint16(rng.Uint32()), uint16(rng.Uint32())
		ufrm.SetSourcePort(src)
		ufrm.SetDestinationPort(dst)
		ufrm.SetLength(l)
		ufrm.SetCRC(crc)
		if ufrm.SourcePort() != src || ufrm.DestinationPort() != dst || ufrm.Length() != l || ufrm.CRC() != crc {
			t.Fatalf("round trip failed: %s crc=%#x", ufrm.String(), ufrm.CRC())
		}
		if rest[0] != 0xaa {
			t.Fatal("setter wrote into payload")
		}
	}
	ufrm.ClearCRC()
	if ufrm.CRC() != 0 {
		t.Error("ClearCRC did not zero checksum")
	}
	for _, tc := range []struct {
		length  uint16
		wantErr bool
	}{{0, true}, {7, true}, {8, false}, {0xffff, false}} {
		var v pktview.Validator
		ufrm.SetLength(tc.length)
		ufrm.ValidateSize(&v)
		if v.HasError() != tc.wantErr {
			t.Errorf("length %d: want error %v, got %v", tc.length, tc.wantErr, v.Err())
		}
	}
}

func TestFrameAgainstGopacket(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	opts := gopacket.SerializeOptions{ComputeChecksums: true, FixLengths: true}
	for i := 0; i < 32; i++ {
		ip := &layers.IPv4{Version: 4, TTL: 64, Protocol: layers.IPProtocolUDP,
			SrcIP: net.IPv4(10, 0, 0, byte(i)), DstIP: net.IPv4(10, 0, 1, 1)}
		udpl := &layers.UDP{SrcPort: layers.UDPPort(rng.Uint32()), DstPort: layers.UDPPort(rng.Uint32())}
		if err := udpl.SetNetworkLayerForChecksum(ip); err != nil {
			t.Fatal(err)
		}
		payload := make([]byte, rng.Intn(40))
		sb := gopacket.NewSerializeBuffer()
		if err := gopacket.SerializeLayers(sb, opts, ip, udpl, gopacket.Payload(payload)); err != nil {
			t.Fatal(err)
		}
		ufrm, rest, err := NewFrame(sb.Bytes()[20:])
		if err != nil {
			t.Fatal(err)
		}
		if ufrm.SourcePort() != uint16(udpl.SrcPort) || ufrm.DestinationPort() != uint16(udpl.DstPort) {
			t.Errorf("port mismatch %s", ufrm)
		}
		if int(ufrm.Length()) != 8+len(payload) || len(rest) != len(payload) {
			t.Errorf("length mismatch %d, payload %d", ufrm.Length(), len(payload))
		}
		if ufrm.CRC() != udpl.Checksum {
			t.Errorf("checksum field %#x != %#x", ufrm.CRC(), udpl.Checksum)
		}
	}
}
