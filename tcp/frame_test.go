package tcp

import (
	"encoding/binary"
	"math/rand"
	"net"
	"strings"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/soypat/pktview"
)

func TestNewFrame(t *testing.T) {
	tests := []struct {
		byte12   byte
		buflen   int
		wantSize int
		wantErr  error
	}{
		{byte12: 0x50, buflen: 20, wantSize: 20},
		{byte12: 0x51, buflen: 40, wantSize: 20}, // NS does not affect size.
		{byte12: 0x60, buflen: 24, wantSize: 24},
		{byte12: 0xf0, buflen: 60, wantSize: 60},
		{byte12: 0xf0, buflen: 59, wantErr: pktview.ErrInvalidSizeForOffset},
		{byte12: 0x60, buflen: 23, wantErr: pktview.ErrInvalidSizeForOffset},
		{byte12: 0x40, buflen: 60, wantErr: pktview.ErrInvalidDataOffset},
		{byte12: 0x0f, buflen: 60, wantErr: pktview.ErrInvalidDataOffset},
		{byte12: 0x50, buflen: 19, wantErr: pktview.ErrInvalidSize},
	}
	for i, tc := range tests {
		buf := make([]byte, tc.buflen)
		if len(buf) > 12 {
			buf[12] = tc.byte12
		}
		tfrm, rest, err := NewFrame(buf)
		if err != tc.wantErr {
			t.Errorf("case %d: want err %v, got %v", i, tc.wantErr, err)
			continue
		} else if err != nil {
			continue
		}
		if tfrm.HeaderLength() != tc.wantSize || int(tfrm.Size()) != tc.wantSize {
			t.Errorf("case %d: want size %d, got %d", i, tc.wantSize, tfrm.HeaderLength())
		}
		if len(tfrm.Options()) != tc.wantSize-20 {
			t.Errorf("case %d: want %d option octets, got %d", i, tc.wantSize-20, len(tfrm.Options()))
		}
		if len(rest) != tc.buflen-tc.wantSize {
			t.Errorf("case %d: want rest %d, got %d", i, tc.buflen-tc.wantSize, len(rest))
		}
	}
}

func TestFlagBits(t *testing.T) {
	buf := make([]byte, 20)
	buf[12] = 0x50
	tfrm, _, _ := NewFrame(buf)
	wire := []struct {
		flag Flags
		off  int
		bit  byte
	}{
		{FlagNS, 12, 0x01},
		{FlagCWR, 13, 0x80},
		{FlagECE, 13, 0x40},
		{FlagURG, 13, 0x20},
		{FlagACK, 13, 0x10},
		{FlagPSH, 13, 0x08},
		{FlagRST, 13, 0x04},
		{FlagSYN, 13, 0x02},
		{FlagFIN, 13, 0x01},
	}
	for _, w := range wire {
		tfrm.SetFlags(0)
		tfrm.SetFlag(w.flag, true)
		want12, want13 := byte(0x50), byte(0)
		if w.off == 12 {
			want12 |= w.bit
		} else {
			want13 = w.bit
		}
		if buf[12] != want12 || buf[13] != want13 {
			t.Errorf("%s: want %02x%02x, got %x", w.flag, want12, want13, buf[12:14])
		}
		if tfrm.Flags() != w.flag {
			t.Errorf("%s: read back %s", w.flag, tfrm.Flags())
		}
		if tfrm.DataOffset() != 5 {
			t.Errorf("%s: flag write changed data offset to %d", w.flag, tfrm.DataOffset())
		}
		tfrm.SetFlag(w.flag, false)
		if tfrm.Flags() != 0 {
			t.Errorf("%s: not cleared", w.flag)
		}
	}
	// Reserved bits survive SetFlags, SetOffsetAndFlags clears them.
	buf[12] = 0x5e
	tfrm.SetFlags(FlagSYN | FlagNS)
	if buf[12] != 0x5f || buf[13] != 0x02 {
		t.Errorf("SetFlags touched reserved bits: %x", buf[12:14])
	}
	tfrm.SetOffsetAndFlags(6, FlagACK)
	if buf[12] != 0x60 || buf[13] != 0x10 {
		t.Errorf("SetOffsetAndFlags: want 6010, got %x", buf[12:14])
	}
	if tfrm.HeaderLength() != 20 {
		t.Error("setting data offset resized frame")
	}
}

func TestFrameSetGet(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var buf [128]byte
	for i := 0; i < 100; i++ {
		words := uint8(5 + rng.Intn(11))
		buf[12] = words << 4
		tfrm, rest, err := NewFrame(buf[:])
		if err != nil {
			t.Fatal(err)
		}
		rest[0] = 0xaa
		wantSrc, wantDst := uint16(rng.Uint32()), uint16(rng.Uint32())
		wantSeq, wantAck := rng.Uint32(), rng.Uint32()
		wantFlags := Flags(rng.Intn(flagMask + 1))
		wantWnd, wantUrg, wantCRC := uint16(rng.Uint32()), uint16(rng.Uint32()), uint16(rng.Uint32())
		tfrm.SetSourcePort(wantSrc)
		tfrm.SetDestinationPort(wantDst)
		tfrm.SetSeq(wantSeq)
		tfrm.SetAck(wantAck)
		tfrm.SetOffsetAndFlags(words, wantFlags)
		tfrm.SetWindowSize(wantWnd)
		tfrm.SetUrgentPtr(wantUrg)
		tfrm.SetCRC(wantCRC)
		if len(tfrm.Options()) > 0 {
			rng.Read(tfrm.Options())
		}
		switch {
		case tfrm.SourcePort() != wantSrc:
			t.Errorf("source port %d != %d", tfrm.SourcePort(), wantSrc)
		case tfrm.DestinationPort() != wantDst:
			t.Errorf("destination port %d != %d", tfrm.DestinationPort(), wantDst)
		case tfrm.Seq() != wantSeq:
			t.Errorf("seq %d != %d", tfrm.Seq(), wantSeq)
		case tfrm.Ack() != wantAck:
			t.Errorf("ack %d != %d", tfrm.Ack(), wantAck)
		case tfrm.Flags() != wantFlags:
			t.Errorf("flags %s != %s", tfrm.Flags(), wantFlags)
		case tfrm.DataOffset() != words:
			t.Errorf("offset %d != %d", tfrm.DataOffset(), words)
		case tfrm.WindowSize() != wantWnd:
			t.Errorf("window %d != %d", tfrm.WindowSize(), wantWnd)
		case tfrm.UrgentPtr() != wantUrg:
			t.Errorf("urgent %d != %d", tfrm.UrgentPtr(), wantUrg)
		case tfrm.CRC() != wantCRC:
			t.Errorf("crc %d != %d", tfrm.CRC(), wantCRC)
		case rest[0] != 0xaa:
			t.Error("setter wrote into payload")
		}
		var v pktview.Validator
		tfrm.ValidateSize(&v)
		if err := v.ErrPop(); err != nil {
			t.Error(err)
		}
	}
}

// Captured SYN segments with valid checksums. Ethernet header is 14 octets, IPv4 header 20.
var synPackets = [][]byte{
	{0xc0, 0xff, 0xee, 0x00, 0xde, 0xad, 0x4e, 0x8b, 0x3a, 0xf9, 0xfb, 0x6b, 0x08, 0x00, 0x45, 0x00,
		0x00, 0x3c, 0x01, 0xbe, 0x40, 0x00, 0x40, 0x06, 0xa3, 0xaa, 0xc0, 0xa8, 0x0a, 0x01, 0xc0, 0xa8,
		0x0a, 0x02, 0xe7, 0x0a, 0x00, 0x50, 0x40, 0x60, 0xd5, 0xcc, 0x00, 0x00, 0x00, 0x00, 0xa0, 0x02,
		0xfa, 0xf0, 0x62, 0xbc, 0x00, 0x00, 0x02, 0x04, 0x05, 0xb4, 0x04, 0x02, 0x08, 0x0a, 0xbb, 0xac,
		0x9b, 0xca, 0x00, 0x00, 0x00, 0x00, 0x01, 0x03, 0x03, 0x07},
	{0xc0, 0xff, 0xee, 0x00, 0xde, 0xad, 0x4e, 0x8b, 0x3a, 0xf9, 0xfb, 0x6b, 0x08, 0x00, 0x45, 0x00,
		0x00, 0x3c, 0xfa, 0xfd, 0x40, 0x00, 0x40, 0x06, 0xaa, 0x6a, 0xc0, 0xa8, 0x0a, 0x01, 0xc0, 0xa8,
		0x0a, 0x02, 0xe7, 0x0e, 0x00, 0x50, 0x9c, 0xdc, 0xfe, 0x05, 0x00, 0x00, 0x00, 0x00, 0xa0, 0x02,
		0xfa, 0xf0, 0xde, 0x02, 0x00, 0x00, 0x02, 0x04, 0x05, 0xb4, 0x04, 0x02, 0x08, 0x0a, 0xbb, 0xac,
		0x9b, 0xca, 0x00, 0x00, 0x00, 0x00, 0x01, 0x03, 0x03, 0x07},
}

func pseudoHeaderOf(ip []byte) PseudoHeader {
	return PseudoHeader{Source: [4]byte(ip[12:16]), Destination: [4]byte(ip[16:20])}
}

func TestChecksumCaptured(t *testing.T) {
	for i, pkt := range synPackets {
		ip := pkt[14:34]
		tfrm, payload, err := NewFrame(pkt[34:])
		if err != nil {
			t.Fatal(err)
		}
		if tfrm.HeaderLength() != 40 || len(payload) != 0 {
			t.Fatalf("want 40 octet header without payload, got %d+%d", tfrm.HeaderLength(), len(payload))
		}
		if tfrm.Flags() != FlagSYN {
			t.Errorf("want SYN, got %s", tfrm.Flags())
		}
		got, err := tfrm.CalculateChecksum(pseudoHeaderOf(ip), payload)
		if err != nil {
			t.Fatal(err)
		}
		if got != tfrm.CRC() {
			t.Errorf("packet %d: want checksum %#x, got %#x", i, tfrm.CRC(), got)
		}
		var v pktview.Validator
		tfrm.ValidateExceptCRC(&v)
		if err := v.ErrPop(); err != nil {
			t.Error(err)
		}
	}
}

func TestChecksumAgainstGopacket(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	opts := gopacket.SerializeOptions{ComputeChecksums: true, FixLengths: true}
	for i := 0; i < 128; i++ {
		src := make(net.IP, 4)
		dst := make(net.IP, 4)
		rng.Read(src)
		rng.Read(dst)
		ip := &layers.IPv4{Version: 4, TTL: 64, Protocol: layers.IPProtocolTCP, SrcIP: src, DstIP: dst}
		tcpl := &layers.TCP{
			SrcPort: layers.TCPPort(rng.Uint32()),
			DstPort: layers.TCPPort(rng.Uint32()),
			Seq:     rng.Uint32(),
			Ack:     rng.Uint32(),
			ACK:     true,
			PSH:     i%2 == 0,
			NS:      i%3 == 0,
			Window:  uint16(rng.Uint32()),
		}
		if i%4 == 0 {
			tcpl.Options = []layers.TCPOption{{OptionType: layers.TCPOptionKindMSS, OptionLength: 4, OptionData: []byte{0x05, 0xb4}}}
		}
		if err := tcpl.SetNetworkLayerForChecksum(ip); err != nil {
			t.Fatal(err)
		}
		payload := make([]byte, rng.Intn(97)) // Odd and even lengths.
		rng.Read(payload)
		sb := gopacket.NewSerializeBuffer()
		if err := gopacket.SerializeLayers(sb, opts, ip, tcpl, gopacket.Payload(payload)); err != nil {
			t.Fatal(err)
		}
		raw := sb.Bytes()
		tfrm, rest, err := NewFrame(raw[20:])
		if err != nil {
			t.Fatal(err)
		}
		if len(rest) != len(payload) {
			t.Fatalf("want payload %d, got %d", len(payload), len(rest))
		}
		got, err := tfrm.CalculateChecksum(pseudoHeaderOf(raw[:20]), rest)
		if err != nil {
			t.Fatal(err)
		}
		if got != tfrm.CRC() {
			t.Errorf("ours %#x, gopacket %#x (payload %d)", got, tfrm.CRC(), len(payload))
		}
		if tfrm.Flags().HasAny(FlagNS) != tcpl.NS || tfrm.Flags().HasAny(FlagPSH) != tcpl.PSH {
			t.Errorf("flag mismatch %s", tfrm.Flags())
		}
	}
}

func TestChecksumTooLarge(t *testing.T) {
	buf := make([]byte, 20)
	buf[12] = 0x50
	tfrm, _, _ := NewFrame(buf)
	tfrm.SetCRC(0x1234)
	big := make([]byte, 65535-20+1)
	_, err := tfrm.CalculateChecksum(PseudoHeader{}, big)
	if err != pktview.ErrValueTooLarge {
		t.Errorf("want ErrValueTooLarge, got %v", err)
	}
	if err = tfrm.UpdateChecksum(PseudoHeader{}, big); err != pktview.ErrValueTooLarge || tfrm.CRC() != 0x1234 {
		t.Errorf("UpdateChecksum: want untouched frame and error, got %v crc=%#x", err, tfrm.CRC())
	}
	if _, err = tfrm.CalculateChecksum(PseudoHeader{}, big[:len(big)-1]); err != nil {
		t.Errorf("maximum segment rejected: %v", err)
	}
}

func TestIncrementalChecksum(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 256; i++ {
		words := 5 + rng.Intn(11)
		buf := make([]byte, 4*words+rng.Intn(50))
		rng.Read(buf)
		buf[12] = uint8(words) << 4
		tfrm, payload, err := NewFrame(buf)
		if err != nil {
			t.Fatal(err)
		}
		var ph PseudoHeader
		rng.Read(ph.Source[:])
		rng.Read(ph.Destination[:])
		if err := tfrm.UpdateChecksum(ph, payload); err != nil {
			t.Fatal(err)
		}
		switch i % 4 {
		case 0:
			tfrm.SetSourcePortUpdateCRC(uint16(rng.Uint32()))
		case 1:
			tfrm.SetDestinationPortUpdateCRC(uint16(rng.Uint32()))
		case 2:
			old := ph.Source
			rng.Read(ph.Source[:])
			tfrm.UpdateCRCForAddr(old, ph.Source)
		case 3:
			old := ph.Destination
			rng.Read(ph.Destination[:])
			tfrm.UpdateCRCForAddr(old, ph.Destination)
		}
		want, _ := tfrm.CalculateChecksum(ph, payload)
		if tfrm.CRC() != want {
			t.Fatalf("case %d: incremental %#x != full %#x", i%4, tfrm.CRC(), want)
		}
	}
}

func TestValidateExceptCRC(t *testing.T) {
	buf := make([]byte, 20)
	buf[12] = 0x50
	tfrm, _, _ := NewFrame(buf)
	v := pktview.NewValidator(pktview.ValidateAllowMultiErrors)
	tfrm.ValidateExceptCRC(v)
	err := v.ErrPop()
	if err == nil || !strings.Contains(err.Error(), pktview.ErrZeroSource.Error()) ||
		!strings.Contains(err.Error(), pktview.ErrZeroDestination.Error()) {
		t.Errorf("want zero port errors, got %v", err)
	}
	binary.BigEndian.PutUint32(buf[0:4], 0x1234_0050)
	tfrm.ValidateExceptCRC(v)
	if err := v.ErrPop(); err != nil {
		t.Error(err)
	}
}

func TestFrameString(t *testing.T) {
	buf := make([]byte, 20)
	tfrm, _, _ := NewFrame(append(buf[:12], 0x50, 0x12, 0, 0, 0, 0, 0, 0, 0, 0))
	tfrm.SetSourcePort(80)
	tfrm.SetDestinationPort(1234)
	got := tfrm.String()
	if !strings.HasPrefix(got, "TCP :80 -> :1234 [SYN,ACK]") {
		t.Errorf("unexpected string %q", got)
	}
	for _, tc := range []struct {
		f    Flags
		want string
	}{
		{0, "[]"},
		{FlagNS, "[NS]"},
		{FlagACK | FlagNS, "[ACK,NS]"},
		{FlagFIN | FlagPSH | FlagACK, "[FIN,PSH,ACK]"},
		{0xfe00 | FlagRST, "[RST]"},
	} {
		if s := tc.f.String(); s != tc.want {
			t.Errorf("flags %#x: got %q, want %q", uint16(tc.f), s, tc.want)
		}
	}
}
