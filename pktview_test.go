package pktview_test

import (
	"math/rand"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soypat/pktview"
	"github.com/soypat/pktview/ethernet"
	"github.com/soypat/pktview/internal/ltesto"
	"github.com/soypat/pktview/ipv4"
	"github.com/soypat/pktview/tcp"
	"github.com/soypat/pktview/udp"
)

// offsetIn returns the offset of sub's first byte within buf.
func offsetIn(buf, sub []byte) int {
	return int(uintptr(unsafe.Pointer(unsafe.SliceData(sub))) - uintptr(unsafe.Pointer(unsafe.SliceData(buf))))
}

func TestHeaderChainTCP(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	gen := ltesto.PacketGen{EnableVLAN: true}
	gen.RandomizeAddrs(rng)
	var vld pktview.Validator
	for i := 0; i < 256; i++ {
		seg := ltesto.Segment{
			Seq:     rng.Uint32(),
			Ack:     rng.Uint32(),
			Window:  uint16(rng.Intn(1024)),
			Flags:   tcp.FlagACK | tcp.FlagPSH,
			DataLen: rng.Intn(256),
		}
		pkt, lay := gen.AppendRandomIPv4TCPPacket(nil, rng, seg)

		efrm, rest, err := ethernet.NewFrame(pkt)
		require.NoError(t, err)
		ifrm, rest, err := ipv4.NewFrame(rest)
		require.NoError(t, err)
		tfrm, payload, err := tcp.NewFrame(rest)
		require.NoError(t, err)

		// Windows are contiguous, disjoint and cover the buffer with the payload.
		eth, ip, tc := efrm.RawData(), ifrm.RawData(), tfrm.RawData()
		assert.Equal(t, 0, offsetIn(pkt, eth))
		assert.Equal(t, len(eth), offsetIn(pkt, ip))
		assert.Equal(t, len(eth)+len(ip), offsetIn(pkt, tc))
		assert.Equal(t, len(eth)+len(ip)+len(tc), offsetIn(pkt, payload))
		assert.Equal(t, len(pkt), len(eth)+len(ip)+len(tc)+len(payload))
		assert.Equal(t, seg.DataLen, len(payload))
		assert.Equal(t, lay.PayloadOff, len(pkt)-len(payload))
		// Appending through a view cannot reach the next header.
		assert.Equal(t, len(eth), cap(eth))
		assert.Equal(t, len(ip), cap(ip))
		assert.Equal(t, len(tc), cap(tc))

		assert.Equal(t, ethernet.TypeIPv4, efrm.EtherType())
		assert.Equal(t, pktview.IPProtoTCP, ifrm.Protocol())
		assert.EqualValues(t, len(pkt)-len(eth), ifrm.TotalLength())
		assert.Equal(t, gen.SrcIPv4, *ifrm.SourceAddr())
		assert.Equal(t, gen.SrcPort, tfrm.SourcePort())
		assert.Equal(t, seg.Seq, tfrm.Seq())
		assert.Equal(t, seg.Ack, tfrm.Ack())
		assert.Equal(t, seg.Flags, tfrm.Flags())
		assert.Equal(t, seg.Window, tfrm.WindowSize())

		ifrm.ValidateExceptCRC(&vld)
		ifrm.ValidateCRC(&vld)
		tfrm.ValidateExceptCRC(&vld)
		require.NoError(t, vld.ErrPop())

		ph := tcp.PseudoHeader{Source: *ifrm.SourceAddr(), Destination: *ifrm.DestinationAddr()}
		crc, err := tfrm.CalculateChecksum(ph, payload)
		require.NoError(t, err)
		assert.Equal(t, tfrm.CRC(), crc, "TCP checksum")
	}
}

func TestHeaderChainUDP(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	var gen ltesto.PacketGen
	gen.RandomizeAddrs(rng)
	for i := 0; i < 32; i++ {
		dataLen := rng.Intn(128)
		pkt, _ := gen.AppendRandomIPv4UDPPacket(nil, rng, dataLen)
		_, rest, err := ethernet.NewFrame(pkt)
		require.NoError(t, err)
		ifrm, rest, err := ipv4.NewFrame(rest)
		require.NoError(t, err)
		require.Equal(t, pktview.IPProtoUDP, ifrm.Protocol())
		ufrm, payload, err := udp.NewFrame(rest)
		require.NoError(t, err)
		assert.EqualValues(t, 8+dataLen, ufrm.Length())
		assert.Len(t, payload, dataLen)
		assert.Equal(t, gen.DstPort, ufrm.DestinationPort())
	}
}

func TestHeaderChainErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var gen ltesto.PacketGen
	gen.RandomizeAddrs(rng)
	pkt, lay := gen.AppendRandomIPv4TCPPacket(nil, rng, ltesto.Segment{Flags: tcp.FlagSYN})
	// Every truncation fails at exactly the header it cuts into, without panicking.
	for n := 0; n < len(pkt); n++ {
		_, rest, err := ethernet.NewFrame(pkt[:n])
		if n < lay.EthLen {
			require.Error(t, err, "n=%d", n)
			continue
		}
		require.NoError(t, err)
		_, rest, err = ipv4.NewFrame(rest)
		if n < lay.EthLen+lay.IPLen {
			require.Error(t, err, "n=%d", n)
			continue
		}
		require.NoError(t, err)
		_, _, err = tcp.NewFrame(rest)
		if n < lay.PayloadOff {
			require.Error(t, err, "n=%d", n)
		} else {
			require.NoError(t, err)
		}
	}
}

func TestParseDoesNotAllocate(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	gen := ltesto.PacketGen{EnableVLAN: true}
	gen.RandomizeAddrs(rng)
	pkt, _ := gen.AppendRandomIPv4TCPPacket(nil, rng, ltesto.Segment{DataLen: 64})
	short := pkt[:20]
	allocs := testing.AllocsPerRun(100, func() {
		_, rest, _ := ethernet.NewFrame(pkt)
		ifrm, rest, _ := ipv4.NewFrame(rest)
		tfrm, payload, _ := tcp.NewFrame(rest)
		ph := tcp.PseudoHeader{Source: *ifrm.SourceAddr(), Destination: *ifrm.DestinationAddr()}
		tfrm.CalculateChecksum(ph, payload)
		ifrm.CalculateHeaderCRC()
		// Error paths return byte sized kinds.
		_, _, err := ipv4.NewFrame(short)
		_ = err
	})
	assert.Zero(t, allocs)
}
