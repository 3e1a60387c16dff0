package pktview

import (
	"encoding/binary"
)

// CRC791 function as defined by RFC 791. The Checksum field for TCP+IP
// is the 16-bit ones' complement of the ones' complement sum of
// all 16-bit words in the header. In case of uneven number of octet the
// last word is LSB padded with zeros.
//
// Carries are kept in a 64 bit sum and only folded by [CRC791.Sum16], so
// values may be added in any order and in any grouping.
//
// The zero value of CRC791 is ready to use.
type CRC791 struct {
	sum uint64
}

func checksumWriteEven(sum uint64, buff []byte) uint64 {
	for i := 0; i+1 < len(buff); i += 2 {
		sum += uint64(binary.BigEndian.Uint16(buff[i:]))
	}
	return sum
}

// WriteEven adds the bytes in buff to the running checksum. A trailing odd byte is ignored.
func (c *CRC791) WriteEven(buff []byte) {
	c.sum = checksumWriteEven(c.sum, buff)
}

// Write adds the bytes in buff to the running checksum. An odd length buffer
// is padded with a zero byte per RFC 1071, so Write(p) and Write(append(p, 0))
// are equivalent for odd length p.
func (c *CRC791) Write(buff []byte) {
	odd := len(buff) & 1
	c.sum = checksumWriteEven(c.sum, buff[:len(buff)-odd])
	if odd > 0 {
		c.sum += uint64(buff[len(buff)-1]) << 8
	}
}

// AddUint32 adds a 32 bit value to the running checksum interpreted as BigEndian (network order).
func (c *CRC791) AddUint32(value uint32) {
	c.AddUint16(uint16(value >> 16))
	c.AddUint16(uint16(value))
}

// AddUint16 adds a 16 bit value to the running checksum interpreted as BigEndian (network order).
func (c *CRC791) AddUint16(value uint16) {
	c.sum += uint64(value)
}

// Add2 adds a 2 byte chunk to the running checksum.
func (c *CRC791) Add2(b [2]byte) { c.AddUint16(binary.BigEndian.Uint16(b[:])) }

// Add4 adds a 4 byte chunk, such as an IPv4 address, to the running checksum.
func (c *CRC791) Add4(b [4]byte) { c.AddUint32(binary.BigEndian.Uint32(b[:])) }

// Sum16 calculates the checksum with the data written to c thus far.
func (c *CRC791) Sum16() uint16 {
	return FoldChecksum(c.sum)
}

// PayloadSum16 returns the checksum resulting by adding the bytes in buff to the running checksum.
// The receiver is not modified.
func (c *CRC791) PayloadSum16(buff []byte) uint16 {
	cp := *c
	cp.Write(buff)
	return cp.Sum16()
}

// Reset zeros out the CRC791, resetting it to the initial state.
func (c *CRC791) Reset() { *c = CRC791{} }

// FoldChecksum folds the carries of a ones' complement sum into 16 bits and
// returns the complement. The fold runs a fixed number of rounds, enough for any 64 bit sum.
func FoldChecksum(sum uint64) uint16 {
	sum = (sum & 0xffff_ffff) + sum>>32
	sum = (sum & 0xffff_ffff) + sum>>32
	sum = (sum & 0xffff) + sum>>16
	sum = (sum & 0xffff) + sum>>16
	return ^uint16(sum)
}

// ChecksumDiff16 returns seed plus the ones' complement difference of replacing
// old with new. It is the partial sum an eBPF program would get from bpf_csum_diff.
// Pass the result to [FoldChecksum].
func ChecksumDiff16(old, new uint16, seed uint32) uint64 {
	return uint64(seed) + uint64(^old) + uint64(new)
}

// ChecksumDiff32 is [ChecksumDiff16] for a 32 bit field such as an IPv4 address.
func ChecksumDiff32(old, new uint32, seed uint32) uint64 {
	return uint64(seed) +
		uint64(^uint16(old>>16)) + uint64(^uint16(old)) +
		uint64(new>>16) + uint64(uint16(new))
}

// UpdateChecksum16 returns the checksum csum after a 16 bit word of the summed
// data changes from old to new, as per RFC 1624 eqn. 3: HC' = ~(~HC + ~m + m').
// The result is identical to recomputing the checksum over the modified data
// unless the modified data is all zeros, where the two zero representations
// differ. IPv4 headers and TCP pseudo headers are never all zeros.
func UpdateChecksum16(csum, old, new uint16) uint16 {
	return FoldChecksum(ChecksumDiff16(old, new, uint32(^csum)))
}

// UpdateChecksum32 is [UpdateChecksum16] for a 32 bit word aligned field.
func UpdateChecksum32(csum uint16, old, new uint32) uint16 {
	return FoldChecksum(ChecksumDiff32(old, new, uint32(^csum)))
}

// NeverZeroChecksum ensures that the given checksum is not zero, by returning 0xffff instead.
func NeverZeroChecksum(sum16 uint16) uint16 {
	// 0x0000 and 0xffff are the same number in ones' complement math
	if sum16 == 0 {
		return 0xffff
	}
	return sum16
}
