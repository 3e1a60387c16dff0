package tcp

import (
	"math/bits"
	"strings"
)

//go:generate stringer -type=OptionKind -linecomment -output stringers.go .

const (
	sizeHeaderTCP = 20
)

// Flags is a TCP flags bit-masked implementation i.e: SYN, FIN, ACK.
// The nine flag bits are laid out as they appear on the wire in octets 12:14
// of the header: NS is the low bit of octet 12, FIN through CWR are octet 13.
type Flags uint16

const (
	FlagFIN Flags = 1 << iota // FlagFIN - No more data from sender.
	FlagSYN                   // FlagSYN - Synchronize sequence numbers.
	FlagRST                   // FlagRST - Reset the connection.
	FlagPSH                   // FlagPSH - Push function.
	FlagACK                   // FlagACK - Acknowledgment field significant.
	FlagURG                   // FlagURG - Urgent pointer field significant.
	FlagECE                   // FlagECE - ECN-Echo has a nonce-sum in the SYN/ACK.
	FlagCWR                   // FlagCWR - Congestion Window Reduced.
	FlagNS                    // FlagNS  - Nonce Sum flag (see RFC 3540).
)

const flagMask = 0x01ff

var flagNames = [9]string{"FIN", "SYN", "RST", "PSH", "ACK", "URG", "ECE", "CWR", "NS"}

// HasAll checks if mask bits are all set in the receiver flags.
func (flags Flags) HasAll(mask Flags) bool { return flags&mask == mask }

// HasAny checks if one or more mask bits are set in receiver flags.
func (flags Flags) HasAny(mask Flags) bool { return flags&mask != 0 }

// Mask returns the flags with non-flag bits unset.
func (flags Flags) Mask() Flags { return flags & flagMask }

// String returns the set flags in brackets from FIN to NS, i.e: "[SYN,ACK]".
// Single flags and the empty set do not allocate.
func (flags Flags) String() string {
	flags = flags.Mask()
	switch {
	case flags == 0:
		return "[]"
	case bits.OnesCount16(uint16(flags)) == 1:
		return singleFlags[bits.TrailingZeros16(uint16(flags))]
	}
	var buf [2 + 4*len(flagNames)]byte
	b := append(buf[:0], '[')
	b = flags.AppendFormat(b)
	b = append(b, ']')
	return string(b)
}

var singleFlags = [9]string{"[FIN]", "[SYN]", "[RST]", "[PSH]", "[ACK]", "[URG]", "[ECE]", "[CWR]", "[NS]"}

// AppendFormat appends the comma separated names of the set flags to b.
// Bits outside the nine flag bits are ignored.
func (flags Flags) AppendFormat(b []byte) []byte {
	flags = flags.Mask()
	for first := true; flags != 0; first = false {
		i := bits.TrailingZeros16(uint16(flags))
		if !first {
			b = append(b, ',')
		}
		b = append(b, flagNames[i]...)
		flags &^= 1 << i
	}
	return b
}

// OptionKind is the kind octet of a TCP option. See [OptionCodec].
type OptionKind uint8

const (
	OptEnd                   OptionKind = iota // end of option list
	OptNop                                     // no-operation
	OptMaxSegmentSize                          // maximum segment size
	OptWindowScale                             // window scale
	OptSACKPermitted                           // SACK permitted
	OptSACK                                    // SACK
	OptEcho                                    // echo(obsolete)
	optEchoReply                               // echo reply(obsolete)
	OptTimestamps                              // timestamps
	optPOCP                                    // partial order connection permitted(obsolete)
	optPOSP                                    // partial order service profile(obsolete)
	optCC                                      // CC(obsolete)
	optCCnew                                   // CC.new(obsolete)
	optCCecho                                  // CC.echo(obsolete)
	optACR                                     // alternate checksum request(obsolete)
	optACD                                     // alternate checksum data(obsolete)
	optSkeeter                                 // skeeter
	optBubba                                   // bubba
	OptTrailerChecksum                         // trailer checksum
	optMD5Signature                            // MD5 signature(obsolete)
	OptSCPSCapabilities                        // SCPS capabilities
	OptSNA                                     // selective negative acks
	OptRecordBoundaries                        // record boundaries
	OptCorruptionExperienced                   // corruption experienced
	OptSNAP                                    // SNAP
	OptUnassigned                              // unassigned
	OptCompressionFilter                       // compression filter
	OptQuickStartResponse                      // quick-start response
	OptUserTimeout                             // user timeout or unauthorized use
	OptAuthetication                           // Authentication TCP-AO
	OptMultipath                               // multipath TCP
)

const (
	OptFastOpenCookie        OptionKind = 34  // fast open cookie
	OptEncryptionNegotiation OptionKind = 69  // encryption negotiation
	OptAccurateECN0          OptionKind = 172 // accurate ECN order 0
	OptAccurateECN1          OptionKind = 174 // accurate ECN order 1
)

// IsObsolete returns true if option considered obsolete by newer TCP specifications.
func (kind OptionKind) IsObsolete() bool {
	if kind.IsDefined() {
		return strings.HasSuffix(kind.String(), "(obsolete)")
	}
	return false
}

// IsDefined returns true if the option is a known unreserved option kind.
func (kind OptionKind) IsDefined() bool {
	return kind <= 30 || kind == 34 || kind == 69 || kind == 172 || kind == 174
}
