package pktview

//go:generate stringer -type=IPProto -trimprefix=IPProto -output stringers.go .

// IPProto represents the IP protocol number carried in the IPv4 Protocol field.
// Values outside the catalog below are legal on the wire and are kept as-is.
type IPProto uint8

// IP protocol numbers.
const (
	IPProtoHopByHop         IPProto = 0   // IPv6 Hop-by-Hop Option [RFC8200]
	IPProtoICMP             IPProto = 1   // Internet Control Message [RFC792]
	IPProtoIGMP             IPProto = 2   // Internet Group Management [RFC1112]
	IPProtoGGP              IPProto = 3   // Gateway-to-Gateway [RFC823]
	IPProtoIPv4             IPProto = 4   // IPv4 encapsulation [RFC2003]
	IPProtoST               IPProto = 5   // Stream [RFC1190, RFC1819]
	IPProtoTCP              IPProto = 6   // Transmission Control [RFC793]
	IPProtoCBT              IPProto = 7   // CBT [Ballardie]
	IPProtoEGP              IPProto = 8   // Exterior Gateway Protocol [RFC888]
	IPProtoIGP              IPProto = 9   // any private interior gateway (used by Cisco for their IGRP)
	IPProtoBBNRCCMON        IPProto = 10  // BBN RCC Monitoring
	IPProtoNVP              IPProto = 11  // Network Voice Protocol [RFC741]
	IPProtoPUP              IPProto = 12  // PUP
	IPProtoARGUS            IPProto = 13  // ARGUS
	IPProtoEMCON            IPProto = 14  // EMCON
	IPProtoXNET             IPProto = 15  // Cross Net Debugger
	IPProtoCHAOS            IPProto = 16  // Chaos
	IPProtoUDP              IPProto = 17  // User Datagram [RFC768]
	IPProtoMUX              IPProto = 18  // Multiplexing
	IPProtoDCNMEAS          IPProto = 19  // DCN Measurement Subsystems
	IPProtoHMP              IPProto = 20  // Host Monitoring [RFC869]
	IPProtoPRM              IPProto = 21  // Packet Radio Measurement
	IPProtoXNSIDP           IPProto = 22  // XEROX NS IDP
	IPProtoTRUNK1           IPProto = 23  // Trunk-1
	IPProtoTRUNK2           IPProto = 24  // Trunk-2
	IPProtoLEAF1            IPProto = 25  // Leaf-1
	IPProtoLEAF2            IPProto = 26  // Leaf-2
	IPProtoRDP              IPProto = 27  // Reliable Data Protocol [RFC908]
	IPProtoIRTP             IPProto = 28  // Internet Reliable Transaction [RFC938]
	IPProtoISO_TP4          IPProto = 29  // ISO Transport Protocol Class 4 [RFC905]
	IPProtoNETBLT           IPProto = 30  // Bulk Data Transfer Protocol [RFC998]
	IPProtoMFE_NSP          IPProto = 31  // MFE Network Services Protocol
	IPProtoMERIT_INP        IPProto = 32  // MERIT Internodal Protocol
	IPProtoDCCP             IPProto = 33  // Datagram Congestion Control Protocol [RFC4340]
	IPProto3PC              IPProto = 34  // Third Party Connect Protocol
	IPProtoIDPR             IPProto = 35  // Inter-Domain Policy Routing Protocol
	IPProtoXTP              IPProto = 36  // XTP
	IPProtoDDP              IPProto = 37  // Datagram Delivery Protocol
	IPProtoIDPRCMTP         IPProto = 38  // IDPR Control Message Transport Proto
	IPProtoTPPLUSPLUS       IPProto = 39  // TP++ Transport Protocol
	IPProtoIL               IPProto = 40  // IL Transport Protocol
	IPProtoIPv6             IPProto = 41  // IPv6 encapsulation [RFC2473]
	IPProtoSDRP             IPProto = 42  // Source Demand Routing Protocol
	IPProtoIPv6Route        IPProto = 43  // Routing Header for IPv6 [RFC8200]
	IPProtoIPv6Frag         IPProto = 44  // Fragment Header for IPv6 [RFC8200]
	IPProtoIDRP             IPProto = 45  // Inter-Domain Routing Protocol
	IPProtoRSVP             IPProto = 46  // Reservation Protocol [RFC2205]
	IPProtoGRE              IPProto = 47  // Generic Routing Encapsulation [RFC2784]
	IPProtoDSR              IPProto = 48  // Dynamic Source Routing Protocol
	IPProtoBNA              IPProto = 49  // BNA
	IPProtoESP              IPProto = 50  // Encap Security Payload [RFC4303]
	IPProtoAH               IPProto = 51  // Authentication Header [RFC4302]
	IPProtoINLSP            IPProto = 52  // Integrated Net Layer Security TUBA
	IPProtoSWIPE            IPProto = 53  // IP with Encryption
	IPProtoNARP             IPProto = 54  // NBMA Address Resolution Protocol
	IPProtoMOBILE           IPProto = 55  // IP Mobility
	IPProtoTLSP             IPProto = 56  // Transport Layer Security Protocol using Kryptonet key management
	IPProtoSKIP             IPProto = 57  // SKIP
	IPProtoIPv6ICMP         IPProto = 58  // ICMP for IPv6 [RFC8200]
	IPProtoIPv6NoNxt        IPProto = 59  // No Next Header for IPv6 [RFC8200]
	IPProtoIPv6Opts         IPProto = 60  // Destination Options for IPv6 [RFC8200]
	IPProtoAnyHostInternal  IPProto = 61  // any host internal protocol
	IPProtoCFTP             IPProto = 62  // CFTP
	IPProtoAnyLocalNetwork  IPProto = 63  // any local network
	IPProtoSATEXPAK         IPProto = 64  // SATNET and Backroom EXPAK
	IPProtoKRYPTOLAN        IPProto = 65  // Kryptolan
	IPProtoRVD              IPProto = 66  // MIT Remote Virtual Disk Protocol
	IPProtoIPPC             IPProto = 67  // Internet Pluribus Packet Core
	IPProtoAnyDistributedFS IPProto = 68  // any distributed file system
	IPProtoSATMON           IPProto = 69  // SATNET Monitoring
	IPProtoVISA             IPProto = 70  // VISA Protocol
	IPProtoIPCV             IPProto = 71  // Internet Packet Core Utility
	IPProtoCPNX             IPProto = 72  // Computer Protocol Network Executive
	IPProtoCPHB             IPProto = 73  // Computer Protocol Heart Beat
	IPProtoWSN              IPProto = 74  // Wang Span Network
	IPProtoPVP              IPProto = 75  // Packet Video Protocol
	IPProtoBRSATMON         IPProto = 76  // Backroom SATNET Monitoring
	IPProtoSUNND            IPProto = 77  // SUN ND PROTOCOL-Temporary
	IPProtoWBMON            IPProto = 78  // WIDEBAND Monitoring
	IPProtoWBEXPAK          IPProto = 79  // WIDEBAND EXPAK
	IPProtoISOIP            IPProto = 80  // ISO Internet Protocol
	IPProtoVMTP             IPProto = 81  // VMTP
	IPProtoSECUREVMTP       IPProto = 82  // SECURE-VMTP
	IPProtoVINES            IPProto = 83  // VINES
	IPProtoTTP              IPProto = 84  // TTP
	IPProtoNSFNETIGP        IPProto = 85  // NSFNET-IGP
	IPProtoDGP              IPProto = 86  // Dissimilar Gateway Protocol
	IPProtoTCF              IPProto = 87  // TCF
	IPProtoEIGRP            IPProto = 88  // EIGRP
	IPProtoOSPFIGP          IPProto = 89  // OSPFIGP
	IPProtoSpriteRPC        IPProto = 90  // Sprite RPC Protocol
	IPProtoLARP             IPProto = 91  // Locus Address Resolution Protocol
	IPProtoMTP              IPProto = 92  // Multicast Transport Protocol
	IPProtoAX25             IPProto = 93  // AX.25 Frames
	IPProtoIPIP             IPProto = 94  // IP-within-IP Encapsulation Protocol
	IPProtoMICP             IPProto = 95  // Mobile Internetworking Control Pro.
	IPProtoSCCSP            IPProto = 96  // Semaphore Communications Sec. Pro.
	IPProtoETHERIP          IPProto = 97  // Ethernet-within-IP Encapsulation
	IPProtoENCAP            IPProto = 98  // Encapsulation Header
	IPProtoGMTP             IPProto = 100 // GMTP
	IPProtoIFMP             IPProto = 101 // Ipsilon Flow Management Protocol
	IPProtoPNNI             IPProto = 102 // PNNI over IP
	IPProtoPIM              IPProto = 103 // Protocol Independent Multicast
	IPProtoARIS             IPProto = 104 // ARIS
	IPProtoSCPS             IPProto = 105 // SCPS
	IPProtoQNX              IPProto = 106 // QNX
	IPProtoAN               IPProto = 107 // Active Networks
	IPProtoIPComp           IPProto = 108 // IP Payload Compression Protocol
	IPProtoSNP              IPProto = 109 // Sitara Networks Protocol
	IPProtoCompaqPeer       IPProto = 110 // Compaq Peer Protocol
	IPProtoIPXInIP          IPProto = 111 // IPX in IP
	IPProtoVRRP             IPProto = 112 // Virtual Router Redundancy Protocol
	IPProtoPGM              IPProto = 113 // PGM Reliable Transport Protocol
	IPProtoAnyZeroHop       IPProto = 114 // any 0-hop protocol
	IPProtoL2TP             IPProto = 115 // Layer Two Tunneling Protocol v3
	IPProtoDDX              IPProto = 116 // D-II Data Exchange (DDX)
	IPProtoIATP             IPProto = 117 // Interactive Agent Transfer Protocol
	IPProtoSTP              IPProto = 118 // Schedule Transfer Protocol
	IPProtoSRP              IPProto = 119 // SpectraLink Radio Protocol
	IPProtoUTI              IPProto = 120 // UTI
	IPProtoSMP              IPProto = 121 // Simple Message Protocol
	IPProtoSM               IPProto = 122 // SM
	IPProtoPTP              IPProto = 123 // Performance Transparency Protocol
	IPProtoISIS             IPProto = 124 // ISIS over IPv4
	IPProtoFIRE             IPProto = 125 // FIRE
	IPProtoCRTP             IPProto = 126 // Combat Radio Transport Protocol
	IPProtoCRUDP            IPProto = 127 // Combat Radio User Datagram
	IPProtoSSCOPMCE         IPProto = 128 // SSCOPMCE
	IPProtoIPLT             IPProto = 129 // IPLT
	IPProtoSPS              IPProto = 130 // Secure Packet Shield
	IPProtoPIPE             IPProto = 131 // Private IP Encapsulation within IP
	IPProtoSCTP             IPProto = 132 // Stream Control Transmission Protocol
	IPProtoFC               IPProto = 133 // Fibre Channel
	IPProtoRSVP_E2E_IGNORE  IPProto = 134 // RSVP-E2E-IGNORE
	IPProtoMobilityHeader   IPProto = 135 // Mobility Header
	IPProtoUDPLite          IPProto = 136 // UDPLite
	IPProtoMPLSInIP         IPProto = 137 // MPLS-in-IP
	IPProtoMANET            IPProto = 138 // MANET Protocols
	IPProtoHIP              IPProto = 139 // Host Identity Protocol
	IPProtoShim6            IPProto = 140 // Shim6 Protocol
	IPProtoWESP             IPProto = 141 // Wrapped Encapsulating Security Payload
	IPProtoROHC             IPProto = 142 // Robust Header Compression
	IPProtoEthernet         IPProto = 143 // Ethernet
	IPProtoAGGFRAG          IPProto = 144 // AGGFRAG Encapsulation payload for ESP
	IPProtoNSH              IPProto = 145 // Network Service Header
	IPProtoExperimental0    IPProto = 253 // experimentation and testing [RFC3692]
	IPProtoExperimental1    IPProto = 254 // experimentation and testing [RFC3692]
)

// IsDefined reports whether the protocol number is part of the catalog above.
func (p IPProto) IsDefined() bool {
	return p <= IPProtoENCAP || (p >= IPProtoGMTP && p <= IPProtoNSH) || p == IPProtoExperimental0 || p == IPProtoExperimental1
}
