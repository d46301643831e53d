package amf3

// AMF3 type markers, per the AMF3 specification. Named here are the
// markers this codec supports plus XMLDocument, XML, and ByteArray,
// which it does not; every marker decodeValue has no case for is
// rejected with ErrUnsupportedMarker. XMLDocument, XML, ByteArray, the
// Vector family, and Dictionary exist on the wire but are intentionally
// unsupported here and fall through to the default case in decodeValue.
const (
	markerUndefined = 0x00
	markerNull      = 0x01
	markerFalse     = 0x02
	markerTrue      = 0x03
	markerInteger   = 0x04
	markerDouble    = 0x05
	markerString    = 0x06
	markerXMLDoc    = 0x07
	markerDate      = 0x08
	markerArray     = 0x09
	markerObject    = 0x0A
	markerXML       = 0x0B
	markerByteArray = 0x0C
)
