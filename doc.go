// Package amf3 encodes and decodes Action Message Format version 3
// (AMF3), the compact binary serialization format Adobe defined for
// Flash Player remoting.
//
// The package exposes a dynamic value tree (Value) together with a
// Decoder and Encoder that walk AMF3's marker/flag layout and maintain
// the three reference tables AMF3 uses to deduplicate repeated
// strings, objects, and trait (class) descriptors. It does not
// implement any network transport, schema registry, or the
// externalizable/XML/ByteArray/Vector markers; Unmarshal rejects
// externalizable traits outright.
//
//	b, err := amf3.Marshal(amf3.NewObject("", amf3.Prop("a", amf3.Int(1))))
//	v, consumed, err := amf3.Unmarshal(b)
package amf3
