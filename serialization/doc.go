// Package serialization translates between in-memory payload values and the
// transportable representation carried in an envelope's content section.
//
// Payloads live in content.data, tagged by content.metadata.mime_type. The
// CodecRegistry maps each format identifier to a ContentCodec; adding a new
// payload format is a registration, not a code change at call sites.
//
// Built-in formats: application/cbor (the default native-object format),
// application/x-yaml, application/json, application/msgpack, and the two
// passthrough formats application/octet-stream and text/plain.
package serialization
