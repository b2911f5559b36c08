// Package contracts provides the core value types of the plugmsg protocol.
//
// This package defines the envelope shape exchanged between plugins:
//   - Header: message identity, routing and type information
//   - Envelope: header + optional parent header + metadata + content
//   - Content: the type-specific payload section of an envelope
//   - ErrorInfo: structured remote error description
//
// All values are treated as immutable once constructed. A reply's header is
// derived from its request's header (source/target swapped, session reused)
// and the request's full header becomes the reply's parent header.
package contracts
