// Package messaging builds well-formed plugmsg envelopes and processes
// incoming ones.
//
// The Builder synthesizes headers (fresh msg_id, session reuse on replies,
// current version tag) and constructs the four protocol message types,
// enforcing the cross-field rules the structural schema cannot express.
// Every envelope it returns has already passed validation.
//
// The package also provides the JSON wire serializer for envelopes and an
// interceptor pipeline for the receive path (validate, then decode, then
// hand off to a handler).
package messaging
