// Package schema provides structural validation for plugmsg envelopes.
//
// The Registry holds one JSON Schema per message type, each composed as the
// shared base envelope definition AND the type-specific constraints. The
// Validator compiles those schemas once and checks envelopes against the
// base schema first, then against their declared type's schema.
//
// Basic usage:
//
//	v, err := schema.Default()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := v.Validate(envelope); err != nil {
//	    log.Printf("rejected: %v", err)
//	}
//
// The default validator is built at most once and is safe for concurrent
// use without locking afterward.
package schema
