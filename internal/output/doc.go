// Package output writes report artifacts deterministically.
//
// Struct-backed documents keep their declared field order, maps are
// emitted with sorted keys by encoding/json, and HTML escaping is off so
// prompt text survives unchanged. Files are written through a temporary
// sibling and renamed into place so a crashed run never leaves a
// half-written report behind.
package output
