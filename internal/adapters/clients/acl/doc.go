// Package acl is the anti-corruption layer between the content service and
// the remote services it talks to. Adapters here speak the remote's wire
// format and hand back domain types and domain errors only.
package acl
