// Package auth implements the admin gates.
//
// StaticGate checks a single configured credential pair and keeps the
// session in a signed cookie. HostedGate trusts access tokens issued by a
// hosted auth provider and keeps no state of its own. Both satisfy
// ports.AuthGate.
package auth
