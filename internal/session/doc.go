// Package session owns the client's single bearer-token slot.
//
// The Store persists, reads and clears the token, decodes its claims for UI
// branching, applies the expiry policy lazily on read, and broadcasts a typed
// change notification on every mutation. Claims are decoded without signature
// verification; they drive what the portal shows, never what the server allows.
package session
