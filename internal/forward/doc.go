// Package forward implements the remote-call side of request routing: when a
// node receives a request for a key it does not own, it replays the request
// against the owning peer through this package's Client.
//
// # Protocol
//
// There is no separate internal RPC protocol. A forwarded call is an ordinary
// HTTP request against the owner's public interface — GET /{key},
// POST / with the original JSON body, DELETE /{key} — so the owner cannot
// tell a forwarded request from a direct client request, and the whole
// cluster speaks exactly one protocol.
//
// # Failure policy
//
// Each call gets a fixed budget of attempts with a short per-attempt timeout
// and a fixed delay between attempts. Transport failures and 5xx responses
// are transient and consume the budget; any 2xx or 4xx is a definitive answer
// from the owner and is returned immediately. When the budget runs out the
// call fails with ErrRetriesExhausted, and the caller decides what that means
// per verb: the server masks exhausted reads as "not found" but surfaces
// exhausted writes and deletes as a gateway error.
package forward
