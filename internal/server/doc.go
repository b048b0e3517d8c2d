// Package server implements the per-request routing logic of a shardkv node:
// parse the request, resolve the key's owner, then serve locally or forward
// to the owning peer.
//
// # Request lifecycle
//
// Every request moves through the same states exactly once:
//
//	Received → Parsed → OwnerResolved → {LocalServed | RemoteForwarded} → Responded
//
// Malformed input short-circuits to Responded with a client error; the
// /health and /info endpoints skip ownership resolution entirely. No path
// exits without writing a response, and no failure is fatal to the process.
//
// # HTTP surface
//
//	POST   /        body {key: value}, exactly one pair → 200 echo,
//	                400 bad body, 502 forwarding exhausted
//	GET    /{key}   → 200 {key: value}, 400 empty key,
//	                404 absent or owner unreachable
//	DELETE /{key}   → 200 removal count (1 or 0), 400 empty key,
//	                502 forwarding exhausted
//	GET    /health  → 200 {"status": "ok"}, unconditionally
//	GET    /info    → 200 node summary
//	other           → 405
//
// The same surface doubles as the inter-node forwarding protocol: a
// forwarded request is indistinguishable from a direct client request on the
// owner.
//
// # Concurrency
//
// net/http gives each request its own goroutine; there is no admission
// control or worker cap on top of that (a known resource-management gap —
// acceptable because every outbound wait is bounded by the forward client's
// budget and every store operation is O(1) under one lock).
package server
