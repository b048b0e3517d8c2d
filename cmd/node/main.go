// Package main implements the shardkv node binary: one symmetric peer in a
// fixed sharded key-value cluster.
//
// Every node runs the same code. At startup the node loads its cluster view
// (ordered peer list, own address, bind address), creates its in-memory
// store, and serves the HTTP interface. Requests for keys owned by another
// peer are forwarded transparently, so clients can talk to any node.
//
// Configuration (environment variables, or a YAML file via SHARDKV_CONFIG):
//   - PEERS: comma-separated ordered peer list, identical on every node
//     (required), e.g. "server1:8001,server2:8002,server3:8003"
//   - PORT: local port (default: port of the first peer)
//   - NAME: advertised host name (default: "server" + PORT)
//   - SELF: full advertised address, overriding NAME:PORT
//   - LISTEN: bind address (default: "0.0.0.0:" + PORT)
//
// Example usage:
//
//	PEERS=server1:8001,server2:8002,server3:8003 \
//	NAME=server1 PORT=8001 \
//	./node
//
//	# Store and read a pair through any node
//	curl -X POST localhost:8001/ -d '{"user:1": {"name": "Alice"}}'
//	curl localhost:8002/user:1
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shardkv/internal/cluster"
	"shardkv/internal/forward"
	"shardkv/internal/server"
	"shardkv/internal/storage"
)

// logFatal is a variable to allow mocking log.Fatalf in tests.
var logFatal = log.Fatalf

func main() {
	cfg, err := cluster.Load()
	if err != nil {
		logFatal("config: %v", err)
		return
	}

	srv := server.New(cfg, storage.NewMemoryStore(), forward.NewClient())

	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second, // Prevent slowloris attacks
	}

	go func() {
		log.Printf("node[%s] listening on %s (%d peers)", cfg.Self, cfg.Listen, len(cfg.Peers))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logFatal("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Printf("node[%s] shutdown: %v", cfg.Self, err)
	}
	log.Printf("node[%s] stopped", cfg.Self)
}
