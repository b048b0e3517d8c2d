// Package main implements a local development harness that runs a whole
// shardkv cluster inside one process: one HTTP server per peer, all sharing
// the same ordered peer list, talking to each other over loopback exactly as
// separate processes would.
//
// Example usage:
//
//	./devcluster
//	./devcluster -peers 127.0.0.1:9001,127.0.0.1:9002
//
//	curl -X POST localhost:8001/ -d '{"a": 1}'
//	curl localhost:8003/a
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"shardkv/internal/cluster"
	"shardkv/internal/forward"
	"shardkv/internal/server"
	"shardkv/internal/storage"
)

func main() {
	peersFlag := flag.String("peers",
		"127.0.0.1:8001,127.0.0.1:8002,127.0.0.1:8003",
		"comma-separated ordered peer list; one server is started per entry")
	flag.Parse()

	peers := strings.Split(*peersFlag, ",")
	for i := range peers {
		peers[i] = strings.TrimSpace(peers[i])
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	for _, self := range peers {
		cfg := cluster.Config{Peers: peers, Self: self, Listen: self}
		if err := cfg.Validate(); err != nil {
			log.Fatalf("config: %v", err)
		}

		srv := server.New(cfg, storage.NewMemoryStore(), forward.NewClient())
		httpSrv := &http.Server{
			Addr:              cfg.Listen,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			log.Printf("node[%s] listening on %s", cfg.Self, cfg.Listen)
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("devcluster: %v", err)
	}
	log.Println("devcluster stopped")
}
