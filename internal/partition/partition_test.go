package partition

import (
	"fmt"
	"testing"
)

// TestOwnerDeterministic verifies that repeated calls with the same inputs
// always return the same index.
func TestOwnerDeterministic(t *testing.T) {
	keys := []string{"", "a", "user:123", "some/long/path-style_key", "日本語"}

	for _, key := range keys {
		first := Owner(key, 5)
		for i := 0; i < 100; i++ {
			if got := Owner(key, 5); got != first {
				t.Fatalf("Owner(%q, 5) not deterministic: got %d then %d", key, first, got)
			}
		}
	}
}

// TestOwnerSinglePeer verifies that a single-element peer list owns every key.
func TestOwnerSinglePeer(t *testing.T) {
	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("key-%d", i)
		if got := Owner(key, 1); got != 0 {
			t.Fatalf("Owner(%q, 1) = %d, want 0", key, got)
		}
	}
}

// TestOwnerRange verifies that the resolved index is always valid for the
// peer count, for a spread of keys and cluster sizes.
func TestOwnerRange(t *testing.T) {
	for _, numPeers := range []int{1, 2, 3, 7, 16} {
		for i := 0; i < 1000; i++ {
			key := fmt.Sprintf("key-%d", i)
			got := Owner(key, numPeers)
			if got < 0 || got >= numPeers {
				t.Fatalf("Owner(%q, %d) = %d, out of range", key, numPeers, got)
			}
		}
	}
}

// TestOwnerDistribution verifies that with enough keys every peer owns
// something. Not a statistical test, just a guard against a resolver that
// collapses onto one index.
func TestOwnerDistribution(t *testing.T) {
	numPeers := 3
	counts := make([]int, numPeers)
	for i := 0; i < 1000; i++ {
		counts[Owner(fmt.Sprintf("key-%d", i), numPeers)]++
	}
	for idx, n := range counts {
		if n == 0 {
			t.Errorf("Peer %d owns no keys out of 1000", idx)
		}
	}
}

// TestOwnerAddr verifies address resolution against the ordered peer list.
func TestOwnerAddr(t *testing.T) {
	peers := []string{"127.0.0.1:8001", "127.0.0.1:8002", "127.0.0.1:8003"}

	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("key-%d", i)
		want := peers[Owner(key, len(peers))]
		if got := OwnerAddr(key, peers); got != want {
			t.Fatalf("OwnerAddr(%q) = %s, want %s", key, got, want)
		}
	}
}
