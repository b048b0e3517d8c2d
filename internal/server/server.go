package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"shardkv/internal/cluster"
	"shardkv/internal/forward"
	"shardkv/internal/partition"
	"shardkv/internal/storage"
)

const contentTypeJSON = "application/json; charset=utf-8"

// Server routes requests for a single node: it resolves the owner of the
// requested key and either serves from the local store or forwards to the
// owning peer. One Server instance handles all requests for the process;
// net/http runs each request on its own goroutine and the store serializes
// access internally, so Server itself holds no mutable state.
type Server struct {
	cfg   cluster.Config
	store storage.Store
	fwd   *forward.Client
	self  int // index of cfg.Self in cfg.Peers
}

// New creates a Server for the given cluster view. cfg must have passed
// Validate, which guarantees a non-empty peer list containing Self.
func New(cfg cluster.Config, store storage.Store, fwd *forward.Client) *Server {
	return &Server{
		cfg:   cfg,
		store: store,
		fwd:   fwd,
		self:  cfg.SelfIndex(),
	}
}

// Handler returns the node's HTTP surface:
//
//	POST   /        store one key-value pair (owner-routed)
//	GET    /{key}   fetch a pair (owner-routed)
//	DELETE /{key}   remove a pair (owner-routed)
//	GET    /health  process liveness, no ownership resolution
//	GET    /info    node and store summary
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/info", s.handleInfo)
	mux.HandleFunc("/", s.handleKey)
	return mux
}

// handleKey dispatches the owner-routed operations by method. Anything that
// isn't one of the three supported shapes gets 405.
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/":
		s.handleSet(w, r)
	case r.Method == http.MethodGet:
		s.handleGet(w, r)
	case r.Method == http.MethodDelete:
		s.handleDelete(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSet serves POST /. The body must decode to a JSON object holding
// exactly one key-value pair; that is a protocol rule, not a transport
// limitation, so a two-pair object is a client error even though it would be
// routable pair by pair.
func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	var pairs map[string]json.RawMessage
	if err := json.Unmarshal(body, &pairs); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if len(pairs) != 1 {
		http.Error(w, "body must contain exactly one key", http.StatusBadRequest)
		return
	}

	var key string
	var value json.RawMessage
	for k, v := range pairs {
		key, value = k, v
	}

	owner := partition.Owner(key, len(s.cfg.Peers))
	if owner == s.self {
		s.store.Set(key, value)
		s.writePair(w, key, value)
		return
	}

	// Forward the raw body; the owner validates and echoes like any
	// direct request
	ownerAddr := s.cfg.Peers[owner]
	status, respBody, err := s.fwd.Set(r.Context(), ownerAddr, body)
	if err != nil {
		log.Printf("node[%s] forward POST to %s failed: %v", s.cfg.Self, ownerAddr, err)
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}
	s.relay(w, status, respBody)
}

// handleGet serves GET /{key}. Remote outcomes other than a definitive 200 —
// remote 404, retry exhaustion, even an owner 4xx of another kind — are all
// reported as 404. That masks owner outages from readers at the cost of
// conflating "absent" with "unreachable"; writes deliberately do not get the
// same treatment.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")
	if key == "" {
		http.Error(w, "key required", http.StatusBadRequest)
		return
	}

	owner := partition.Owner(key, len(s.cfg.Peers))
	if owner == s.self {
		value, ok := s.store.Get(key)
		if !ok {
			http.Error(w, "key not found", http.StatusNotFound)
			return
		}
		s.writePair(w, key, value)
		return
	}

	ownerAddr := s.cfg.Peers[owner]
	status, respBody, err := s.fwd.Get(r.Context(), ownerAddr, key)
	if err != nil || status != http.StatusOK {
		if err != nil {
			log.Printf("node[%s] forward GET to %s failed: %v", s.cfg.Self, ownerAddr, err)
		}
		http.Error(w, "key not found", http.StatusNotFound)
		return
	}
	s.relay(w, http.StatusOK, respBody)
}

// handleDelete serves DELETE /{key}. Unlike reads, forwarding failures
// surface as 502: masking a failed delete as "removed 0" would corrupt the
// caller's view of the store.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")
	if key == "" {
		http.Error(w, "key required", http.StatusBadRequest)
		return
	}

	owner := partition.Owner(key, len(s.cfg.Peers))
	if owner == s.self {
		removed := s.store.Delete(key)
		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, strconv.Itoa(removed)); err != nil {
			log.Printf("node[%s] write response: %v", s.cfg.Self, err)
		}
		return
	}

	ownerAddr := s.cfg.Peers[owner]
	status, respBody, err := s.fwd.Delete(r.Context(), ownerAddr, key)
	if err != nil {
		log.Printf("node[%s] forward DELETE to %s failed: %v", s.cfg.Self, ownerAddr, err)
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}
	s.relay(w, status, respBody)
}

// handleHealth reports liveness of this process, not of any partition: it
// never resolves ownership and never touches the store, so it answers even
// when every peer is down.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	io.WriteString(w, "{\"status\": \"ok\"}\n")
}

// handleInfo returns a summary of this node for debugging and monitoring.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := struct {
		Node  string `json:"node"`
		Peers int    `json:"peers"`
		Keys  int    `json:"keys"`
	}{
		Node:  s.cfg.Self,
		Peers: len(s.cfg.Peers),
		Keys:  s.store.Len(),
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	_ = json.NewEncoder(w).Encode(response)
}

// writePair responds 200 with the single pair encoded as {key: value}.
func (s *Server) writePair(w http.ResponseWriter, key string, value json.RawMessage) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]json.RawMessage{key: value}); err != nil {
		log.Printf("node[%s] write response: %v", s.cfg.Self, err)
	}
}

// relay copies a definitive owner response back to the original caller
// unchanged. The owner's bodies are JSON (or the bare delete count, which the
// owner also serves with the JSON content type), so the marker is stamped
// uniformly.
func (s *Server) relay(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Printf("node[%s] write response: %v", s.cfg.Self, err)
	}
}
