// Package nmtest provides an in-process fake Netmaker API server for tests.
//
// The server implements the subset of the API that nmctl consumes: the
// login endpoint, networks CRUD, node listing, and external client
// list/create/update/delete. It can mimic older servers that report
// absence as 500 "no result found", and it counts mutating calls so
// tests can assert that dry runs and no-ops issue none.
package nmtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oriolrius/nmctl/pkg/types"
)

// Credentials accepted by the fake server
const (
	MasterKey = "test-master-key"
	Username  = "admin"
	Password  = "wg-secret"
)

// Server is a fake Netmaker API backed by in-memory state
type Server struct {
	mu sync.Mutex

	httpSrv *httptest.Server
	token   string

	// LegacyNotFound reports network absence as 500 + "no result found"
	// instead of 404, like pre-0.18 servers
	LegacyNotFound bool

	networks   map[string]*types.Network
	nodes      map[string][]types.Node
	extclients map[string]map[string]*types.ExtClient

	mutations int
	nextAddr  int
}

// NewServer starts a fake server. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		token:      uuid.NewString(),
		networks:   make(map[string]*types.Network),
		nodes:      make(map[string][]types.Node),
		extclients: make(map[string]map[string]*types.ExtClient),
		nextAddr:   10,
	}
	s.httpSrv = httptest.NewServer(s.routes())
	return s
}

// URL returns the server's base URL
func (s *Server) URL() string {
	return s.httpSrv.URL
}

// Close shuts the server down
func (s *Server) Close() {
	s.httpSrv.Close()
}

// MutatingCalls returns how many create/update/delete requests were served
func (s *Server) MutatingCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutations
}

// SeedNetwork installs a network into the fake state
func (s *Server) SeedNetwork(network types.Network) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.networks[network.NetID] = &network
}

// SeedNode installs a node into the fake state
func (s *Server) SeedNode(node types.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if node.ID == "" {
		node.ID = uuid.NewString()
	}
	s.nodes[node.Network] = append(s.nodes[node.Network], node)
}

// SeedExtClient installs an external client into the fake state
func (s *Server) SeedExtClient(client types.ExtClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.extclients[client.Network] == nil {
		s.extclients[client.Network] = make(map[string]*types.ExtClient)
	}
	s.extclients[client.Network][client.ClientID] = &client
}

// Network returns a copy of the stored network, or nil
func (s *Server) Network(netID string) *types.Network {
	s.mu.Lock()
	defer s.mu.Unlock()
	network, ok := s.networks[netID]
	if !ok {
		return nil
	}
	copied := *network
	return &copied
}

// ExtClient returns a copy of the stored external client, or nil
func (s *Server) ExtClient(netID, clientID string) *types.ExtClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, ok := s.extclients[netID][clientID]
	if !ok {
		return nil
	}
	copied := *client
	return &copied
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/users/adm/authenticate", s.handleLogin)

	mux.HandleFunc("GET /api/networks", s.authed(s.handleListNetworks))
	mux.HandleFunc("POST /api/networks", s.authed(s.handleCreateNetwork))
	mux.HandleFunc("GET /api/networks/{id}", s.authed(s.handleGetNetwork))
	mux.HandleFunc("PUT /api/networks/{id}", s.authed(s.handleUpdateNetwork))
	mux.HandleFunc("DELETE /api/networks/{id}", s.authed(s.handleDeleteNetwork))

	mux.HandleFunc("GET /api/nodes/{network}", s.authed(s.handleListNodes))

	mux.HandleFunc("GET /api/extclients/{network}", s.authed(s.handleListExtClients))
	mux.HandleFunc("POST /api/extclients/{network}/{gateway}", s.authed(s.handleCreateExtClient))
	mux.HandleFunc("PUT /api/extclients/{network}/{id}", s.authed(s.handleUpdateExtClient))
	mux.HandleFunc("DELETE /api/extclients/{network}/{id}", s.authed(s.handleDeleteExtClient))

	return mux
}

// authed enforces the bearer token or master key
func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token != MasterKey && token != s.token {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	if creds.Username != Username || creds.Password != Password {
		writeError(w, http.StatusUnauthorized, "incorrect credentials received")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"Response": map[string]string{"AuthToken": s.token},
	})
}

func (s *Server) handleListNetworks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	networks := make([]types.Network, 0, len(s.networks))
	for _, network := range s.networks {
		networks = append(networks, *network)
	}
	writeJSON(w, http.StatusOK, networks)
}

func (s *Server) handleGetNetwork(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	network, ok := s.networks[r.PathValue("id")]
	if !ok {
		s.writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, network)
}

func (s *Server) handleCreateNetwork(w http.ResponseWriter, r *http.Request) {
	var network types.Network
	if err := json.NewDecoder(r.Body).Decode(&network); err != nil || network.NetID == "" {
		writeError(w, http.StatusBadRequest, "invalid network")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations++

	if _, exists := s.networks[network.NetID]; exists {
		writeError(w, http.StatusBadRequest, "network already exists")
		return
	}

	network.NetworkLastModified = time.Now().Unix()
	if network.IsLocal == "" {
		network.IsLocal = "no"
	}
	s.networks[network.NetID] = &network
	writeJSON(w, http.StatusOK, network)
}

func (s *Server) handleUpdateNetwork(w http.ResponseWriter, r *http.Request) {
	var network types.Network
	if err := json.NewDecoder(r.Body).Decode(&network); err != nil {
		writeError(w, http.StatusBadRequest, "invalid network")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations++

	netID := r.PathValue("id")
	if _, ok := s.networks[netID]; !ok {
		s.writeNotFound(w)
		return
	}

	network.NetID = netID
	network.NetworkLastModified = time.Now().Unix()
	s.networks[netID] = &network
	writeJSON(w, http.StatusOK, network)
}

func (s *Server) handleDeleteNetwork(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations++

	netID := r.PathValue("id")
	if _, ok := s.networks[netID]; !ok {
		s.writeNotFound(w)
		return
	}

	delete(s.networks, netID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListNodes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nodes := s.nodes[r.PathValue("network")]
	if nodes == nil {
		nodes = []types.Node{}
	}
	writeJSON(w, http.StatusOK, nodes)
}

func (s *Server) handleListExtClients(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clients := make([]types.ExtClient, 0)
	for _, client := range s.extclients[r.PathValue("network")] {
		clients = append(clients, *client)
	}
	writeJSON(w, http.StatusOK, clients)
}

func (s *Server) handleCreateExtClient(w http.ResponseWriter, r *http.Request) {
	var client types.ExtClient
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil || client.ClientID == "" {
		writeError(w, http.StatusBadRequest, "invalid external client")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations++

	netID := r.PathValue("network")
	gatewayID := r.PathValue("gateway")

	found := false
	for _, node := range s.nodes[netID] {
		if node.ID == gatewayID {
			found = true
			break
		}
	}
	if !found {
		writeError(w, http.StatusBadRequest, "no such ingress gateway")
		return
	}

	// Server-assigned fields
	client.Network = netID
	client.IngressGatewayID = gatewayID
	client.Address = assignedAddress(s.nextAddr)
	s.nextAddr++
	client.PublicKey = fakeKey()
	client.PrivateKey = fakeKey()
	client.LastModified = time.Now().Unix()

	if s.extclients[netID] == nil {
		s.extclients[netID] = make(map[string]*types.ExtClient)
	}
	s.extclients[netID][client.ClientID] = &client
	writeJSON(w, http.StatusOK, client)
}

func (s *Server) handleUpdateExtClient(w http.ResponseWriter, r *http.Request) {
	var client types.ExtClient
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		writeError(w, http.StatusBadRequest, "invalid external client")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations++

	netID := r.PathValue("network")
	clientID := r.PathValue("id")
	existing, ok := s.extclients[netID][clientID]
	if !ok {
		s.writeNotFound(w)
		return
	}

	// Server-assigned fields survive updates
	client.ClientID = clientID
	client.Network = netID
	client.Address = existing.Address
	client.PublicKey = existing.PublicKey
	client.PrivateKey = existing.PrivateKey
	client.IngressGatewayID = existing.IngressGatewayID
	client.LastModified = time.Now().Unix()

	s.extclients[netID][clientID] = &client
	writeJSON(w, http.StatusOK, client)
}

func (s *Server) handleDeleteExtClient(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations++

	netID := r.PathValue("network")
	clientID := r.PathValue("id")
	if _, ok := s.extclients[netID][clientID]; !ok {
		s.writeNotFound(w)
		return
	}

	delete(s.extclients[netID], clientID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeNotFound(w http.ResponseWriter) {
	if s.LegacyNotFound {
		writeError(w, http.StatusInternalServerError, "no result found")
		return
	}
	writeError(w, http.StatusNotFound, "not found")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"Code": status, "Message": message})
}

func assignedAddress(host int) string {
	return "10.102.0." + strconv.Itoa(host)
}

func fakeKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:32] + "="
}
