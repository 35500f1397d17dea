package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gorilla/mux"
)

// FakeFinanceServer is an in-process stand-in for the remote finance service.
// Tests script its endpoints and inspect which were called. Endpoints
// registered as protected reject requests whose bearer token does not match
// the configured one, the way the real service does.
type FakeFinanceServer struct {
	*httptest.Server
	router *mux.Router

	mu         sync.Mutex
	validToken string
	calls      map[string]int
}

func NewFakeFinanceServer() *FakeFinanceServer {
	f := &FakeFinanceServer{
		router: mux.NewRouter(),
		calls:  make(map[string]int),
	}
	f.Server = httptest.NewServer(f.router)
	return f
}

// SetValidToken sets the bearer token the protected endpoints accept.
func (f *FakeFinanceServer) SetValidToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validToken = token
}

// Calls returns how many times the given endpoint was hit.
func (f *FakeFinanceServer) Calls(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method+" "+path]
}

// HandleOpen registers an endpoint that answers without authentication,
// responding with the given status and JSON-encoded body.
func (f *FakeFinanceServer) HandleOpen(method, path string, status int, body any) {
	f.handle(method, path, false, status, body)
}

// Handle registers a protected endpoint.
func (f *FakeFinanceServer) Handle(method, path string, status int, body any) {
	f.handle(method, path, true, status, body)
}

// HandleRaw registers a protected endpoint answering raw bytes, used for
// export blobs.
func (f *FakeFinanceServer) HandleRaw(method, path string, status int, body []byte) {
	f.router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		f.record(method, path)
		if !f.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token."})
			return
		}
		w.WriteHeader(status)
		w.Write(body)
	}).Methods(method)
}

// HandleFunc registers a protected endpoint with a custom handler, for
// tests that need to inspect the request body.
func (f *FakeFinanceServer) HandleFunc(method, path string, h http.HandlerFunc) {
	f.router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		f.record(method, path)
		if !f.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token."})
			return
		}
		h(w, r)
	}).Methods(method)
}

func (f *FakeFinanceServer) handle(method, path string, protected bool, status int, body any) {
	f.router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		f.record(method, path)
		if protected && !f.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token."})
			return
		}
		writeJSON(w, status, body)
	}).Methods(method)
}

func (f *FakeFinanceServer) record(method, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method+" "+path]++
}

func (f *FakeFinanceServer) authorized(r *http.Request) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return r.Header.Get("Authorization") == "Bearer "+f.validToken
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		fmt.Println("failed to encode fake response:", err)
	}
}
