// Package trellotest provides an in-memory board API for tests.
package trellotest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/chxlky/trello-card-automation/internal/models"
)

const (
	Key     = "test-key"
	Token   = "test-token"
	BoardID = "board1"
)

// CreatedCard records the parameters of one create-card call.
type CreatedCard struct {
	Name     string
	Desc     string
	IDList   string
	Due      string
	IDLabels string
}

type Server struct {
	*httptest.Server

	mu      sync.Mutex
	Lists   []models.TrelloList
	Labels  []models.TrelloLabel
	Created []CreatedCard

	failCreate int
	failReads  int
	requests   int
}

func NewServer(lists []models.TrelloList, labels []models.TrelloLabel) *Server {
	s := &Server{Lists: lists, Labels: labels}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /boards/{board}/lists", func(w http.ResponseWriter, r *http.Request) {
		s.serveRead(w, r, func() any { return s.Lists })
	})
	mux.HandleFunc("GET /boards/{board}/labels", func(w http.ResponseWriter, r *http.Request) {
		s.serveRead(w, r, func() any { return s.Labels })
	})
	mux.HandleFunc("POST /cards", s.createCard)

	s.Server = httptest.NewServer(s.authorize(mux))
	return s
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()

		q := r.URL.Query()
		if q.Get("key") != Key || q.Get("token") != Token {
			http.Error(w, "invalid key", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) serveRead(w http.ResponseWriter, r *http.Request, body func() any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.PathValue("board") != BoardID {
		http.Error(w, "model not found", http.StatusNotFound)
		return
	}
	if s.failReads != 0 {
		http.Error(w, "board unavailable", s.failReads)
		return
	}
	writeJSON(w, body())
}

func (s *Server) createCard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failCreate != 0 {
		http.Error(w, "invalid value for idList", s.failCreate)
		return
	}

	var params map[string]string
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}
	s.Created = append(s.Created, CreatedCard{
		Name:     params["name"],
		Desc:     params["desc"],
		IDList:   params["idList"],
		Due:      params["due"],
		IDLabels: params["idLabels"],
	})

	id := fmt.Sprintf("card%d", len(s.Created))
	writeJSON(w, models.TrelloCard{
		ID:          id,
		Name:        params["name"],
		Description: params["desc"],
		URL:         "https://trello.com/c/" + id,
		ShortLink:   id,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// LastCreated returns the most recent create-card call.
func (s *Server) LastCreated() (CreatedCard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Created) == 0 {
		return CreatedCard{}, false
	}
	return s.Created[len(s.Created)-1], true
}

// FailCreate makes create-card answer with status; zero restores success.
func (s *Server) FailCreate(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCreate = status
}

// FailReads makes list and label reads answer with status; zero restores success.
func (s *Server) FailReads(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReads = status
}

// Requests reports how many calls the server has received.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}
