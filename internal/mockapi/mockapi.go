// Package mockapi is an in-process, in-memory REST backend standing in for
// a real upstream integration partner's API: an item catalogue and a
// seeded set of users, both gated by an API key header. The REST client
// pool and the query_api tool exercise it as just another HTTP server.
package mockapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/decoder"
	"go.uber.org/zap"
)

// Item is a generic catalogue entry.
type Item struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// User is a seeded, searchable user record.
type User struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Region     string `json:"region,omitempty"`
	SignupDate string `json:"signup_date,omitempty"`
}

var regions = []string{"NA", "EU", "APAC", "LATAM"}

// Server is the mock API's in-memory state and HTTP handler.
type Server struct {
	apiKey string
	logger *zap.Logger

	mu         sync.Mutex
	items      map[int]Item
	nextItemID int
	users      map[int]User
	nextUserID int
}

// New builds a Server seeded with 60 deterministic users, gated by apiKey.
func New(apiKey string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		apiKey: apiKey,
		logger: logger,
		items:  make(map[int]Item),

		nextItemID: 1,
	}
	s.seedUsers(60)
	return s
}

func (s *Server) seedUsers(count int) {
	s.users = make(map[int]User, count)
	s.nextUserID = 1
	for i := 1; i <= count; i++ {
		day := 1 + i
		signup := "2025-07-01"
		if day <= 28 {
			signup = "2025-06-" + pad2(day)
		}
		s.users[s.nextUserID] = User{
			ID:         s.nextUserID,
			Name:       "ApiUser" + strconv.Itoa(i),
			Email:      "apiuser" + strconv.Itoa(i) + "@example.com",
			Region:     regions[i%len(regions)],
			SignupDate: signup,
		}
		s.nextUserID++
	}
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// Reset clears the item store and re-seeds users, for test isolation.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[int]Item)
	s.nextItemID = 1
	s.seedUsers(60)
}

// Handler builds the mux routing every endpoint this mock serves.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /items", s.withAuth(s.handleCreateItem))
	mux.HandleFunc("GET /items", s.withAuth(s.handleListItems))
	mux.HandleFunc("GET /items/{id}", s.withAuth(s.handleGetItem))
	mux.HandleFunc("PUT /items/{id}", s.withAuth(s.handleUpdateItem))
	mux.HandleFunc("DELETE /items/{id}", s.withAuth(s.handleDeleteItem))

	mux.HandleFunc("GET /users", s.withAuth(s.handleListUsers))
	mux.HandleFunc("GET /users/{id}", s.withAuth(s.handleGetUser))
	mux.HandleFunc("POST /users", s.withAuth(s.handleCreateUser))
	mux.HandleFunc("PUT /users/{id}", s.withAuth(s.handleUpdateUser))
	mux.HandleFunc("DELETE /users/{id}", s.withAuth(s.handleDeleteUser))

	return mux
}

// ListenAndServe starts the mock API on addr. It blocks until the server
// stops or fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting mock API server", zap.String("addr", addr))
	return srv.ListenAndServe()
}

func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != s.apiKey {
			writeError(w, http.StatusUnauthorized, "Invalid API key")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"items":  len(s.items),
		"users":  len(s.users),
	})
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var item Item
	if err := decodeBody(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	item.ID = s.nextItemID
	s.items[item.ID] = item
	s.nextItemID++
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleListItems(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	items := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		items = append(items, it)
	}
	s.mu.Unlock()
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	s.mu.Lock()
	item, ok := s.items[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var item Item
	if err := decodeBody(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	if _, ok := s.items[id]; !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	item.ID = id
	s.items[id] = item
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	s.mu.Lock()
	if _, ok := s.items[id]; !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	delete(s.items, id)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	users := make([]User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	s.mu.Unlock()
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	if idStr := q.Get("id"); idStr != "" {
		if id, err := strconv.Atoi(idStr); err == nil {
			users = filterUsers(users, func(u User) bool { return u.ID == id })
		}
	}
	if name := q.Get("name"); name != "" {
		users = filterUsers(users, func(u User) bool { return strings.EqualFold(u.Name, name) })
	}
	if email := q.Get("email"); email != "" {
		users = filterUsers(users, func(u User) bool { return strings.EqualFold(u.Email, email) })
	}
	if region := q.Get("region"); region != "" {
		users = filterUsers(users, func(u User) bool { return strings.EqualFold(u.Region, region) })
	}
	if signupDate := q.Get("signup_date"); signupDate != "" {
		users = filterUsers(users, func(u User) bool { return u.SignupDate == signupDate })
	}

	writeJSON(w, http.StatusOK, users)
}

func filterUsers(users []User, keep func(User) bool) []User {
	out := users[:0:0]
	for _, u := range users {
		if keep(u) {
			out = append(out, u)
		}
	}
	return out
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	s.mu.Lock()
	user, ok := s.users[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var user User
	if err := decodeBody(r, &user); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	user.ID = s.nextUserID
	s.users[user.ID] = user
	s.nextUserID++
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var user User
	if err := decodeBody(r, &user); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	if _, ok := s.users[id]; !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	user.ID = id
	s.users[id] = user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	s.mu.Lock()
	if _, ok := s.users[id]; !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	delete(s.users, id)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return decoder.NewStreamDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encoding response failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
