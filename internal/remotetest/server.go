// Package remotetest provides an in-memory Remote Store served over HTTP for
// tests. Item balances are derived from the transaction ledger on every read,
// the way the real server recomputes them after each write.
package remotetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/five82/stockpile/internal/inventory"
)

// Request is a recorded call.
type Request struct {
	Method    string
	Path      string
	RequestID string
}

type account struct {
	password string
	role     string
}

type storedItem struct {
	item    inventory.Item
	opening decimal.Decimal
}

// Server is a fake Remote Store. The zero value is not usable; call New.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	nextID    int
	items     []storedItem
	txns      []inventory.Transaction
	users     map[string]account
	requests  []Request
	failAll   int
	failByKey map[string]int
}

var modeOnce sync.Once

// New starts a fake Remote Store. Close it when done.
func New() *Server {
	modeOnce.Do(func() { gin.SetMode(gin.TestMode) })

	s := &Server{
		nextID:    1,
		users:     make(map[string]account),
		failByKey: make(map[string]int),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.record())
	r.Use(s.inject())

	api := r.Group("/api")
	api.GET("/items", s.listItems)
	api.POST("/items", s.createItem)
	api.PUT("/items/:id", s.updateItem)
	api.DELETE("/items/:id", s.deleteItem)
	api.GET("/transactions", s.listTransactions)
	api.POST("/transactions", s.createTransaction)
	api.PUT("/transactions/:id", s.updateTransaction)
	api.DELETE("/transactions/:id", s.deleteTransaction)
	api.POST("/login", s.login)

	s.Server = httptest.NewServer(r)
	return s
}

// APIURL is the base URL clients should use.
func (s *Server) APIURL() string { return s.URL + "/api" }

// AddUser registers credentials for POST /login.
func (s *Server) AddUser(username, password, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = account{password: password, role: role}
}

// SeedItem inserts an item with an opening balance and returns its id.
func (s *Server) SeedItem(item inventory.Item, opening decimal.Decimal) inventory.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.allocID()
	s.items = append(s.items, storedItem{item: item, opening: opening})
	return item.ID
}

// SeedTransaction appends a ledger row as-is and returns its id.
func (s *Server) SeedTransaction(txn inventory.Transaction) inventory.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn.ID = s.allocID()
	s.txns = append(s.txns, txn)
	return txn.ID
}

// Fail makes every request answer with status until Fail(0) is called.
func (s *Server) Fail(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAll = status
}

// FailRoute makes requests for method and the path (without the /api
// prefix, for example "/transactions") answer with status. Zero clears it.
func (s *Server) FailRoute(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	if status == 0 {
		delete(s.failByKey, key)
		return
	}
	s.failByKey[key] = status
}

// Requests returns the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == "/api"+path {
			n++
		}
	}
	return n
}

// Quantity returns the current balance of the named item.
func (s *Server) Quantity(name string) (decimal.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.items {
		if st.item.Name == name {
			return s.balance(st), true
		}
	}
	return decimal.Zero, false
}

func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			RequestID: c.GetHeader("X-Request-ID"),
		})
		s.mu.Unlock()
		c.Next()
	}
}

func (s *Server) inject() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		status := s.failAll
		if status == 0 {
			path := strings.TrimPrefix(c.Request.URL.Path, "/api")
			status = s.failByKey[c.Request.Method+" "+path]
			if status == 0 {
				if i := strings.LastIndex(path, "/"); i > 0 {
					status = s.failByKey[c.Request.Method+" "+path[:i]+"/:id"]
				}
			}
		}
		s.mu.Unlock()
		if status != 0 {
			c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
			return
		}
		c.Next()
	}
}

func (s *Server) allocID() inventory.ID {
	id := inventory.ID(strconv.Itoa(s.nextID))
	s.nextID++
	return id
}

func (s *Server) balance(st storedItem) decimal.Decimal {
	qty := st.opening
	for _, txn := range s.txns {
		if txn.ItemID != st.item.ID && (txn.ItemID != "" || txn.ItemName != st.item.Name) {
			continue
		}
		switch txn.Type {
		case inventory.In:
			qty = qty.Add(txn.Quantity)
		case inventory.Out:
			qty = qty.Sub(txn.Quantity)
		}
	}
	return qty
}

func (s *Server) itemJSON(st storedItem) itemPayload {
	it := st.item
	qty := s.balance(st)
	p := itemPayload{
		ID:       json.Number(it.ID),
		Name:     it.Name,
		Unit:     string(it.Unit),
		AltUnit:  "-",
		Factor:   "-",
		AlertQty: it.AlertQty,
		Quantity: json.Number(qty.String()),
	}
	if it.HasAltUnit() {
		p.AltUnit = string(it.AltUnit)
		p.Factor = "Manual"
		if it.Factor.Valid {
			p.Factor = json.Number(it.Factor.Decimal.String())
			alt := json.Number(qty.Mul(it.Factor.Decimal).String())
			p.AltQuantity = &alt
		}
	}
	return p
}

// itemPayload is what the real server sends: balances included, sentinels
// for absent values.
type itemPayload struct {
	ID          json.Number  `json:"id"`
	Name        string       `json:"name"`
	Unit        string       `json:"unit"`
	AltUnit     string       `json:"altUnit"`
	Factor      any          `json:"factor"`
	AlertQty    int          `json:"alertQty"`
	Quantity    json.Number  `json:"quantity"`
	AltQuantity *json.Number `json:"altQuantity,omitempty"`
}

func (s *Server) listItems(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]itemPayload, 0, len(s.items))
	for _, st := range s.items {
		out = append(out, s.itemJSON(st))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createItem(c *gin.Context) {
	var item inventory.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item"})
		return
	}
	if strings.TrimSpace(item.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.allocID()
	st := storedItem{item: item}
	s.items = append(s.items, st)
	c.JSON(http.StatusCreated, s.itemJSON(st))
}

func (s *Server) updateItem(c *gin.Context) {
	var item inventory.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item"})
		return
	}
	id := inventory.ID(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].item.ID == id {
			item.ID = id
			s.items[i].item = item
			c.JSON(http.StatusOK, s.itemJSON(s.items[i]))
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
}

func (s *Server) deleteItem(c *gin.Context) {
	id := inventory.ID(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "deleted"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
}

func (s *Server) listTransactions(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, append([]inventory.Transaction{}, s.txns...))
}

func (s *Server) createTransaction(c *gin.Context) {
	var txn inventory.Transaction
	if err := c.ShouldBindJSON(&txn); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction"})
		return
	}
	if txn.Type == "" || !txn.Quantity.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type and positive quantity required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	txn.ID = s.allocID()
	s.txns = append(s.txns, txn)
	c.JSON(http.StatusCreated, txn)
}

func (s *Server) updateTransaction(c *gin.Context) {
	var txn inventory.Transaction
	if err := c.ShouldBindJSON(&txn); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction"})
		return
	}
	id := inventory.ID(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txns {
		if s.txns[i].ID == id {
			txn.ID = id
			s.txns[i] = txn
			c.JSON(http.StatusOK, txn)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
}

func (s *Server) deleteTransaction(c *gin.Context) {
	id := inventory.ID(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txns {
		if s.txns[i].ID == id {
			s.txns = append(s.txns[:i], s.txns[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "deleted"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
}

func (s *Server) login(c *gin.Context) {
	var creds inventory.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	s.mu.Lock()
	acct, ok := s.users[creds.Username]
	s.mu.Unlock()
	if !ok || acct.password != creds.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, inventory.Account{Role: acct.role, Username: creds.Username})
}
