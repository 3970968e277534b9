package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u != DefaultBaseURL {
		t.Fatalf("parseBaseURL(\"\") = %q, want %q", u, DefaultBaseURL)
	}

	u, err = parseBaseURL("example.com:1234/api/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u != "http://example.com:1234/api" {
		t.Fatalf("parseBaseURL = %q, want http://example.com:1234/api", u)
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL(http://) returned nil error, want missing host")
	}
}

func TestClient_CRUDEndpoints(t *testing.T) {
	t.Parallel()

	type call struct {
		method, path, body, requestID string
	}
	var calls []call

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, call{r.Method, r.URL.Path, string(body), r.Header.Get("X-Request-ID")})
		w.Header().Set("Content-Type", "application/json")

		switch r.Method + " " + r.URL.Path {
		case "GET /api/items":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Bolt","unit":"pcs","altUnit":"-","factor":"-","alertQty":10,"quantity":12}]`))
		case "GET /api/transactions":
			_, _ = w.Write([]byte(`[{"id":"t1","date":"2024-01-02","itemName":"Bolt","type":"IN","quantity":12,"remarks":""}]`))
		case "POST /api/items":
			_, _ = w.Write([]byte(`{"id":2,"name":"Nut","unit":"pcs","altUnit":"-","factor":"-","alertQty":0,"quantity":0}`))
		case "PUT /api/items/2":
			_, _ = w.Write(body)
		case "DELETE /api/items/2", "DELETE /api/transactions/t9":
			w.WriteHeader(http.StatusNoContent)
		case "POST /api/transactions":
			_, _ = w.Write([]byte(`{"id":"t2","date":"2024-01-03","itemName":"Bolt","type":"OUT","quantity":5}`))
		case "PUT /api/transactions/t2":
			_, _ = w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(ClientOptions{BaseURL: server.URL + "/api"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	items, err := c.ListItems(ctx)
	if err != nil || len(items) != 1 || items[0].Name != "Bolt" {
		t.Fatalf("ListItems = %#v, %v; want [Bolt]", items, err)
	}
	txns, err := c.ListTransactions(ctx)
	if err != nil || len(txns) != 1 || txns[0].ID != "t1" {
		t.Fatalf("ListTransactions = %#v, %v; want [t1]", txns, err)
	}

	created, err := c.CreateItem(WithRequestID(ctx, "req-1"), Item{ID: "ignored", Name: "Nut", Unit: "pcs"})
	if err != nil {
		t.Fatalf("CreateItem returned error: %v", err)
	}
	if created.ID != "2" {
		t.Fatalf("CreateItem id = %q, want 2", created.ID)
	}

	created.Name = "Hex Nut"
	updated, err := c.UpdateItem(ctx, created)
	if err != nil || updated.Name != "Hex Nut" {
		t.Fatalf("UpdateItem = %#v, %v; want Hex Nut", updated, err)
	}
	if err := c.DeleteItem(ctx, "2"); err != nil {
		t.Fatalf("DeleteItem returned error: %v", err)
	}

	txn, err := c.CreateTransaction(ctx, Transaction{Date: Today(), ItemName: "Bolt", Type: Out})
	if err != nil || txn.ID != "t2" {
		t.Fatalf("CreateTransaction = %#v, %v; want t2", txn, err)
	}
	txn.Remarks = "fixed"
	got, err := c.UpdateTransaction(ctx, txn)
	if err != nil {
		t.Fatalf("UpdateTransaction returned error: %v", err)
	}
	if got.ID != "t2" || got.Remarks != "fixed" {
		t.Fatalf("UpdateTransaction with empty echo = %#v, want request value", got)
	}
	if err := c.DeleteTransaction(ctx, "t9"); err != nil {
		t.Fatalf("DeleteTransaction returned error: %v", err)
	}

	post := calls[2]
	if post.method != http.MethodPost || post.requestID != "req-1" {
		t.Fatalf("create call = %#v, want POST with request id", post)
	}
	var sent map[string]any
	if err := json.Unmarshal([]byte(post.body), &sent); err != nil {
		t.Fatalf("decode create body: %v", err)
	}
	if _, ok := sent["id"]; ok {
		t.Fatalf("create body %s should not carry an id", post.body)
	}
}

func TestClient_MissingIDs(t *testing.T) {
	c, err := NewClient(ClientOptions{BaseURL: "127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()
	if _, err := c.UpdateItem(ctx, Item{}); err == nil {
		t.Fatalf("UpdateItem without id returned nil error")
	}
	if err := c.DeleteItem(ctx, ""); err == nil {
		t.Fatalf("DeleteItem without id returned nil error")
	}
	if _, err := c.UpdateTransaction(ctx, Transaction{}); err == nil {
		t.Fatalf("UpdateTransaction without id returned nil error")
	}
	if err := c.DeleteTransaction(ctx, ""); err == nil {
		t.Fatalf("DeleteTransaction without id returned nil error")
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/items":
			_, _ = w.Write([]byte("{not-json"))
		case "/transactions":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"database down"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(ClientOptions{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if _, err := c.ListItems(context.Background()); err == nil {
		t.Fatalf("ListItems returned nil error, want decode error")
	}

	_, err = c.ListTransactions(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ListTransactions error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Message != "database down" {
		t.Fatalf("APIError = %#v, want 500 database down", apiErr)
	}
	if !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("error = %q, want status text", err.Error())
	}
	if !IsAPIError(err, http.StatusInternalServerError) {
		t.Fatalf("IsAPIError(500) = false, want true")
	}
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		w.Header().Set("Content-Type", "application/json")
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"role":"admin","username":"` + creds.Username + `"}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(ClientOptions{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	acct, err := c.Login(context.Background(), Credentials{Username: "sam", Password: "secret"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if acct.Role != "admin" || acct.Username != "sam" {
		t.Fatalf("Login = %#v, want admin sam", acct)
	}

	_, err = c.Login(context.Background(), Credentials{Username: "sam", Password: "nope"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid credentials" {
		t.Fatalf("Login error = %v, want Invalid credentials APIError", err)
	}
}

func TestRequestIDFrom(t *testing.T) {
	if got := RequestIDFrom(context.Background()); got != "" {
		t.Fatalf("RequestIDFrom(empty) = %q, want empty", got)
	}
	ctx := WithRequestID(context.Background(), "abc")
	if got := RequestIDFrom(ctx); got != "abc" {
		t.Fatalf("RequestIDFrom = %q, want abc", got)
	}
}
