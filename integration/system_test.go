//go:build integration
// +build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8000")

const sessionCookie = "username"

func TestSystem_E2E(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	username := fmt.Sprintf("user_%d_%d", time.Now().Unix(), rand.Intn(100000))
	pass := "password123!"

	ck := postFormExpect(t, "/create_account", url.Values{
		"username": {username},
		"password": {pass},
	}, nil, http.StatusSeeOther)
	if ck == nil {
		t.Fatalf("no session cookie after account creation")
	}

	var home struct {
		Username string `json:"username"`
		Balance  int64  `json:"balance"`
		Products []struct {
			ID    int   `json:"id"`
			Price int64 `json:"price"`
		} `json:"products"`
	}
	getJSON(t, "/", ck, &home)
	if home.Username != username {
		t.Fatalf("home username=%q want=%q", home.Username, username)
	}
	if len(home.Products) == 0 {
		t.Fatalf("expected non-empty catalog")
	}

	p := home.Products[0]
	_ = postFormExpect(t, "/purchase", url.Values{
		"product_id": {fmt.Sprint(p.ID)},
		"quantity":   {"1"},
	}, ck, http.StatusCreated)

	getJSON(t, "/", ck, &home)
	if want := 100 - p.Price; home.Balance != want {
		t.Fatalf("balance=%d want=%d", home.Balance, want)
	}

	// Fresh accounts are not admins.
	resp := doForm(t, "/admin", http.MethodGet, nil, ck)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("admin status=%d want=403", resp.StatusCode)
	}

	// Logout kills the session server-side.
	_ = postFormExpect(t, "/logout", url.Values{}, ck, http.StatusFound)
	resp = doForm(t, "/", http.MethodGet, nil, ck)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("post-logout status=%d want=302", resp.StatusCode)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func newClient() *http.Client {
	return &http.Client{
		Timeout: 5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func doForm(t *testing.T, path, method string, form url.Values, ck *http.Cookie) *http.Response {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if ck != nil {
		req.AddCookie(ck)
	}

	resp, err := newClient().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func postFormExpect(t *testing.T, path string, form url.Values, ck *http.Cookie, want int) *http.Cookie {
	t.Helper()

	method := http.MethodPost
	if path == "/logout" {
		method = http.MethodGet
		form = nil
	}

	resp := doForm(t, path, method, form, ck)
	defer resp.Body.Close()

	if resp.StatusCode != want {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: status=%d want=%d body=%s", method, path, resp.StatusCode, want, raw)
	}

	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			return c
		}
	}
	return nil
}

func getJSON(t *testing.T, path string, ck *http.Cookie, out any) {
	t.Helper()

	resp := doForm(t, path, http.MethodGet, nil, ck)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status=%d want=200", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
