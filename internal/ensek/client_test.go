package ensek

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"enercheck/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	cfg, _ := config.Load()
	cfg.EnsekAPIBaseURL = "https://example.test"
	cfg.EnsekRateLimitRPS = 1000
	client := NewClient(cfg)
	client.httpClient = &http.Client{Transport: rt}
	return client
}

func jsonResponse(status int, payload any) *http.Response {
	blob, _ := json.Marshal(payload)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(string(blob))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestLoginStoresToken(t *testing.T) {
	client := testClient(t, func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPost || r.URL.Path != "/ENSEK/login" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		blob, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(blob, &body)
		if body["username"] != "test" || body["password"] != "testing" {
			t.Fatalf("unexpected credentials: %v", body)
		}
		return jsonResponse(http.StatusOK, map[string]string{"access_token": "tok-123", "message": "Success"}), nil
	})

	res, err := client.Login(context.Background(), "test", "testing")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success || res.StatusCode != http.StatusOK {
		t.Fatalf("unexpected result: %+v", res)
	}
	if client.Token() != "tok-123" {
		t.Fatalf("token not stored: %q", client.Token())
	}
}

func TestLoginBadCredentials(t *testing.T) {
	client := testClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"}), nil
	})

	res, err := client.Login(context.Background(), "test", "wrong")
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected result: %+v", res)
	}
	if client.Token() != "" {
		t.Fatalf("token should stay empty, got %q", client.Token())
	}
}

func TestOrdersRetriesAndParses(t *testing.T) {
	attempt := 0
	client := testClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/ENSEK/orders" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("missing bearer header: %q", got)
		}
		attempt++
		if attempt == 1 {
			return &http.Response{
				StatusCode: http.StatusInternalServerError,
				Body:       io.NopCloser(strings.NewReader(`{"error":"boom"}`)),
				Header:     make(http.Header),
			}, nil
		}
		return jsonResponse(http.StatusOK, []map[string]any{
			{"id": "abc-1", "fuel": "gas", "quantity": 50, "time": "Wed, 03 Feb 2021 14:47:44 GMT"},
		}), nil
	})
	client.SetToken("tok")

	orders, res, err := client.Orders(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success || attempt != 2 {
		t.Fatalf("expected one retry, attempts=%d result=%+v", attempt, res)
	}
	if len(orders) != 1 || orders[0].ID != "abc-1" || orders[0].Quantity != 50 {
		t.Fatalf("unexpected orders: %+v", orders)
	}
}

func TestBuyNeverRetries(t *testing.T) {
	attempt := 0
	client := testClient(t, func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPut || r.URL.Path != "/ENSEK/buy/1/50" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		attempt++
		return &http.Response{
			StatusCode: http.StatusInternalServerError,
			Body:       io.NopCloser(strings.NewReader("<html><head><title>Internal Server Error</title></head><body></body></html>")),
			Header:     http.Header{"Content-Type": []string{"text/html"}},
		}, nil
	})
	client.SetToken("tok")

	res, err := client.Buy(context.Background(), 1, 50)
	if err != nil {
		t.Fatal(err)
	}
	if attempt != 1 {
		t.Fatalf("buy must not be retried, attempts=%d", attempt)
	}
	if res.Success || res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Message != "Internal Server Error" {
		t.Fatalf("html summary missing: %q", res.Message)
	}
}
