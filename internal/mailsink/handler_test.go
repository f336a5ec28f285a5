package mailsink

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mrz1836/postmark"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/email"
)

func newServer(t *testing.T, token string) (*Handler, *httptest.Server) {
	t.Helper()
	h := NewHandler(token, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	h.Routes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return h, server
}

func TestHandleEmail(t *testing.T) {
	t.Run("accepts message from postmark client", func(t *testing.T) {
		h, server := newServer(t, "secret")
		client := email.NewPostmarkClient(server.URL, "secret", server.Client())

		err := client.Send(context.Background(), email.Message{
			From:     "AjoloEats <a@b.com>",
			To:       []string{"c@d.com"},
			Subject:  "Nuevo Pedido - 12345678",
			HTMLBody: "<p>x</p>",
			Tag:      "restaurant_new_order",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := h.Received()
		if len(got) != 1 {
			t.Fatalf("expected 1 message, got %d", len(got))
		}
		if got[0].Subject != "Nuevo Pedido - 12345678" || got[0].To != "c@d.com" {
			t.Errorf("unexpected message: %+v", got[0])
		}
	})

	t.Run("rejects wrong token", func(t *testing.T) {
		h, server := newServer(t, "secret")
		client := email.NewPostmarkClient(server.URL, "other", server.Client())

		err := client.Send(context.Background(), email.Message{To: []string{"c@d.com"}})
		var apiErr *email.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.ErrorCode != codeMissingToken {
			t.Errorf("unexpected error: %+v", apiErr)
		}
		if len(h.Received()) != 0 {
			t.Error("expected nothing stored")
		}
	})

	t.Run("requires token header even when any token is accepted", func(t *testing.T) {
		_, server := newServer(t, "")
		resp, err := http.Post(server.URL+"/email", "application/json", strings.NewReader(`{"To":"c@d.com"}`))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("rejects missing recipient", func(t *testing.T) {
		_, server := newServer(t, "")
		client := email.NewPostmarkClient(server.URL, "any", server.Client())

		err := client.Send(context.Background(), email.Message{Subject: "x"})
		var apiErr *email.APIError
		if !errors.As(err, &apiErr) || apiErr.ErrorCode != codeInvalidTo {
			t.Fatalf("expected invalid To error, got %v", err)
		}
	})

	t.Run("rejects invalid json", func(t *testing.T) {
		_, server := newServer(t, "")
		req, _ := http.NewRequest(http.MethodPost, server.URL+"/email", strings.NewReader("{"))
		req.Header.Set(tokenHeader, "x")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d", resp.StatusCode)
		}
	})
}

func TestHandleList(t *testing.T) {
	_, server := newServer(t, "")
	client := email.NewPostmarkClient(server.URL, "x", server.Client())
	for _, to := range []string{"a@x.com", "b@x.com"} {
		if err := client.Send(context.Background(), email.Message{To: []string{to}}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	resp, err := http.Get(server.URL + "/messages")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var got []postmark.Email
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].To != "a@x.com" || got[1].To != "b@x.com" {
		t.Errorf("unexpected messages: %+v", got)
	}
}
