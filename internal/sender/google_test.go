package sender_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ErikRoss/ConversionsManager/internal/domain"
	"github.com/ErikRoss/ConversionsManager/internal/logger"
	"github.com/ErikRoss/ConversionsManager/internal/sender"
	"github.com/ErikRoss/ConversionsManager/internal/transport"
)

func googleClick() *domain.Click {
	return &domain.Click{
		ClickID:     "click-2",
		ClickSource: domain.SourceGoogle,
		Domain:      "https://landing.example.com",
		UserAgent:   "Mozilla/5.0",
		XCN:         777,
		Gclid:       "g-id",
	}
}

func TestGoogleBuildPayload(t *testing.T) {
	g := sender.NewGoogle(transport.NewClient(0), "http://relay.local/conversion", logger.NewNop())

	req := &domain.ConversionRequest{
		ClickID: "click-2",
		Event:   "reg",
		Clabel:  "label-1",
		Gtag:    "AW-123",
		Timeout: 2,
	}

	payload := g.BuildPayload(req, googleClick(), "reg")

	if payload.Params.Event != "reg" {
		t.Fatalf("event = %q", payload.Params.Event)
	}
	if payload.Params.Clid != "click-2" {
		t.Fatalf("clid = %q", payload.Params.Clid)
	}
	if payload.Params.XCN != 777 {
		t.Fatalf("xcn = %d", payload.Params.XCN)
	}
	if payload.Params.Clabel != "label-1" || payload.Params.Gtag != "AW-123" {
		t.Fatalf("clabel/gtag = %q/%q", payload.Params.Clabel, payload.Params.Gtag)
	}
	if payload.URL != "https://landing.example.com/conversion" {
		t.Fatalf("url = %q", payload.URL)
	}
	if payload.UserAgent != "Mozilla/5.0" {
		t.Fatalf("user_agent = %q", payload.UserAgent)
	}
	if payload.Timeout != 2 {
		t.Fatalf("timeout = %d", payload.Timeout)
	}
}

func TestGoogleSend_PostsJSON(t *testing.T) {
	var body sender.GooglePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g := sender.NewGoogle(transport.NewClient(0), srv.URL, logger.NewNop())
	req := &domain.ConversionRequest{ClickID: "click-2", Event: "reg", Timeout: 1}

	result, err := g.Send(context.Background(), req, googleClick(), "reg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Sent {
		t.Fatal("expected Sent on 200 response")
	}
	if result.URL != srv.URL {
		t.Fatalf("result URL = %q, want relay endpoint", result.URL)
	}
	if body.Params.Clid != "click-2" {
		t.Fatalf("relay received clid %q", body.Params.Clid)
	}
}

func TestGoogleSend_Non200IsNotSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := sender.NewGoogle(transport.NewClient(0), srv.URL, logger.NewNop())
	req := &domain.ConversionRequest{ClickID: "click-2", Event: "reg", Timeout: 1}

	result, err := g.Send(context.Background(), req, googleClick(), "reg")
	if err != nil {
		t.Fatalf("send failure must not be an error, got %v", err)
	}
	if result.Sent {
		t.Fatal("expected not sent on 502 response")
	}
}
