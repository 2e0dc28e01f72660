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

func TestTiktokSend_PostsPlaceholderPayload(t *testing.T) {
	var body sender.TiktokPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tk := sender.NewTiktok(transport.NewClient(0), srv.URL, logger.NewNop())
	click := &domain.Click{
		ClickID:     "click-3",
		ClickSource: domain.SourceTiktok,
		Initiator:   "203.0.113.9",
		Ttclid:      "tt-id",
	}
	req := &domain.ConversionRequest{ClickID: "click-3", Event: "install", Timeout: 1}

	result, err := tk.Send(context.Background(), req, click, "install")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Sent {
		t.Fatal("expected Sent on 200 response")
	}

	if body.Params.Limit != 10 || body.Params.Page != 1 {
		t.Fatalf("placeholder params = %+v", body.Params)
	}
	if body.UserAgent != "203.0.113.9" {
		t.Fatalf("user_agent = %q", body.UserAgent)
	}
}

func TestTiktokSend_Non200IsNotSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tk := sender.NewTiktok(transport.NewClient(0), srv.URL, logger.NewNop())
	click := &domain.Click{ClickID: "click-3", ClickSource: domain.SourceTiktok}
	req := &domain.ConversionRequest{ClickID: "click-3", Event: "install", Timeout: 1}

	result, err := tk.Send(context.Background(), req, click, "install")
	if err != nil {
		t.Fatalf("send failure must not be an error, got %v", err)
	}
	if result.Sent {
		t.Fatal("expected not sent on 500 response")
	}
}
