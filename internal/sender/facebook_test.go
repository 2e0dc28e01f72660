package sender_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ErikRoss/ConversionsManager/internal/domain"
	"github.com/ErikRoss/ConversionsManager/internal/logger"
	"github.com/ErikRoss/ConversionsManager/internal/sender"
	"github.com/ErikRoss/ConversionsManager/internal/transport"
)

func testClick() *domain.Click {
	return &domain.Click{
		ClickID:     "click-1",
		Key:         "key-1",
		Initiator:   "203.0.113.7",
		ClickSource: domain.SourceFacebook,
		Domain:      "https://landing.example.com",
		RMA:         "123456789",
		ULB:         42,
		Fbclid:      "fb-id",
	}
}

func testRequest() *domain.ConversionRequest {
	return &domain.ConversionRequest{ClickID: "click-1", Event: "install", Timeout: 1}
}

func newFacebook(t *testing.T, endpoint string) *sender.Facebook {
	t.Helper()

	fb, err := sender.NewFacebook(transport.NewClient(0), endpoint, logger.NewNop())
	if err != nil {
		t.Fatalf("NewFacebook: %v", err)
	}
	return fb
}

func TestFacebookBuildParams(t *testing.T) {
	fb := newFacebook(t, "https://www.facebook.com/tr/")
	click := testClick()

	params, ok := fb.BuildParams(click, "install")
	if !ok {
		t.Fatal("expected install to be mapped")
	}

	if got := params.Get("ev"); got != "Lead" {
		t.Fatalf("ev = %q, want Lead", got)
	}
	if got := params.Get("id"); got != click.RMA {
		t.Fatalf("id = %q, want %q", got, click.RMA)
	}
	if got := params.Get("cd[order_id]"); got != click.ClickID {
		t.Fatalf("cd[order_id] = %q, want %q", got, click.ClickID)
	}

	// external_id is the digest of the fbclid plus the funnel weight.
	want := sha256.Sum256([]byte("fb-id3"))
	if got := params.Get("ud[external_id]"); got != hex.EncodeToString(want[:]) {
		t.Fatalf("ud[external_id] = %q, want digest of fbclid+weight", got)
	}

	ts := params.Get("ts")
	if ts == "" || params.Get("it") != ts {
		t.Fatalf("ts/it mismatch: ts=%q it=%q", ts, params.Get("it"))
	}
	if got := params.Get("fbc"); got != "fb.1."+ts+".fb-id" {
		t.Fatalf("fbc = %q", got)
	}
	if got := params.Get("fbp"); got != "fb.1."+ts+".42" {
		t.Fatalf("fbp = %q", got)
	}
}

func TestFacebookBuildParams_FallsBackToClickID(t *testing.T) {
	fb := newFacebook(t, "https://www.facebook.com/tr/")
	click := testClick()
	click.Fbclid = ""

	params, ok := fb.BuildParams(click, "dep")
	if !ok {
		t.Fatal("expected dep to be mapped")
	}

	want := sha256.Sum256([]byte("click-15"))
	if got := params.Get("ud[external_id]"); got != hex.EncodeToString(want[:]) {
		t.Fatalf("ud[external_id] = %q, want digest of click_id+weight", got)
	}
}

func TestFacebookSend_Success(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	fb := newFacebook(t, srv.URL)

	result, err := fb.Send(context.Background(), testRequest(), testClick(), "install")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Sent {
		t.Fatal("expected Sent on 200 response")
	}

	// Bracketed parameter names go over the wire unescaped.
	if !strings.Contains(result.URL, "cd[content_ids]=") {
		t.Fatalf("expected literal brackets in URL, got %q", result.URL)
	}
	if !strings.Contains(gotQuery, "ev=Lead") {
		t.Fatalf("expected pixel event in query, got %q", gotQuery)
	}
}

func TestFacebookSend_Non200IsNotSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	fb := newFacebook(t, srv.URL)

	result, err := fb.Send(context.Background(), testRequest(), testClick(), "install")
	if err != nil {
		t.Fatalf("send failure must not be an error, got %v", err)
	}
	if result.Sent {
		t.Fatal("expected not sent on 400 response")
	}
	if result.URL == "" {
		t.Fatal("expected resolved URL even on failure")
	}
}

func TestFacebookSend_UnreachableIsNotSent(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	fb := newFacebook(t, srv.URL)

	result, err := fb.Send(context.Background(), testRequest(), testClick(), "install")
	if err != nil {
		t.Fatalf("transport failure must not be an error, got %v", err)
	}
	if result.Sent {
		t.Fatal("expected not sent when endpoint is unreachable")
	}
}

func TestFacebookSend_UnmappedEvent(t *testing.T) {
	fb := newFacebook(t, "https://www.facebook.com/tr/")

	_, err := fb.Send(context.Background(), testRequest(), testClick(), "custom_event")
	if !errors.Is(err, sender.ErrEventNotMapped) {
		t.Fatalf("expected ErrEventNotMapped, got %v", err)
	}
}
