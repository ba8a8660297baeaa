package publisher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hotelgram/models"
)

func TestPublishSendsPayload(t *testing.T) {
	var received models.PublishPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, srv.Client())
	payload := &models.PublishPayload{
		HotelName: "Sunset Bay",
		Caption:   "Hook!\n\nBody\n\n#bali",
		Location:  "Bali",
		Price:     "500000",
	}

	if err := wh.Publish(context.Background(), payload); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if received.HotelName != "Sunset Bay" || received.Price != "500000" {
		t.Fatalf("payload mangled: %+v", received)
	}
}

func TestPublishNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("queued"))
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, srv.Client())
	err := wh.Publish(context.Background(), &models.PublishPayload{})
	if err == nil || !strings.Contains(err.Error(), "202") {
		t.Fatalf("only 200 is success, got err=%v", err)
	}
}

func TestPublishUnconfigured(t *testing.T) {
	wh := NewWebhook("", nil)
	if wh.Configured() {
		t.Fatal("empty URL should report unconfigured")
	}
	if err := wh.Publish(context.Background(), &models.PublishPayload{}); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
