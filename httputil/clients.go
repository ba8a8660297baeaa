package httputil

import (
	"net/http"
	"time"
)

// Clients holds the shared HTTP clients for the external collaborators. Each
// call site gets a bounded timeout; extraction is the slowest (the service
// renders and scrolls the target page before extracting).
type Clients struct {
	Extraction *http.Client
	Generation *http.Client
	Delivery   *http.Client
	Media      *http.Client
}

func NewClients() *Clients {
	return &Clients{
		Extraction: &http.Client{Timeout: 120 * time.Second},
		Generation: &http.Client{Timeout: 60 * time.Second},
		Delivery:   &http.Client{Timeout: 30 * time.Second},
		Media:      &http.Client{Timeout: 25 * time.Second},
	}
}
