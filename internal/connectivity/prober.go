package connectivity

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Prober checks whether the backend is reachable.
type Prober interface {
	Probe(ctx context.Context) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context) error

// Probe implements Prober.
func (f ProberFunc) Probe(ctx context.Context) error { return f(ctx) }

// HTTPProber issues a HEAD request against URL. Any response below 500 counts
// as reachable.
type HTTPProber struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

// Probe implements Prober.
func (p HTTPProber) Probe(ctx context.Context) error {
	timeout := p.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.URL, nil)
	if err != nil {
		return err
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("probe %s: %s", p.URL, resp.Status)
	}
	return nil
}
