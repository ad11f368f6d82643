package runbook

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
)

// Pinger issues the HTTP GETs ordered via Executor.Ping.
type Pinger interface {
	Ping(url string, headers map[string]string) error
}

// HTTPPinger is the production Pinger.
type HTTPPinger struct {
	client *http.Client
}

// NewHTTPPinger returns a Pinger on the given client, or on
// http.DefaultClient when client is nil.
func NewHTTPPinger(client *http.Client) *HTTPPinger {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPPinger{client: client}
}

func (p *HTTPPinger) Ping(url string, headers map[string]string) error {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Add(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Only the status matters; the body is drained and dropped.
	if _, err := io.Copy(ioutil.Discard, resp.Body); err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("ping %s: unexpected status %s", url, resp.Status)
	}

	return nil
}
