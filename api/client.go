// Package api - Hauptmodul des posids API-Clients.
// Dieses Modul enthaelt die Client-Struktur, den Transport und das Fehler-Parsing.
// API-Methoden sind in client_api.go.
//
// Package api implements the client-side API for code wishing to interact
// with the posids service. The methods of the [Client] type correspond to
// the REST endpoints registered by the server package.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"

	"github.com/ollama/posids/envconfig"
	"github.com/ollama/posids/version"
)

// maxErrorBody begrenzt wie viel eines Fehler-Bodys gelesen wird
const maxErrorBody = 64 << 10

// Client encapsulates client state for interacting with the posids
// service. Use [ClientFromEnvironment] to create new Clients.
type Client struct {
	base *url.URL
	http *http.Client
}

// ClientFromEnvironment creates a new [Client] for the server named by
// POSIDS_HOST (<scheme>://<host>:<port>). Without it the client talks to
// 127.0.0.1:11435.
func ClientFromEnvironment() (*Client, error) {
	return NewClient(envconfig.Host(), http.DefaultClient), nil
}

// NewClient creates a [Client] for base using the given http.Client.
func NewClient(base *url.URL, http *http.Client) *Client {
	return &Client{
		base: base,
		http: http,
	}
}

func userAgent() string {
	return fmt.Sprintf("posids/%s (%s %s) Go/%s", version.Version, runtime.GOARCH, runtime.GOOS, runtime.Version())
}

// post sendet reqData als JSON und dekodiert die Antwort nach respData
func (c *Client) post(ctx context.Context, path string, reqData, respData any) error {
	data, err := json.Marshal(reqData)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	return c.send(ctx, http.MethodPost, path, bytes.NewReader(data), respData)
}

// send fuehrt die Anfrage aus. Status >= 400 wird zu einem StatusError,
// respData == nil verwirft den Body.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, respData any) error {
	request, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return err
	}

	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", userAgent())

	resp, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return parseStatusError(resp)
	}

	if respData == nil || method == http.MethodHead {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respData); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// parseStatusError liest den Fehler-Body {"error", "code"} des Servers.
// Andere Bodies (z.B. von Proxies) werden als Nachricht ohne Code uebernommen.
func parseStatusError(resp *http.Response) error {
	se := StatusError{StatusCode: resp.StatusCode, Status: resp.Status}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		se.ErrorMessage = err.Error()
		return se
	}

	var payload struct {
		Error string    `json:"error"`
		Code  ErrorCode `json:"code"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		se.ErrorMessage = payload.Error
		se.Code = payload.Code
		return se
	}

	se.ErrorMessage = strings.TrimSpace(string(body))
	return se
}
