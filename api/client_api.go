// Package api - API-Methoden des Clients.
// Dieses Modul enthaelt alle Positions- und Status-Methoden.

package api

import (
	"context"
	"net/http"
)

// Spatial builds a 2-D (row, col) position table on the server.
func (c *Client) Spatial(ctx context.Context, req *SpatialRequest) (*PositionsResponse, error) {
	var resp PositionsResponse
	if err := c.post(ctx, "/api/positions/spatial", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Temporal builds a 3-D (t, h, w) position table for text, one vision block and text.
func (c *Client) Temporal(ctx context.Context, req *TemporalRequest) (*PositionsResponse, error) {
	var resp PositionsResponse
	if err := c.post(ctx, "/api/positions/temporal", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Sequence builds a 3-D position table for an arbitrary list of segments.
func (c *Client) Sequence(ctx context.Context, req *SequenceRequest) (*PositionsResponse, error) {
	var resp PositionsResponse
	if err := c.post(ctx, "/api/positions/sequence", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Heartbeat checks if the server has started and is responsive; if yes, it
// returns nil, otherwise an error.
func (c *Client) Heartbeat(ctx context.Context) error {
	if err := c.send(ctx, http.MethodHead, "/", nil, nil); err != nil {
		return err
	}
	return nil
}

// Version returns the posids server version as a string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var version struct {
		Version string `json:"version"`
	}

	if err := c.send(ctx, http.MethodGet, "/api/version", nil, &version); err != nil {
		return "", err
	}

	return version.Version, nil
}
