// MODUL: routes_positions
// ZWECK: HTTP-Handler fuer /api/positions/spatial, /temporal und /sequence
// INPUT: api.SpatialRequest, api.TemporalRequest, api.SequenceRequest als JSON
// OUTPUT: api.PositionsResponse als JSON
// NEBENEFFEKTE: Logging via slog
// ABHAENGIGKEITEN: gin, api, positions
// HINWEISE: NewResponse und ParseSegments werden auch von der CLI genutzt,
//           damit lokale und entfernte Ausgaben identisch sind.

package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ollama/posids/api"
	"github.com/ollama/posids/positions"
)

// ============================================================================
// Handler
// ============================================================================

// SpatialHandler baut eine 2D-Tabelle (row, col)
func (s *Server) SpatialHandler(c *gin.Context) {
	start := time.Now()

	var req api.SpatialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", errInvalidRequest, err))
		return
	}

	table, err := positions.Spatial(req.Height, req.Width, req.PatchSize, s.options(req.MergeSize)...)
	if err != nil {
		abortWithError(c, err)
		return
	}

	s.respond(c, table, req.Planar, start)
}

// TemporalHandler baut eine 3D-Tabelle fuer Text -> Vision -> Text
func (s *Server) TemporalHandler(c *gin.Context) {
	start := time.Now()

	var req api.TemporalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", errInvalidRequest, err))
		return
	}

	table, err := positions.SpatioTemporal(positions.TemporalParams{
		Temporal:  req.Temporal,
		Height:    req.Height,
		Width:     req.Width,
		PatchSize: req.PatchSize,
		PreText:   req.PreText,
		PostText:  req.PostText,
	}, s.options(req.MergeSize)...)
	if err != nil {
		abortWithError(c, err)
		return
	}

	s.respond(c, table, req.Planar, start)
}

// SequenceHandler baut eine 3D-Tabelle fuer beliebig viele Segmente
func (s *Server) SequenceHandler(c *gin.Context) {
	start := time.Now()

	var req api.SequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", errInvalidRequest, err))
		return
	}

	segs, err := ParseSegments(req.Segments)
	if err != nil {
		abortWithError(c, err)
		return
	}

	table, err := positions.Sequence(segs, s.options(0)...)
	if err != nil {
		abortWithError(c, err)
		return
	}

	s.respond(c, table, req.Planar, start)
}

func (s *Server) options(mergeSize int) []positions.Option {
	opts := []positions.Option{positions.WithMaxTokens(s.maxTokens)}
	if mergeSize != 0 {
		opts = append(opts, positions.WithMergeSize(mergeSize))
	}
	return opts
}

func (s *Server) respond(c *gin.Context, table *positions.Table, planar int, start time.Time) {
	resp, err := NewResponse(table, planar)
	if err != nil {
		abortWithError(c, err)
		return
	}
	resp.TotalDuration = time.Since(start)

	slog.Debug("positions built", "request_id", c.GetString(requestIDKey),
		"arity", table.Arity, "tokens", resp.Tokens, "duration", resp.TotalDuration)

	c.JSON(http.StatusOK, resp)
}

// ============================================================================
// Konvertierung zwischen api und positions
// ============================================================================

// NewResponse wandelt eine Tabelle in eine api.PositionsResponse um.
// planar > 0 fuegt das achsen-weise Layout mit so vielen Sektionen hinzu.
func NewResponse(table *positions.Table, planar int) (api.PositionsResponse, error) {
	resp := api.PositionsResponse{
		Arity:     table.Arity,
		Positions: table.Values,
		Next:      table.Next(),
		Metrics:   api.Metrics{Tokens: table.Len()},
	}
	if resp.Positions == nil {
		resp.Positions = []uint32{}
	}

	if planar > 0 {
		p, err := table.Planar(planar)
		if err != nil {
			return api.PositionsResponse{}, err
		}
		resp.Planar = p
	}

	for _, seg := range table.Layout() {
		resp.Segments = append(resp.Segments, api.Segment{
			Kind:     seg.Kind.String(),
			Length:   seg.Length,
			Temporal: seg.Temporal,
			Height:   seg.Height,
			Width:    seg.Width,
		})
	}

	return resp, nil
}

// ParseSegments wandelt api.Segments in positions.Segments um.
func ParseSegments(in []api.Segment) ([]positions.Segment, error) {
	out := make([]positions.Segment, 0, len(in))
	for i, seg := range in {
		switch seg.Kind {
		case "text":
			out = append(out, positions.Text(seg.Length))
		case "vision":
			out = append(out, positions.Vision(seg.Temporal, seg.Height, seg.Width))
		default:
			return nil, fmt.Errorf("%w: segments[%d].kind %q, expected \"text\" or \"vision\"", errInvalidRequest, i, seg.Kind)
		}
	}
	return out, nil
}
