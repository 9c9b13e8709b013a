// Package api - Typen fuer die posids REST API
// Enthaelt: StatusError, Metrics, Spatial-/Temporal-/Sequence-Requests, PositionsResponse
package api

import (
	"fmt"
	"io"
	"time"
)

// ErrorCode ist der maschinenlesbare Fehler-Code einer Antwort
type ErrorCode string

const (
	CodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	CodeOddPatchGrid     ErrorCode = "ODD_PATCH_GRID"
	CodeNotDivisible     ErrorCode = "NOT_DIVISIBLE"
	CodeEmptyVision      ErrorCode = "EMPTY_VISION"
	CodeInvalidDimension ErrorCode = "INVALID_DIMENSION"
	CodePositionOverflow ErrorCode = "POSITION_OVERFLOW"
	CodeTooManyTokens    ErrorCode = "TOO_MANY_TOKENS"
	CodeIntegrity        ErrorCode = "INTEGRITY_ERROR"
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// Sentinels fuer errors.Is, verglichen wird nur der Code:
//
//	if errors.Is(err, api.ErrTooManyTokens) { ... }
var (
	ErrInvalidRequest   = StatusError{Code: CodeInvalidRequest}
	ErrOddPatchGrid     = StatusError{Code: CodeOddPatchGrid}
	ErrNotDivisible     = StatusError{Code: CodeNotDivisible}
	ErrEmptyVision      = StatusError{Code: CodeEmptyVision}
	ErrInvalidDimension = StatusError{Code: CodeInvalidDimension}
	ErrPositionOverflow = StatusError{Code: CodePositionOverflow}
	ErrTooManyTokens    = StatusError{Code: CodeTooManyTokens}
	ErrIntegrity        = StatusError{Code: CodeIntegrity}
)

// StatusError is an error with an HTTP status code and message.
type StatusError struct {
	StatusCode   int
	Status       string
	ErrorMessage string    `json:"error"`
	Code         ErrorCode `json:"code,omitempty"`
}

// Is vergleicht die Codes, damit errors.Is mit den Sentinels oben funktioniert.
func (e StatusError) Is(target error) bool {
	t, ok := target.(StatusError)
	return ok && t.Code != "" && t.Code == e.Code
}

func (e StatusError) Error() string {
	switch {
	case e.Status != "" && e.ErrorMessage != "":
		return fmt.Sprintf("%s: %s", e.Status, e.ErrorMessage)
	case e.Status != "":
		return e.Status
	case e.ErrorMessage != "":
		return e.ErrorMessage
	default:
		// this should not happen
		return "something went wrong, please see the posids server logs for details"
	}
}

// Metrics enthaelt Laufzeit-Metriken einer Anfrage
type Metrics struct {
	TotalDuration time.Duration `json:"total_duration,omitempty"`
	Tokens        int           `json:"tokens"`
}

// Summary schreibt die Metriken menschenlesbar nach w
func (m *Metrics) Summary(w io.Writer) {
	if m.TotalDuration > 0 {
		fmt.Fprintf(w, "total duration: %v\n", m.TotalDuration)
	}
	fmt.Fprintf(w, "tokens:         %d\n", m.Tokens)
}

// SpatialRequest fordert eine 2D-Positions-Tabelle (row, col) an.
type SpatialRequest struct {
	Height    int `json:"height"`
	Width     int `json:"width"`
	PatchSize int `json:"patch_size"`

	// MergeSize ist die Kantenlaenge des Spatial-Merge, 0 = Default (2)
	MergeSize int `json:"merge_size,omitempty"`

	// Planar > 0 liefert zusaetzlich das achsen-weise Layout mit so vielen Sektionen
	Planar int `json:"planar,omitempty"`
}

// TemporalRequest fordert eine 3D-Positions-Tabelle fuer Text -> Vision -> Text an.
type TemporalRequest struct {
	Temporal  int `json:"temporal"`
	Height    int `json:"height"`
	Width     int `json:"width"`
	PatchSize int `json:"patch_size"`
	MergeSize int `json:"merge_size,omitempty"`
	PreText   int `json:"pre_text,omitempty"`
	PostText  int `json:"post_text,omitempty"`
	Planar    int `json:"planar,omitempty"`
}

// Segment beschreibt ein Text- oder Vision-Segment einer Sequenz.
// Vision-Dimensionen sind in gemergten Tokens angegeben.
type Segment struct {
	Kind     string `json:"kind"`
	Length   int    `json:"length,omitempty"`
	Temporal int    `json:"temporal,omitempty"`
	Height   int    `json:"height,omitempty"`
	Width    int    `json:"width,omitempty"`
}

// SequenceRequest fordert eine 3D-Positions-Tabelle fuer beliebige Segmente an.
type SequenceRequest struct {
	Segments []Segment `json:"segments"`
	Planar   int       `json:"planar,omitempty"`
}

// PositionsResponse ist die Antwort aller Positions-Endpoints.
type PositionsResponse struct {
	Arity     int       `json:"arity"`
	Positions []uint32  `json:"positions"`
	Planar    []uint32  `json:"planar,omitempty"`
	Next      uint32    `json:"next,omitempty"`
	Segments  []Segment `json:"segments,omitempty"`

	Metrics
}
