// MODUL: errors
// ZWECK: Fehler-Codes und Error-Handler fuer die Positions API
// INPUT: Fehler aus dem positions-Paket oder dem Request-Binding
// OUTPUT: JSON-formatierte Fehler-Responses {"error", "code"}
// NEBENEFFEKTE: HTTP-Responses schreiben
// ABHAENGIGKEITEN: errors, net/http, gin, positions
// HINWEISE: Das Antwortformat ist kompatibel zu api.StatusError, Codes aus api.ErrorCode

package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ollama/posids/api"
	"github.com/ollama/posids/positions"
)

// ============================================================================
// Fehler-Definitionen
// ============================================================================

// errInvalidRequest wird bei nicht lesbarem JSON oder unbekannten Feldwerten geworfen
var errInvalidRequest = errors.New("invalid request")

// ============================================================================
// Fehler-Code Mapping
// ============================================================================

type errorCode struct {
	code   api.ErrorCode
	status int
}

// errorCodes mappt Fehler auf API-Codes und HTTP-Status.
// Die Reihenfolge ist relevant, der erste Treffer via errors.Is gewinnt.
var errorCodes = []struct {
	err error
	errorCode
}{
	{errInvalidRequest, errorCode{api.CodeInvalidRequest, http.StatusBadRequest}},
	{positions.ErrOddPatchGrid, errorCode{api.CodeOddPatchGrid, http.StatusBadRequest}},
	{positions.ErrNotDivisible, errorCode{api.CodeNotDivisible, http.StatusBadRequest}},
	{positions.ErrEmptyVision, errorCode{api.CodeEmptyVision, http.StatusBadRequest}},
	{positions.ErrInvalidDimension, errorCode{api.CodeInvalidDimension, http.StatusBadRequest}},
	{positions.ErrPositionOverflow, errorCode{api.CodePositionOverflow, http.StatusBadRequest}},
	{positions.ErrTooManyTokens, errorCode{api.CodeTooManyTokens, http.StatusRequestEntityTooLarge}},
	{positions.ErrIntegrity, errorCode{api.CodeIntegrity, http.StatusInternalServerError}},
}

// lookupError gibt Code und Status fuer einen Fehler zurueck.
func lookupError(err error) errorCode {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.errorCode
		}
	}
	return errorCode{api.CodeInternal, http.StatusInternalServerError}
}

// ============================================================================
// HTTP Response Helper
// ============================================================================

// abortWithError schreibt den Fehler als JSON und bricht die Handler-Kette ab.
func abortWithError(c *gin.Context, err error) {
	ec := lookupError(err)
	if ec.status >= http.StatusInternalServerError {
		slog.Error("positions request failed", "request_id", c.GetString(requestIDKey), "error", err)
	}

	c.AbortWithStatusJSON(ec.status, gin.H{
		"error": err.Error(),
		"code":  ec.code,
	})
}
