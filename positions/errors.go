// MODUL: errors
// ZWECK: Fehler-Definitionen fuer die Positions-Tabellen
// INPUT: Feldname, Wert, Grund
// OUTPUT: Sentinel-Fehler und PreconditionError
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: errors, fmt (Standard-Library)
// HINWEISE: PreconditionError wrappt immer einen Sentinel, Pruefung via errors.Is

package positions

import (
	"errors"
	"fmt"
)

// ============================================================================
// Sentinel-Fehler
// ============================================================================

var (
	// ErrInvalidDimension wird bei negativen Dimensionen oder Patch-/Merge-Groesse <= 0 zurueckgegeben
	ErrInvalidDimension = errors.New("positions: invalid dimension")

	// ErrNotDivisible wird zurueckgegeben wenn eine Pixel-Dimension kein Vielfaches der Patch-Groesse ist
	ErrNotDivisible = errors.New("positions: dimension not divisible by patch size")

	// ErrOddPatchGrid wird zurueckgegeben wenn das Patch-Grid kein Vielfaches der Merge-Groesse ist
	ErrOddPatchGrid = errors.New("positions: patch grid not a multiple of merge size")

	// ErrEmptyVision wird zurueckgegeben wenn ein leerer Vision-Block von weiteren Tokens gefolgt wird
	ErrEmptyVision = errors.New("positions: zero-length vision axis followed by tokens")

	// ErrPositionOverflow wird zurueckgegeben wenn eine Position nicht in uint32 passt
	ErrPositionOverflow = errors.New("positions: position exceeds uint32 range")

	// ErrTooManyTokens wird zurueckgegeben wenn die Token-Anzahl das Limit ueberschreitet
	ErrTooManyTokens = errors.New("positions: token count exceeds limit")

	// ErrIntegrity signalisiert einen internen Logikfehler (Token-Anzahl != erwartete Laenge)
	ErrIntegrity = errors.New("positions: internal integrity violation")
)

// ============================================================================
// PreconditionError
// ============================================================================

// PreconditionError beschreibt welche Vorbedingung fuer welches Feld verletzt wurde.
type PreconditionError struct {
	Field  string // z.B. "height", "patch_size", "segments[2]"
	Value  int
	Reason string
	Err    error // einer der Sentinel-Fehler oben
}

func (e *PreconditionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v: %s=%d", e.Err, e.Field, e.Value)
	}
	return fmt.Sprintf("%v: %s=%d (%s)", e.Err, e.Field, e.Value, e.Reason)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

func precondition(err error, field string, value int, format string, args ...any) *PreconditionError {
	return &PreconditionError{
		Field:  field,
		Value:  value,
		Reason: fmt.Sprintf(format, args...),
		Err:    err,
	}
}

// integrityError meldet eine Abweichung zwischen geschriebenen und erwarteten Werten.
func integrityError(written, expected int) error {
	return fmt.Errorf("%w: wrote %d values, expected %d", ErrIntegrity, written, expected)
}
