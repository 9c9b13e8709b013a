// MODUL: table
// ZWECK: Positions-Tabelle und Segment-Typen fuer mRoPE
// INPUT: Flache uint32-Werte, Tupel-Groesse, Segment-Layout
// OUTPUT: Tupel-Zugriff, Segment-Slicing, Planar-Layout, Byte-Stream
// NEBENEFFEKTE: WriteTo schreibt in einen io.Writer
// ABHAENGIGKEITEN: encoding/binary, io, slices (Standard-Library)
// HINWEISE: Tabellen sind nach Konstruktion unveraenderlich, Zugriffe liefern Kopien

package positions

import (
	"encoding/binary"
	"fmt"
	"io"
	"slices"
)

// ============================================================================
// Segment - zusammenhaengender Token-Bereich mit einer Adressierungsregel
// ============================================================================

// Kind unterscheidet Text- und Vision-Segmente.
type Kind int

const (
	KindText Kind = iota
	KindVision
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindVision:
		return "vision"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Segment beschreibt einen Bereich der Token-Sequenz.
// Text nutzt Length, Vision nutzt Temporal/Height/Width in gemergten Tokens.
type Segment struct {
	Kind     Kind
	Length   int
	Temporal int
	Height   int
	Width    int
}

// Text erstellt ein Text-Segment mit n Tokens.
func Text(n int) Segment {
	return Segment{Kind: KindText, Length: n}
}

// Vision erstellt ein Vision-Segment mit t*h*w Tokens.
func Vision(t, h, w int) Segment {
	return Segment{Kind: KindVision, Temporal: t, Height: h, Width: w}
}

// Tokens gibt die Anzahl Tokens des Segments zurueck.
func (s Segment) Tokens() int {
	if s.Kind == KindVision {
		return s.Temporal * s.Height * s.Width
	}
	return s.Length
}

// ============================================================================
// Table
// ============================================================================

// Table ist eine flache Positions-Tabelle: ein Tupel der Groesse Arity pro Token,
// in derselben Reihenfolge wie die Tokens in der Eingabe-Sequenz.
type Table struct {
	Arity  int
	Values []uint32

	layout []Segment
	next   uint32
}

// Len gibt die Anzahl Tokens zurueck.
func (t *Table) Len() int {
	if t.Arity == 0 {
		return 0
	}
	return len(t.Values) / t.Arity
}

// Tuple gibt das Positions-Tupel von Token i zurueck.
func (t *Table) Tuple(i int) []uint32 {
	return slices.Clone(t.Values[i*t.Arity : (i+1)*t.Arity])
}

// Layout gibt die Segmente zurueck, aus denen die Tabelle gebaut wurde.
// Tabellen aus Spatial haben kein Layout.
func (t *Table) Layout() []Segment {
	return slices.Clone(t.layout)
}

// Next gibt die naechste freie Text-Position nach dem letzten Token zurueck.
// Folgende Decode-Tokens setzen dort mit skalaren Positionen fort.
func (t *Table) Next() uint32 {
	return t.next
}

// Slice gibt die Tokens [start, end) als eigene Tabelle zurueck.
func (t *Table) Slice(start, end int) *Table {
	return &Table{
		Arity:  t.Arity,
		Values: slices.Clone(t.Values[start*t.Arity : end*t.Arity]),
	}
}

// Segments zerlegt die Tabelle entlang ihres Layouts.
// Jede Teil-Tabelle traegt genau ein Segment als Layout.
func (t *Table) Segments() []*Table {
	if len(t.layout) == 0 {
		return []*Table{t}
	}

	parts := make([]*Table, 0, len(t.layout))
	var start int
	for _, seg := range t.layout {
		end := start + seg.Tokens()
		part := t.Slice(start, end)
		part.layout = []Segment{seg}
		parts = append(parts, part)
		start = end
	}
	return parts
}

// ============================================================================
// Export-Formate
// ============================================================================

// Planar gibt die Tabelle achsen-weise aus: [a0..aN, b0..bN, ...].
// Ueberzaehlige Sektionen werden mit Nullen gefuellt (ggml mRoPE erwartet 4 Sektionen).
func (t *Table) Planar(sections int) ([]uint32, error) {
	if sections < t.Arity {
		return nil, precondition(ErrInvalidDimension, "sections", sections, "table arity is %d", t.Arity)
	}

	n := t.Len()
	out := make([]uint32, n*sections)
	for i := range n {
		for axis := range t.Arity {
			out[axis*n+i] = t.Values[i*t.Arity+axis]
		}
	}
	return out, nil
}

// Bytes kodiert die Werte als little-endian uint32 fuer den Upload auf das Device.
func (t *Table) Bytes() []byte {
	b := make([]byte, 0, len(t.Values)*4)
	for _, v := range t.Values {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	return b
}

// WriteTo schreibt Bytes() in w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(t.Bytes())
	return int64(n), err
}
