// MODUL: temporal
// ZWECK: 3D-Positions-Tabelle (t, h, w) fuer gemischte Text/Vision-Sequenzen
// INPUT: TemporalParams oder eine Liste von Segmenten, Options
// OUTPUT: Table mit Arity 3 und Segment-Layout
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: fmt, math, slices (Standard-Library)
// HINWEISE: Text bekommt skalare Positionen (t == h == w), Vision pro Achse
//           ab demselben Start. Text nach Vision beginnt bei max(Achse) + 1.

package positions

import (
	"fmt"
	"math"
	"slices"
)

// TemporalParams beschreibt eine Sequenz aus Text, einem Video-/Bild-Block und Text.
type TemporalParams struct {
	Temporal  int // Anzahl temporaler Patches
	Height    int // Pixel
	Width     int // Pixel
	PatchSize int // Patch-Kante in Pixeln
	PreText   int // Text-Tokens vor dem Vision-Block
	PostText  int // Text-Tokens nach dem Vision-Block
}

// SpatioTemporal baut die 3D-Positions-Tabelle fuer Text -> Vision -> Text.
//
// Beispiel mit PreText=4, Grid 3x2x2 (gemergt), PostText=5:
//
//	text   t/h/w: 0 1 2 3
//	vision t:     4 4 4 4 5 5 5 5 6 6 6 6
//	vision h:     4 4 5 5 4 4 5 5 4 4 5 5
//	vision w:     4 5 4 5 4 5 4 5 4 5 4 5
//	text   t/h/w: 7 8 9 10 11
func SpatioTemporal(p TemporalParams, opts ...Option) (*Table, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	if p.Temporal < 0 {
		return nil, precondition(ErrInvalidDimension, "temporal", p.Temporal, "must not be negative")
	}
	if p.PreText < 0 {
		return nil, precondition(ErrInvalidDimension, "pre_text", p.PreText, "must not be negative")
	}
	if p.PostText < 0 {
		return nil, precondition(ErrInvalidDimension, "post_text", p.PostText, "must not be negative")
	}

	hp, err := patchGrid("height", p.Height, p.PatchSize)
	if err != nil {
		return nil, err
	}
	wp, err := patchGrid("width", p.Width, p.PatchSize)
	if err != nil {
		return nil, err
	}

	// Bei leerem Grid entfaellt die Merge-Pruefung, der Vision-Block hat dann keine Tokens
	m := o.MergeSize
	if hp != 0 && wp != 0 {
		if hp%m != 0 {
			return nil, precondition(ErrOddPatchGrid, "height", p.Height, "%d patches, merge size %d", hp, m)
		}
		if wp%m != 0 {
			return nil, precondition(ErrOddPatchGrid, "width", p.Width, "%d patches, merge size %d", wp, m)
		}
	}

	vision := Vision(p.Temporal, hp/m, wp/m)
	if vision.Tokens() == 0 && p.PostText > 0 {
		return nil, precondition(ErrEmptyVision, "post_text", p.PostText,
			"vision grid %dx%dx%d is empty", vision.Temporal, vision.Height, vision.Width)
	}

	return Sequence([]Segment{Text(p.PreText), vision, Text(p.PostText)}, opts...)
}

// Sequence baut die 3D-Positions-Tabelle fuer beliebig viele Text- und Vision-Segmente.
// Ein laufender Zaehler liefert die Text-Positionen; jedes Vision-Segment startet beim
// Zaehler und setzt ihn danach auf Start + max(Temporal, Height, Width).
func Sequence(segs []Segment, opts ...Option) (*Table, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	tokens, next, err := measure(segs)
	if err != nil {
		return nil, err
	}
	if err := o.checkTokens(tokens); err != nil {
		return nil, err
	}
	size, err := tableSize(tokens, 3)
	if err != nil {
		return nil, err
	}

	pos := make([]uint32, 0, size)
	var cur uint32
	for _, seg := range segs {
		switch seg.Kind {
		case KindText:
			for i := range seg.Length {
				p := cur + uint32(i)
				pos = append(pos, p, p, p)
			}
			cur += uint32(seg.Length)
		case KindVision:
			start := cur
			for t := range seg.Temporal {
				for h := range seg.Height {
					for w := range seg.Width {
						pos = append(pos, start+uint32(t), start+uint32(h), start+uint32(w))
					}
				}
			}
			if seg.Tokens() > 0 {
				cur = start + uint32(max(seg.Temporal, seg.Height, seg.Width))
			}
		}
	}

	if len(pos) != size {
		return nil, integrityError(len(pos), size)
	}
	if uint64(cur) != next {
		return nil, fmt.Errorf("%w: next position %d, expected %d", ErrIntegrity, cur, next)
	}

	return &Table{
		Arity:  3,
		Values: pos,
		layout: slices.Clone(segs),
		next:   cur,
	}, nil
}

// measure prueft alle Segmente und berechnet Token-Anzahl und naechste freie Position.
func measure(segs []Segment) (tokens int, next uint64, err error) {
	emptyVision := -1
	for i, seg := range segs {
		field := fmt.Sprintf("segments[%d]", i)

		var n int
		var advance uint64
		switch seg.Kind {
		case KindText:
			if seg.Length < 0 {
				return 0, 0, precondition(ErrInvalidDimension, field+".length", seg.Length, "must not be negative")
			}
			n = seg.Length
			advance = uint64(n)
		case KindVision:
			for _, axis := range []struct {
				name string
				v    int
			}{{"temporal", seg.Temporal}, {"height", seg.Height}, {"width", seg.Width}} {
				if axis.v < 0 {
					return 0, 0, precondition(ErrInvalidDimension, field+"."+axis.name, axis.v, "must not be negative")
				}
			}

			th, ok := mul(seg.Temporal, seg.Height)
			if ok {
				n, ok = mul(th, seg.Width)
			}
			if !ok {
				return 0, 0, precondition(ErrTooManyTokens, field, seg.Temporal, "%dx%dx%d overflows", seg.Temporal, seg.Height, seg.Width)
			}
			if n > 0 {
				advance = uint64(max(seg.Temporal, seg.Height, seg.Width))
			}
		default:
			return 0, 0, precondition(ErrInvalidDimension, field+".kind", int(seg.Kind), "unknown segment kind")
		}

		if n > 0 && emptyVision >= 0 {
			return 0, 0, precondition(ErrEmptyVision, fmt.Sprintf("segments[%d]", emptyVision), 0,
				"followed by %d tokens in %s", n, field)
		}
		if seg.Kind == KindVision && n == 0 && emptyVision < 0 {
			emptyVision = i
		}

		if tokens > math.MaxInt-n {
			return 0, 0, precondition(ErrTooManyTokens, field, n, "")
		}
		tokens += n

		next += advance
		if next > math.MaxUint32 {
			return 0, 0, precondition(ErrPositionOverflow, field, n, "next position %d", next)
		}
	}
	return tokens, next, nil
}
