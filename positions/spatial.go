// MODUL: spatial
// ZWECK: 2D-Positions-Tabelle (row, col) fuer Vision-Patches
// INPUT: Pixel-Hoehe/-Breite, Patch-Groesse, Options (Merge-Groesse)
// OUTPUT: Table mit Arity 2, Reihenfolge entspricht der Merge-Traversierung
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: math (Standard-Library)
// HINWEISE: Gleiche Traversierung wie computePositions im qwen25vl Vision-Modell

package positions

import "math"

// Spatial baut die 2D-Positions-Tabelle fuer ein h x w Bild mit Patch-Kante patchSize.
//
// Das Patch-Grid hp x wp wird in Bloecken der Merge-Groesse durchlaufen (Block-Zeilen
// aussen, Block-Spalten innen), innerhalb eines Blocks zeilenweise. Bei Merge-Groesse 2
// ergibt das pro Block (y,x), (y,x+1), (y+1,x), (y+1,x+1), also genau die Reihenfolge der
// Tokens nach dem Zusammenfassen von 2x2 Patches.
func Spatial(h, w, patchSize int, opts ...Option) (*Table, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	hp, err := patchGrid("height", h, patchSize)
	if err != nil {
		return nil, err
	}
	wp, err := patchGrid("width", w, patchSize)
	if err != nil {
		return nil, err
	}

	// Ein leeres Grid ist unabhaengig von der anderen Achse gueltig
	if hp == 0 || wp == 0 {
		return &Table{Arity: 2, Values: []uint32{}}, nil
	}

	m := o.MergeSize
	if hp%m != 0 {
		return nil, precondition(ErrOddPatchGrid, "height", h, "%d patches, merge size %d", hp, m)
	}
	if wp%m != 0 {
		return nil, precondition(ErrOddPatchGrid, "width", w, "%d patches, merge size %d", wp, m)
	}

	if uint64(max(hp, wp)) > math.MaxUint32+1 {
		return nil, precondition(ErrPositionOverflow, "patches", max(hp, wp), "")
	}

	tokens, ok := mul(hp, wp)
	if !ok {
		return nil, precondition(ErrTooManyTokens, "patches", hp, "%d x %d overflows", hp, wp)
	}
	if err := o.checkTokens(tokens); err != nil {
		return nil, err
	}
	size, err := tableSize(tokens, 2)
	if err != nil {
		return nil, err
	}

	pos := make([]uint32, size)
	var ptr int
	for y := 0; y < hp; y += m {
		for x := 0; x < wp; x += m {
			for dy := range m {
				for dx := range m {
					pos[ptr*2] = uint32(y + dy)
					pos[ptr*2+1] = uint32(x + dx)
					ptr++
				}
			}
		}
	}

	if ptr != tokens {
		return nil, integrityError(ptr*2, size)
	}

	return &Table{Arity: 2, Values: pos}, nil
}

// patchGrid teilt eine Pixel-Dimension durch die Patch-Groesse.
func patchGrid(field string, n, patchSize int) (int, error) {
	if patchSize <= 0 {
		return 0, precondition(ErrInvalidDimension, "patch_size", patchSize, "must be positive")
	}
	if n < 0 {
		return 0, precondition(ErrInvalidDimension, field, n, "must not be negative")
	}
	if n%patchSize != 0 {
		return 0, precondition(ErrNotDivisible, field, n, "patch size %d", patchSize)
	}
	return n / patchSize, nil
}

// mul multipliziert zwei nicht-negative ints und meldet Ueberlauf.
func mul(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}
