// MODUL: options
// ZWECK: Functional Options fuer die Positions-Builder
// INPUT: Merge-Groesse, Token-Limit
// OUTPUT: Options Struct
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: Keine
// HINWEISE: Merge-Groesse war frueher fest 2, jetzt konfigurierbar

package positions

// DefaultMergeSize ist die Kantenlaenge des Spatial-Merge (2x2 Patches -> 1 Token).
const DefaultMergeSize = 2

// maxValues begrenzt die Anzahl uint32-Werte einer Tabelle, unabhaengig von MaxTokens.
// Tabellen werden mit uint32 indiziert hochgeladen.
const maxValues = 1 << 32

// Options enthaelt die Konfiguration fuer Spatial, SpatioTemporal und Sequence.
type Options struct {
	MergeSize int // Kantenlaenge des Merge-Blocks
	MaxTokens int // 0 = unbegrenzt
}

// Option ist eine funktionale Option fuer Options.
type Option func(*Options)

// DefaultOptions gibt die Standard-Konfiguration zurueck (2x2 Merge, kein Limit).
func DefaultOptions() Options {
	return Options{
		MergeSize: DefaultMergeSize,
	}
}

// WithMergeSize setzt die Kantenlaenge des Spatial-Merge.
// Werte <= 0 werden von Validate abgelehnt.
func WithMergeSize(n int) Option {
	return func(o *Options) {
		o.MergeSize = n
	}
}

// WithMaxTokens begrenzt die Anzahl Tokens pro Tabelle. 0 deaktiviert das Limit.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.MaxTokens = n
		}
	}
}

func newOptions(opts ...Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o, o.Validate()
}

// Validate prueft ob die Options gueltig sind.
func (o Options) Validate() error {
	if o.MergeSize <= 0 {
		return precondition(ErrInvalidDimension, "merge_size", o.MergeSize, "must be positive")
	}
	return nil
}

func (o Options) checkTokens(n int) error {
	if o.MaxTokens > 0 && n > o.MaxTokens {
		return precondition(ErrTooManyTokens, "tokens", n, "limit is %d", o.MaxTokens)
	}
	return nil
}

// tableSize gibt die Anzahl Werte fuer tokens Tupel der Groesse arity zurueck.
func tableSize(tokens, arity int) (int, error) {
	size, ok := mul(tokens, arity)
	if !ok || uint64(size) > maxValues {
		return 0, precondition(ErrTooManyTokens, "tokens", tokens, "table of arity %d exceeds %d values", arity, uint64(maxValues))
	}
	return size, nil
}
