package graph

// Recognized node kinds. The set is open: any other kind string is accepted
// by validation and rendered with the generic fallback style. Adding a new
// visual kind never requires touching layout code.
const (
	KindProcess  = "process"
	KindIO       = "io"
	KindDecision = "decision"
	KindGeneric  = "generic"
)

// recognizedKinds is the set of kinds with dedicated visual styles.
var recognizedKinds = map[string]bool{
	KindProcess:  true,
	KindIO:       true,
	KindDecision: true,
	KindGeneric:  true,
}

// NormalizeKind maps a raw kind string onto the recognized set.
// Unknown or empty kinds fall back to KindGeneric.
func NormalizeKind(kind string) string {
	if recognizedKinds[kind] {
		return kind
	}
	return KindGeneric
}

// IsRecognizedKind reports whether kind has a dedicated visual style.
func IsRecognizedKind(kind string) bool { return recognizedKinds[kind] }

// Node is a single diagram element.
//
// The zero value is not usable - ID must be non-empty before adding to a
// Graph. Kind may be any string; unrecognized kinds are kept verbatim and
// styled generically at render time.
type Node struct {
	ID    string // Unique identifier
	Kind  string // Display kind ("io", "process", "decision", ...)
	Label string // Display text (defaults to ID)
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed relationship between two nodes, with an optional label.
type Edge struct {
	From  string // Source node ID
	To    string // Target node ID
	Label string // Optional connector annotation
}
