package aemsearch

// VariantKind names the lexical transform that produced a TermVariant.
type VariantKind int

const (
	VariantOriginal VariantKind = iota
	VariantCamelCase
	VariantKebabCase
	VariantSnakeCase
	VariantSpaceSeparated
	VariantStemmed
)

func (k VariantKind) String() string {
	switch k {
	case VariantOriginal:
		return "Original"
	case VariantCamelCase:
		return "CamelCase"
	case VariantKebabCase:
		return "KebabCase"
	case VariantSnakeCase:
		return "SnakeCase"
	case VariantSpaceSeparated:
		return "SpaceSeparated"
	case VariantStemmed:
		return "Stemmed"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k VariantKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// TermVariant is one lexical rendering of a search term.
type TermVariant struct {
	Text string      `json:"text"`
	Kind VariantKind `json:"kind"`
}
