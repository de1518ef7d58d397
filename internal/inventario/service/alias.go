package service

// AliasTable maps normalized informal spellings of brands/products to the
// canonical normalized form used for matching. Built once at startup and
// never mutated; lookup is exact-match only.
type AliasTable map[string]string

// DefaultAliases covers the misspellings seen in real customer chats.
func DefaultAliases() AliasTable {
	return AliasTable{
		"bionik":          "bionic",
		"arena bionik":    "arena bionic",
		"arena vionic":    "arena bionic",
		"arena para gato": "arena",
		"wiskas":          "whiskas",
		"tidy cat":        "tidy cats",
	}
}

// Canonicalize normalizes the input and resolves it through the alias
// table; unknown spellings pass through as their normalized form.
func (t AliasTable) Canonicalize(s string) string {
	n := Normalize(s)
	if canon, ok := t[n]; ok {
		return canon
	}
	return n
}
