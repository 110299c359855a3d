package utils

// TokenSet tracks tokens already counted for a single row.
// Not safe for concurrent use; reset it between rows.
type TokenSet struct {
	seen map[string]struct{}
}

// NewTokenSet creates an empty set
func NewTokenSet() *TokenSet {
	return &TokenSet{seen: make(map[string]struct{})}
}

// Add returns true if the token is new, false if it was already added
func (t *TokenSet) Add(token string) bool {
	if _, exists := t.seen[token]; exists {
		return false
	}
	t.seen[token] = struct{}{}
	return true
}

// Reset empties the set, keeping its allocation
func (t *TokenSet) Reset() {
	clear(t.seen)
}
