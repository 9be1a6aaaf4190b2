package domain

// MaxIdempotencyKeyLength bounds storage for client-supplied tokens.
const MaxIdempotencyKeyLength = 50

// IdempotencyKey wraps a client-supplied token scoping one logical write.
// The raw string is the key: no normalization, no hashing.
type IdempotencyKey struct {
	value string
}

// ParseIdempotencyKey validates raw and wraps it. An IdempotencyKey never
// holds an invalid value; construction fails instead.
func ParseIdempotencyKey(raw string) (IdempotencyKey, error) {
	if raw == "" {
		return IdempotencyKey{}, NewInvalidIdempotencyKeyError("the key cannot be empty")
	}
	if len(raw) > MaxIdempotencyKeyLength {
		return IdempotencyKey{}, NewInvalidIdempotencyKeyError("the key must be no longer than 50 characters")
	}
	return IdempotencyKey{value: raw}, nil
}

func (k IdempotencyKey) String() string {
	return k.value
}
