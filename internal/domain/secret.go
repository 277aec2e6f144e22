package domain

import "log/slog"

const redacted = "[REDACTED]"

// Secret wraps a sensitive string (passwords, tokens) so it cannot leak
// through default formatting, logging or serialization. Callers that
// genuinely need the value must say so via Expose.
type Secret struct {
	value string
}

func NewSecret(v string) Secret {
	return Secret{value: v}
}

// Expose returns the wrapped value.
func (s Secret) Expose() string {
	return s.value
}

func (s Secret) String() string {
	return redacted
}

func (s Secret) GoString() string {
	return redacted
}

func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

func (s Secret) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

func (s Secret) LogValue() slog.Value {
	return slog.StringValue(redacted)
}
