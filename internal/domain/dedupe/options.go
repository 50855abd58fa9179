package dedupe

// Option applies a configuration option to the KeyTracker.
type Option func(*KeyTracker)

// WithCapacity bounds the number of remembered keys. Zero or a negative value
// keeps every key.
func WithCapacity(n int) Option {
	return func(t *KeyTracker) {
		t.capacity = n
	}
}
