package queue

// Option applies a configuration option to the RecordQueue.
type Option func(*RecordQueue)

// WithCapacity sets how many records may wait in the queue.
func WithCapacity(capacity int) Option {
	return func(q *RecordQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}
