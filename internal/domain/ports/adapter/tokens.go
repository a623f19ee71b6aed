package adapter

// TokenCounter estimates how many model tokens a piece of text costs.
// Implementations must be offline; the estimate is recorded next to
// bytes_sent on each usage record.
type TokenCounter interface {
	Count(text string) int
}
