package types

// StageStatus reports how a pipeline stage finished.
type StageStatus string

const (
	StageSuccess     StageStatus = "success"
	StageDegraded    StageStatus = "degraded"
	StageUnavailable StageStatus = "unavailable"
)

// StageResult carries a stage's value together with how it was obtained.
type StageResult[T any] struct {
	Value  T
	Status StageStatus
	Reason string
}

// Succeeded wraps a value produced without degradation.
func Succeeded[T any](value T) StageResult[T] {
	return StageResult[T]{Value: value, Status: StageSuccess}
}

// Degraded wraps a fallback value together with the reason it was used.
func Degraded[T any](value T, reason string) StageResult[T] {
	return StageResult[T]{Value: value, Status: StageDegraded, Reason: reason}
}

// Unavailable reports a stage that produced nothing usable.
func Unavailable[T any](reason string) StageResult[T] {
	var zero T
	return StageResult[T]{Value: zero, Status: StageUnavailable, Reason: reason}
}

// OK reports whether the stage produced its primary value.
func (result StageResult[T]) OK() bool {
	return result.Status == StageSuccess
}
