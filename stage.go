package upiqr

// Stage is a state of the pipeline: Start -> Decoded -> Merged -> Built ->
// Encoded, or Failed from any of them.
type Stage int

const (
	StageStart Stage = iota
	StageDecoded
	StageMerged
	StageBuilt
	StageEncoded
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageDecoded:
		return "decoded"
	case StageMerged:
		return "merged"
	case StageBuilt:
		return "built"
	case StageEncoded:
		return "encoded"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// step names the work done to reach a stage.
func (s Stage) step() string {
	switch s {
	case StageDecoded:
		return "decode image"
	case StageMerged:
		return "parse payload"
	case StageBuilt:
		return "build payment string"
	case StageEncoded:
		return "encode image"
	}
	return s.String()
}

// StageError is returned when the pipeline moves to Failed. Stage is the
// state it was trying to reach; Err is the cause and stays reachable through
// errors.Is and errors.As.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return e.Stage.step() + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }
