package assign

import "errors"

// Sentinel kinds for assignment errors. A non-finite matrix indicates an
// upstream data bug, not a recoverable runtime condition, so the pipeline
// propagates it as a hard error rather than returning a partial mapping.
var (
	ErrNonFiniteScore = errors.New("compatibility matrix contains non-finite scores")
	ErrShapeMismatch  = errors.New("compatibility matrix shape mismatch")
	ErrInfeasible     = errors.New("assignment infeasible")
)
