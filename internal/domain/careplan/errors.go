package careplan

import "errors"

var (
	ErrOrderNotConfirmed = errors.New("order must be confirmed before a care plan can be generated")
	ErrGeneration        = errors.New("care plan generation failed")
)
