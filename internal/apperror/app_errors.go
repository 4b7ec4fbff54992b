package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrColumnFull       = errors.New("column is already full")
	ErrUnknownColumn    = errors.New("unknown column")
	ErrUnsupportedModel = errors.New("unsupported model name")
)
