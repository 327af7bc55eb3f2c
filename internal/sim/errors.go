package sim

import "errors"

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrSongReserved   = errors.New("song already reserved by a planned release")
	ErrUnknownAction  = errors.New("unknown action type")
	ErrNilBalance     = errors.New("balance configuration is required")
	ErrEmptyCatalog   = errors.New("competitor catalog is required")
)
