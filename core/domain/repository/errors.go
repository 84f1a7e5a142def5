package repository

import "errors"

var (
	ErrGameRecordNotFound = errors.New("game record not found")
	ErrStorage            = errors.New("storage error happen")
)
