package apperrors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrMissingSheet = errors.New("required sheet not found in workbook")
	ErrEmptyValue   = errors.New("empty value")
)
