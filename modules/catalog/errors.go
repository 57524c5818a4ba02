package catalog

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrSearchUnavailable = errors.New("search unavailable")
)
