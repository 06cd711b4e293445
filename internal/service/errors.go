package service

import (
	"errors"

	"github.com/avelkov/eshop-api/internal/repo"
)

var (
	ErrValidation = errors.New("validation")  // 400
	ErrNotFound   = repo.ErrNotFound          // 404
	ErrUpstream   = errors.New("upstream")    // 502
)
