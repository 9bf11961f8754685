package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrNoTargetSelected = errors.New("no target page selected")
	ErrLastPage         = errors.New("cannot delete the last remaining page")
	ErrPageIndex        = errors.New("page index out of range")
	ErrBlockLocked      = errors.New("block is locked")
	ErrInvalidBlockType = errors.New("invalid block type")
)
