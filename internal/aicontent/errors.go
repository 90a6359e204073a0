package aicontent

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("content already exists for upload")
)
