package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	//在庫が負になる更新を拒否したとき
	ErrInsufficientStock = errors.New("insufficient stock")
)
