package repository

import (
	"errors"
	"fmt"
)

var (
	// 対象が存在しない
	ErrNotFound = errors.New("not found")

	// 必須キー（order_idなど）が欠けている
	ErrValidation = errors.New("validation error")
)

// StorageError はDB層の失敗（接続断・制約違反など）をまとめる。
// リトライはしない。
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
