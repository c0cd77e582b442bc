package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind 存储错误分类
type Kind int

const (
	KindFetchFailed Kind = iota + 1
	KindSaveFailed
	KindDeleteFailed
	KindMappingFailed
	KindContextUnavailable
	KindEntityNotFound
)

func (k Kind) String() string {
	switch k {
	case KindFetchFailed:
		return "fetch failed"
	case KindSaveFailed:
		return "save failed"
	case KindDeleteFailed:
		return "delete failed"
	case KindMappingFailed:
		return "mapping failed"
	case KindContextUnavailable:
		return "context unavailable"
	case KindEntityNotFound:
		return "entity not found"
	default:
		return "unknown"
	}
}

// Error 存储层错误，Reason 保存底层错误信息
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return "storage: " + e.Kind.String()
	}
	return fmt.Sprintf("storage: %s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Is 按 Kind 比较，errors.Is(err, storage.ErrSaveFailed) 对任意 Reason 成立
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Kind == t.Kind
}

var (
	ErrFetchFailed        = &Error{Kind: KindFetchFailed}
	ErrSaveFailed         = &Error{Kind: KindSaveFailed}
	ErrDeleteFailed       = &Error{Kind: KindDeleteFailed}
	ErrMappingFailed      = &Error{Kind: KindMappingFailed}
	ErrContextUnavailable = &Error{Kind: KindContextUnavailable}
	ErrEntityNotFound     = &Error{Kind: KindEntityNotFound}
)

func newError(kind Kind, err error) *Error {
	if err == nil {
		return &Error{Kind: kind}
	}
	return &Error{Kind: kind, Reason: err.Error(), Err: err}
}

// MappingError 实体转换失败
func MappingError(reason string) *Error {
	return &Error{Kind: KindMappingFailed, Reason: reason}
}

func fetchError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(KindEntityNotFound, err)
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return newError(KindFetchFailed, err)
}

func wrapError(kind Kind, err error) error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return newError(kind, err)
}
