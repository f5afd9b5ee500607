package usecase

import (
	"errors"
	"fmt"
)

// APIErrorは利用者へ返す安定した (code, message) の組。
// HTTPステータスはハンドラ層がそのまま使う。
type APIError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func NewAPIError(status int, code, message string) error {
	return &APIError{Status: status, Code: code, Message: message}
}

// WrapAPIErrorは元のエラーを保持したまま分類を付ける。
// errors.Isでrepo層のsentinelを辿れるようにしておく。
func WrapAPIError(status int, code, message string, err error) error {
	return &APIError{Status: status, Code: code, Message: message, Err: err}
}

func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	ok := errors.As(err, &ae)
	return ae, ok
}

// APIが返すエラーコードの安定値
const (
	CodeNotFound          = "NOT_FOUND"
	CodeForbidden         = "FORBIDDEN"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeInvalidDeal       = "INVALID_DEAL"
	CodeDealNotActive     = "DEAL_NOT_ACTIVE"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeCannotCancel      = "CANNOT_CANCEL"
	CodeCreateFailed      = "CREATE_FAILED"
	CodeUpdateFailed      = "UPDATE_FAILED"
	CodeUpstream          = "UPSTREAM_SERVICE_ERROR"
	CodeInternal          = "INTERNAL_ERROR"
)
