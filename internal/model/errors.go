// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, post, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodePostNotFound    = "POST_NOT_FOUND"
	ErrCodeValidationError = "VALIDATION_ERROR"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeDuplicateEntry  = "DUPLICATE_ENTRY"
)

// NewPostNotFoundError は記事未検出エラーを生成する。
// Messageはフロントエンドが期待する固定文字列 "Post not found" とする。
func NewPostNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodePostNotFound,
		Message:  "Post not found",
		Category: "post",
		Action:   "記事のIDまたはスラッグを確認してください。",
	}
}

// NewValidationError は必須入力の欠落・不正エラーを生成する。
func NewValidationError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationError,
		Message:  fmt.Sprintf("必須フィールドが指定されていません: %s", field),
		Category: "validation",
		Action:   fmt.Sprintf("%s を指定してください。", field),
	}
}

// NewInvalidRequestError はリクエストボディの解析失敗エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// NewDuplicateEntryError はtitle/slugの一意制約違反エラーを生成する。
func NewDuplicateEntryError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEntry,
		Message:  "同じタイトルまたはスラッグの記事が既に存在します。",
		Category: "post",
		Action:   "タイトルまたはスラッグを変更して再度お試しください。",
	}
}
