// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService は記事の本文・タイトルをサニタイズし、
// XSS攻撃などのセキュリティリスクから閲覧者を保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 安全なタグと属性のみを通過させる。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はHTMLコンテンツのサニタイズ機能のインターフェースを定義する。
// 記事の作成APIおよびシード処理での保存前に使用される。
type ContentSanitizerService interface {
	// Sanitize は記事本文をサニタイズして安全なHTMLを返す。
	// 一般的な本文マークアップ（見出し、段落、リスト、リンク、コード等）を
	// 通過させ、script/iframe/styleタグおよびon*イベント属性を除去する。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(rawHTML string) string

	// SanitizeStrict はタイトル等のプレーンテキストフィールド向けに
	// 全てのHTMLタグを除去し、テキストのみを返す。
	SanitizeStrict(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	content *bluemonday.Policy
	strict  *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// 本文にはUGCポリシー（ユーザー投稿コンテンツ向けの標準許可リスト）、
// タイトルにはStrictPolicy（全タグ除去）を使用する。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		content: bluemonday.UGCPolicy(),
		strict:  bluemonday.StrictPolicy(),
	}
}

// Sanitize は記事本文をサニタイズして安全なHTMLを返す。
func (s *contentSanitizer) Sanitize(rawHTML string) string {
	return s.content.Sanitize(rawHTML)
}

// SanitizeStrict は全てのHTMLタグを除去しテキストのみを返す。
func (s *contentSanitizer) SanitizeStrict(raw string) string {
	return s.strict.Sanitize(raw)
}
