// Package slug は記事スラッグの生成機能を提供する。
//
// 生成ポリシーは2種類あり、シードデータの世代によってどちらも実データに
// 存在するため、両方をサポートする。
//   - PolicyIndexBound: タイトルを無視し "article-{index}" 固定形式を出力する。
//   - PolicyContentDerived: タイトルからURL安全な文字列を導出する。
//
// Generatorは純粋関数でありデータストアを参照しない。
// 一意性の確保（"-{n}" サフィックスの付与）は呼び出し側の責務。
package slug

import (
	"fmt"
	"regexp"
	"strings"
)

// Policy はスラッグ生成ポリシーを表す。
type Policy string

const (
	// PolicyIndexBound は連番固定形式 "article-{index}" でスラッグを生成する。
	PolicyIndexBound Policy = "index"
	// PolicyContentDerived はタイトルの内容からスラッグを導出する。
	PolicyContentDerived Policy = "content"
)

// ParsePolicy は文字列からPolicyを解析する。
// 空文字列またはサポート外の値の場合はPolicyIndexBoundを返す。
func ParsePolicy(s string) Policy {
	switch s {
	case string(PolicyContentDerived):
		return PolicyContentDerived
	case string(PolicyIndexBound):
		return PolicyIndexBound
	default:
		return PolicyIndexBound
	}
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	invalidRe    = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRunRe  = regexp.MustCompile(`-+`)
)

// Generator はポリシーに従ってスラッグを生成する。
type Generator struct {
	policy Policy
}

// NewGenerator は指定ポリシーのGeneratorを生成する。
func NewGenerator(policy Policy) *Generator {
	return &Generator{policy: policy}
}

// Generate はタイトルと1始まりの連番からスラッグを生成する。
// PolicyContentDerivedでタイトルが空または記号のみの場合、
// 導出結果が空になるため連番固定形式にフォールバックする。
func (g *Generator) Generate(title string, index int) string {
	if g.policy == PolicyContentDerived {
		if s := Derive(title); s != "" {
			return s
		}
	}
	return fmt.Sprintf("article-%d", index)
}

// Derive はタイトルからURL安全なスラッグを導出する。
// 小文字化、空白の連続を単一ハイフンに置換、[a-z0-9-]以外を除去、
// ハイフンの連続を1つに縮約、先頭・末尾のハイフンを除去する。
// 導出結果が空になる場合は空文字列を返す。
func Derive(title string) string {
	s := strings.ToLower(title)
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = invalidRe.ReplaceAllString(s, "")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s
}

// WithSuffix はベーススラッグに連番サフィックスを付与した候補を返す。
// n=0 の場合はベーススラッグそのものを返す。
func WithSuffix(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
