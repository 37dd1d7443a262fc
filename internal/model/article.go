// Package model はドメインモデルを定義する。
package model

import (
	"strconv"
	"time"
)

// Article はブログ記事を表す。
// TagsとSlugは空文字列が「未設定」を意味する。
// tagsはDB上はカンマ区切りの単一文字列として保存される。
type Article struct {
	ID        int64
	Title     string
	Content   string
	Tags      string // カンマ区切り文字列。例: "demo,example"
	Slug      string
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// EffectiveSlug は公開URLに使用するスラッグを返す。
// Slugが未設定の場合はIDの10進文字列で代替する。
func (a *Article) EffectiveSlug() string {
	if a.Slug != "" {
		return a.Slug
	}
	return strconv.FormatInt(a.ID, 10)
}
