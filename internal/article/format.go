// Package article は記事の取得・検索・作成とレスポンス整形を提供する。
package article

import (
	"strings"
	"time"

	"github.com/hitoshi/blogd/internal/model"
)

// PostURLPrefix は公開URLのパス接頭辞。フロントエンドの設定と一致させる。
const PostURLPrefix = "article"

// summaryLength は一覧・要約表示で使用する本文の先頭文字数（コードポイント単位）。
const summaryLength = 200

// --- ビュー型 ---

// ListView は一覧エンドポイントのレスポンス形式。
// 本文は先頭200文字に切り詰められる（省略記号なし）。
type ListView struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Slug    string   `json:"slug"`
	Href    string   `json:"href"`
}

// SearchView は検索エンドポイントのレスポンス形式。
// 本文の代わりに要約（200文字超の場合は "..." 付き）を返す。
type SearchView struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
	Slug    string   `json:"slug"`
	Href    string   `json:"href"`
}

// DateView は作成日時の日付部分を保持するネスト構造。
type DateView struct {
	StartDate string `json:"start_date"`
}

// DetailView は単一記事取得・作成のレスポンス形式。
// 全文・要約・固定のtype/statusタグ・日付ブロックを含む。
type DetailView struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Href        string    `json:"href"`
	Content     string    `json:"content"`
	Summary     string    `json:"summary"`
	Tags        []string  `json:"tags"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	CreatedAt   string    `json:"created_at,omitempty"`
	CreatedTime string    `json:"createdTime,omitempty"`
	Date        *DateView `json:"date,omitempty"`
}

// --- 整形関数（全て純粋関数） ---

// Href は実効スラッグから公開URLパスを構築する。
func Href(effectiveSlug string) string {
	return "/" + PostURLPrefix + "/" + effectiveSlug
}

// SplitTags はカンマ区切り文字列をタグのスライスに変換する。
// 各要素をトリムし、空要素を除去し、元の順序を保つ。
// 未設定の場合は空スライスを返す（nilは返さない。JSONで[]として出力するため）。
func SplitTags(stored string) []string {
	tags := []string{}
	if stored == "" {
		return tags
	}
	for _, t := range strings.Split(stored, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Summarize は本文の先頭200文字を返す。200文字を超える場合は "..." を付与する。
// 日本語等のマルチバイト本文を途中で壊さないよう、文字数はルーン単位で数える。
func Summarize(content string) string {
	if r := []rune(content); len(r) > summaryLength {
		return string(r[:summaryLength]) + "..."
	}
	return content
}

// truncate は本文を先頭200文字（ルーン単位）に切り詰める。省略記号は付けない。
func truncate(content string) string {
	if r := []rune(content); len(r) > summaryLength {
		return string(r[:summaryLength])
	}
	return content
}

// ToListView は記事を一覧形式に整形する。
func ToListView(a *model.Article) ListView {
	es := a.EffectiveSlug()
	return ListView{
		ID:      a.ID,
		Title:   a.Title,
		Content: truncate(a.Content),
		Tags:    SplitTags(a.Tags),
		Slug:    es,
		Href:    Href(es),
	}
}

// ToSearchView は記事を検索結果形式に整形する。
func ToSearchView(a *model.Article) SearchView {
	es := a.EffectiveSlug()
	return SearchView{
		ID:      a.ID,
		Title:   a.Title,
		Summary: Summarize(a.Content),
		Tags:    SplitTags(a.Tags),
		Slug:    es,
		Href:    Href(es),
	}
}

// ToDetailView は記事を詳細形式に整形する。
// created_atが存在する場合、ISO-8601文字列をcreated_at/createdTimeの
// 2つのエイリアスで出力し、date.start_dateに日付部分を設定する。
func ToDetailView(a *model.Article) DetailView {
	es := a.EffectiveSlug()
	v := DetailView{
		ID:      a.ID,
		Title:   a.Title,
		Slug:    es,
		Href:    Href(es),
		Content: a.Content,
		Summary: Summarize(a.Content),
		Tags:    SplitTags(a.Tags),
		Type:    "Post",
		Status:  "Published",
	}

	if a.CreatedAt != nil {
		iso := a.CreatedAt.Format(time.RFC3339)
		v.CreatedAt = iso
		v.CreatedTime = iso
		v.Date = &DateView{StartDate: startDate(iso)}
	}

	return v
}

// startDate はISO-8601文字列の日付部分（最初の "T" より前）を返す。
// "T" を含まない場合は文字列全体を返す。
func startDate(iso string) string {
	if i := strings.Index(iso, "T"); i >= 0 {
		return iso[:i]
	}
	return iso
}
