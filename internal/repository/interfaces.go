// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/blogd/internal/model"
)

// ArticleRepository は記事データの永続化インターフェース。
// 単一のarticlesテーブルに対するCRUD操作を提供する。
type ArticleRepository interface {
	// ListAll は全記事をID昇順で取得する。
	ListAll(ctx context.Context) ([]*model.Article, error)

	// FindByID は指定IDの記事を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Article, error)

	// FindBySlug は指定スラッグの記事を取得する。見つからない場合はnilを返す。
	FindBySlug(ctx context.Context, slug string) (*model.Article, error)

	// FindByTitle は指定タイトルの記事を取得する。見つからない場合はnilを返す。
	FindByTitle(ctx context.Context, title string) (*model.Article, error)

	// SearchTitleContent はタイトルまたは本文にクエリを含む記事を
	// 大文字小文字を区別せずに部分一致で検索し、ID昇順で返す。
	SearchTitleContent(ctx context.Context, q string) ([]*model.Article, error)

	// Create は記事を作成する。
	// ストアが割り当てたIDとCreatedAtをarticleに書き戻す。
	Create(ctx context.Context, article *model.Article) error

	// TruncateAll は全記事を削除し、ID採番をリセットする。シーダー専用。
	TruncateAll(ctx context.Context) error
}
