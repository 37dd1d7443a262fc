package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/blogd/internal/model"
)

// pqUniqueViolation はPostgreSQLの一意制約違反のエラーコード。
const pqUniqueViolation = "23505"

// ErrDuplicate はtitle/slugの一意制約違反を表す。
// サービス層でクライアント向けエラーに変換される。
var ErrDuplicate = errors.New("duplicate article")

// PostgresArticleRepo はPostgreSQLを使用した記事リポジトリ。
type PostgresArticleRepo struct {
	db *sql.DB
}

// NewPostgresArticleRepo はPostgresArticleRepoを生成する。
func NewPostgresArticleRepo(db *sql.DB) *PostgresArticleRepo {
	return &PostgresArticleRepo{db: db}
}

// articleColumns はSELECT句で使用するカラムリスト。
const articleColumns = `id, title, content, tags, slug, created_at, updated_at`

// scanArticle は1行をmodel.Articleに読み込む。
func scanArticle(row interface{ Scan(dest ...any) error }) (*model.Article, error) {
	a := &model.Article{}
	var tags, slug sql.NullString
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&a.ID, &a.Title, &a.Content, &tags, &slug, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	a.Tags = nullStringValue(tags)
	a.Slug = nullStringValue(slug)
	if createdAt.Valid {
		a.CreatedAt = &createdAt.Time
	}
	if updatedAt.Valid {
		a.UpdatedAt = &updatedAt.Time
	}

	return a, nil
}

// ListAll は全記事をID昇順で取得する。
func (r *PostgresArticleRepo) ListAll(ctx context.Context) ([]*model.Article, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("記事一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var articles []*model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("記事一覧の読み込みに失敗しました: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("記事一覧の読み込みに失敗しました: %w", err)
	}

	return articles, nil
}

// FindByID は指定IDの記事を取得する。見つからない場合はnilを返す。
func (r *PostgresArticleRepo) FindByID(ctx context.Context, id int64) (*model.Article, error) {
	a, err := scanArticle(r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("IDによる記事の取得に失敗しました: %w", err)
	}
	return a, nil
}

// FindBySlug は指定スラッグの記事を取得する。見つからない場合はnilを返す。
func (r *PostgresArticleRepo) FindBySlug(ctx context.Context, slug string) (*model.Article, error) {
	a, err := scanArticle(r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE slug = $1`, slug,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("スラッグによる記事の取得に失敗しました: %w", err)
	}
	return a, nil
}

// FindByTitle は指定タイトルの記事を取得する。見つからない場合はnilを返す。
func (r *PostgresArticleRepo) FindByTitle(ctx context.Context, title string) (*model.Article, error) {
	a, err := scanArticle(r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE title = $1`, title,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("タイトルによる記事の取得に失敗しました: %w", err)
	}
	return a, nil
}

// SearchTitleContent はタイトルまたは本文にクエリを含む記事を検索する。
// ILIKEによる大文字小文字を区別しない部分一致を使用する。
func (r *PostgresArticleRepo) SearchTitleContent(ctx context.Context, q string) ([]*model.Article, error) {
	pattern := "%" + escapeLikePattern(q) + "%"

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles
		 WHERE title ILIKE $1 OR content ILIKE $1
		 ORDER BY id`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("記事の検索に失敗しました: %w", err)
	}
	defer rows.Close()

	var articles []*model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("検索結果の読み込みに失敗しました: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("検索結果の読み込みに失敗しました: %w", err)
	}

	return articles, nil
}

// Create は記事を作成し、ストアが割り当てたIDとCreatedAtを書き戻す。
// created_atが未設定の場合はテーブルのデフォルト（now()）に任せる。
// title/slugの一意制約違反の場合はErrDuplicateを返す。
func (r *PostgresArticleRepo) Create(ctx context.Context, article *model.Article) error {
	var row *sql.Row
	if article.CreatedAt != nil {
		row = r.db.QueryRowContext(ctx,
			`INSERT INTO articles (title, content, tags, slug, created_at)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			article.Title, article.Content,
			emptyToNull(article.Tags), emptyToNull(article.Slug),
			*article.CreatedAt,
		)
	} else {
		row = r.db.QueryRowContext(ctx,
			`INSERT INTO articles (title, content, tags, slug)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at`,
			article.Title, article.Content,
			emptyToNull(article.Tags), emptyToNull(article.Slug),
		)
	}

	var createdAt sql.NullTime
	if err := row.Scan(&article.ID, &createdAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("記事の作成に失敗しました: %w", err)
	}
	if createdAt.Valid {
		article.CreatedAt = &createdAt.Time
	}

	return nil
}

// TruncateAll は全記事を削除し、ID採番をリセットする。
func (r *PostgresArticleRepo) TruncateAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `TRUNCATE TABLE articles RESTART IDENTITY`); err != nil {
		return fmt.Errorf("articlesテーブルのリセットに失敗しました: %w", err)
	}
	return nil
}

// nullStringValue はsql.NullStringから値を取り出す。NULLの場合は空文字列を返す。
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// emptyToNull は空文字列をNULLとして保存するためのヘルパー。
func emptyToNull(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// escapeLikePattern はLIKE/ILIKEのメタ文字をエスケープする。
// 検索クエリ中の % や _ をリテラルとして扱うため。
func escapeLikePattern(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
