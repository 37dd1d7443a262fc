package article

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/hitoshi/blogd/internal/model"
	"github.com/hitoshi/blogd/internal/repository"
	"github.com/hitoshi/blogd/internal/security"
)

// Metrics はサービス層が記録するドメインメトリクスのインターフェース。
type Metrics interface {
	RecordArticleCreated()
}

// noopMetrics はメトリクス未設定時のデフォルト実装。
type noopMetrics struct{}

func (noopMetrics) RecordArticleCreated() {}

// Service は記事の取得・検索・作成を提供する。
type Service struct {
	repo      repository.ArticleRepository
	sanitizer security.ContentSanitizerService
	metrics   Metrics
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsにnilを渡した場合は記録を行わない。
func NewService(
	repo repository.ArticleRepository,
	sanitizer security.ContentSanitizerService,
	metrics Metrics,
) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// List は全記事を一覧形式で返す。順序はリポジトリの返却順（ID昇順）。
func (s *Service) List(ctx context.Context) ([]ListView, error) {
	articles, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ListView, 0, len(articles))
	for _, a := range articles {
		views = append(views, ToListView(a))
	}
	return views, nil
}

// GetByID は指定IDの記事を詳細形式で返す。
// 見つからない場合はPOST_NOT_FOUNDエラーを返す。
func (s *Service) GetByID(ctx context.Context, id int64) (*DetailView, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, model.NewPostNotFoundError()
	}

	v := ToDetailView(a)
	return &v, nil
}

// GetBySlugOrID はスラッグまたはIDとして解釈可能なトークンで記事を解決し、
// 詳細形式で返す。
//
// 解決順序は固定: まずslugの完全一致を試み、見つからずトークンが整数として
// 解釈できる場合のみIDでの取得にフォールバックする。数値に見えるスラッグも
// slug側の一致が常に優先される。整数として解釈できないトークンの
// パース失敗はエラーではなく「フォールバック不可」として扱う。
func (s *Service) GetBySlugOrID(ctx context.Context, token string) (*DetailView, error) {
	a, err := s.repo.FindBySlug(ctx, token)
	if err != nil {
		return nil, err
	}

	if a == nil {
		if id, perr := strconv.ParseInt(token, 10, 64); perr == nil {
			a, err = s.repo.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
		}
	}

	if a == nil {
		return nil, model.NewPostNotFoundError()
	}

	v := ToDetailView(a)
	return &v, nil
}

// Search はタイトルまたは本文にクエリを含む記事を検索結果形式で返す。
// クエリの非空チェックはハンドラー側のバリデーションで行う。
func (s *Service) Search(ctx context.Context, q string) ([]SearchView, error) {
	articles, err := s.repo.SearchTitleContent(ctx, q)
	if err != nil {
		return nil, err
	}

	views := make([]SearchView, 0, len(articles))
	for _, a := range articles {
		views = append(views, ToSearchView(a))
	}
	return views, nil
}

// CreateInput は記事作成の入力パラメータ。
type CreateInput struct {
	Title   string
	Content string
	Tags    []string
	Slug    string
}

// Create は記事を作成し、詳細形式で返す。
// タイトルと本文はサニタイズしてから保存する。タグはカンマ区切りに結合して
// 保存する。スラッグは指定された場合のみそのまま保存する（自動生成はシード
// 処理のみで行い、作成APIでは行わない）。
// title/slugの一意制約違反はDUPLICATE_ENTRYエラーに変換する。
func (s *Service) Create(ctx context.Context, in CreateInput) (*DetailView, error) {
	a := &model.Article{
		Title:   strings.TrimSpace(s.sanitizer.SanitizeStrict(in.Title)),
		Content: s.sanitizer.Sanitize(in.Content),
		Tags:    strings.Join(in.Tags, ","),
		Slug:    in.Slug,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, model.NewDuplicateEntryError()
		}
		return nil, err
	}

	s.metrics.RecordArticleCreated()

	v := ToDetailView(a)
	return &v, nil
}
