package article

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/blogd/internal/model"
	"github.com/hitoshi/blogd/internal/repository"
	"github.com/hitoshi/blogd/internal/security"
)

// --- モック定義 ---

// mockArticleRepo はArticleRepositoryのモック実装。
type mockArticleRepo struct {
	listAllFn     func(ctx context.Context) ([]*model.Article, error)
	findByIDFn    func(ctx context.Context, id int64) (*model.Article, error)
	findBySlugFn  func(ctx context.Context, slug string) (*model.Article, error)
	findByTitleFn func(ctx context.Context, title string) (*model.Article, error)
	searchFn      func(ctx context.Context, q string) ([]*model.Article, error)
	createFn      func(ctx context.Context, a *model.Article) error
	truncateFn    func(ctx context.Context) error
}

func (m *mockArticleRepo) ListAll(ctx context.Context) ([]*model.Article, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockArticleRepo) FindByID(ctx context.Context, id int64) (*model.Article, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockArticleRepo) FindBySlug(ctx context.Context, slug string) (*model.Article, error) {
	if m.findBySlugFn != nil {
		return m.findBySlugFn(ctx, slug)
	}
	return nil, nil
}

func (m *mockArticleRepo) FindByTitle(ctx context.Context, title string) (*model.Article, error) {
	if m.findByTitleFn != nil {
		return m.findByTitleFn(ctx, title)
	}
	return nil, nil
}

func (m *mockArticleRepo) SearchTitleContent(ctx context.Context, q string) ([]*model.Article, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return nil, nil
}

func (m *mockArticleRepo) Create(ctx context.Context, a *model.Article) error {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	return nil
}

func (m *mockArticleRepo) TruncateAll(ctx context.Context) error {
	if m.truncateFn != nil {
		return m.truncateFn(ctx)
	}
	return nil
}

func newTestService(repo repository.ArticleRepository) *Service {
	return NewService(repo, security.NewContentSanitizer(), nil)
}

// --- List ---

// TestService_List は一覧形式への整形を検証する。
func TestService_List(t *testing.T) {
	repo := &mockArticleRepo{
		listAllFn: func(ctx context.Context) ([]*model.Article, error) {
			return []*model.Article{
				{ID: 1, Title: "first", Content: strings.Repeat("a", 300), Tags: "demo,example"},
				{ID: 2, Title: "second", Content: "short", Slug: "second-post"},
			}, nil
		},
	}
	svc := newTestService(repo)

	views, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("len(views) = %d, want 2", len(views))
	}
	if len(views[0].Content) != 200 {
		t.Errorf("list content length = %d, want 200", len(views[0].Content))
	}
	if views[0].Slug != "1" {
		t.Errorf("views[0].Slug = %q, want %q", views[0].Slug, "1")
	}
	if views[1].Href != "/article/second-post" {
		t.Errorf("views[1].Href = %q, want %q", views[1].Href, "/article/second-post")
	}
}

// TestService_List_Empty は記事が存在しない場合に空スライスが返ることを検証する。
func TestService_List_Empty(t *testing.T) {
	svc := newTestService(&mockArticleRepo{})

	views, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if views == nil {
		t.Fatal("List should return an empty slice, not nil")
	}
	if len(views) != 0 {
		t.Errorf("len(views) = %d, want 0", len(views))
	}
}

// --- GetByID ---

// TestService_GetByID_NotFound は存在しないIDでPOST_NOT_FOUNDが返ることを検証する。
func TestService_GetByID_NotFound(t *testing.T) {
	svc := newTestService(&mockArticleRepo{})

	_, err := svc.GetByID(context.Background(), 999999)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodePostNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodePostNotFound)
	}
	if apiErr.Message != "Post not found" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "Post not found")
	}
}

// TestService_GetByID_Found は詳細形式が返ることを検証する。
func TestService_GetByID_Found(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockArticleRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Article, error) {
			if id != 7 {
				t.Errorf("id = %d, want 7", id)
			}
			return &model.Article{ID: 7, Title: "seven", Content: "c", CreatedAt: &created}, nil
		},
	}
	svc := newTestService(repo)

	v, err := svc.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if v.ID != 7 || v.Type != "Post" || v.Status != "Published" {
		t.Errorf("unexpected detail view: %+v", v)
	}
	if v.Date == nil || v.Date.StartDate != "2024-05-01" {
		t.Errorf("Date = %+v, want start_date 2024-05-01", v.Date)
	}
}

// --- GetBySlugOrID ---

// TestService_GetBySlugOrID_SlugPrecedence は数値に見えるスラッグでも
// slug側の一致がID一致より優先されることを検証する。
func TestService_GetBySlugOrID_SlugPrecedence(t *testing.T) {
	bySlug := &model.Article{ID: 10, Title: "slug four", Content: "c", Slug: "4"}
	byID := &model.Article{ID: 4, Title: "id four", Content: "c"}

	repo := &mockArticleRepo{
		findBySlugFn: func(ctx context.Context, s string) (*model.Article, error) {
			if s == "4" {
				return bySlug, nil
			}
			return nil, nil
		},
		findByIDFn: func(ctx context.Context, id int64) (*model.Article, error) {
			if id == 4 {
				return byID, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(repo)

	v, err := svc.GetBySlugOrID(context.Background(), "4")
	if err != nil {
		t.Fatalf("GetBySlugOrID returned error: %v", err)
	}
	if v.ID != 10 {
		t.Errorf("resolved ID = %d, want 10 (slug match must win)", v.ID)
	}
	if v.Title != "slug four" {
		t.Errorf("Title = %q, want %q", v.Title, "slug four")
	}
}

// TestService_GetBySlugOrID_IDFallback はスラッグ不一致時のIDフォールバックを検証する。
func TestService_GetBySlugOrID_IDFallback(t *testing.T) {
	repo := &mockArticleRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Article, error) {
			if id == 15 {
				return &model.Article{ID: 15, Title: "fifteen", Content: "c"}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(repo)

	v, err := svc.GetBySlugOrID(context.Background(), "15")
	if err != nil {
		t.Fatalf("GetBySlugOrID returned error: %v", err)
	}
	if v.ID != 15 {
		t.Errorf("resolved ID = %d, want 15", v.ID)
	}
	// slug未設定のためIDの文字列が実効スラッグになる
	if v.Slug != "15" {
		t.Errorf("Slug = %q, want %q", v.Slug, "15")
	}
}

// TestService_GetBySlugOrID_NonNumericNotFound は整数として解釈できない
// トークンがスラッグ不一致の場合、パースエラーではなくNotFoundになることを検証する。
func TestService_GetBySlugOrID_NonNumericNotFound(t *testing.T) {
	svc := newTestService(&mockArticleRepo{})

	_, err := svc.GetBySlugOrID(context.Background(), "no-such-slug")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodePostNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodePostNotFound)
	}
}

// --- Search ---

// TestService_Search は検索結果形式への整形を検証する。
func TestService_Search(t *testing.T) {
	repo := &mockArticleRepo{
		searchFn: func(ctx context.Context, q string) ([]*model.Article, error) {
			if q != "DEMO" {
				t.Errorf("q = %q, want %q", q, "DEMO")
			}
			return []*model.Article{
				{ID: 1, Title: "match", Content: "contains demo text", Tags: "demo,example"},
			}, nil
		},
	}
	svc := newTestService(repo)

	views, err := svc.Search(context.Background(), "DEMO")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("len(views) = %d, want 1", len(views))
	}
	if views[0].Summary != "contains demo text" {
		t.Errorf("Summary = %q", views[0].Summary)
	}
	if len(views[0].Tags) != 2 {
		t.Errorf("Tags = %v, want 2 entries", views[0].Tags)
	}
}

// --- Create ---

// TestService_Create_JoinsTagsAndPassesSlug はタグ結合とスラッグの
// 無変換保存を検証する。
func TestService_Create_JoinsTagsAndPassesSlug(t *testing.T) {
	var stored *model.Article
	repo := &mockArticleRepo{
		createFn: func(ctx context.Context, a *model.Article) error {
			now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
			a.ID = 101
			a.CreatedAt = &now
			stored = a
			return nil
		},
	}
	svc := newTestService(repo)

	v, err := svc.Create(context.Background(), CreateInput{
		Title:   "T",
		Content: "C",
		Tags:    []string{"a", "b"},
		Slug:    "s",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if stored.Tags != "a,b" {
		t.Errorf("stored tags = %q, want %q", stored.Tags, "a,b")
	}
	if stored.Slug != "s" {
		t.Errorf("stored slug = %q, want %q", stored.Slug, "s")
	}

	if v.ID != 101 {
		t.Errorf("ID = %d, want 101", v.ID)
	}
	if v.Slug != "s" || v.Href != "/article/s" {
		t.Errorf("Slug/Href = %q/%q", v.Slug, v.Href)
	}
	if len(v.Tags) != 2 || v.Tags[0] != "a" || v.Tags[1] != "b" {
		t.Errorf("Tags = %v, want [a b]", v.Tags)
	}
	if v.Type != "Post" || v.Status != "Published" {
		t.Errorf("Type/Status = %q/%q", v.Type, v.Status)
	}
}

// TestService_Create_NoSlug はスラッグ未指定時に実効スラッグがIDの
// 文字列になることを検証する。
func TestService_Create_NoSlug(t *testing.T) {
	repo := &mockArticleRepo{
		createFn: func(ctx context.Context, a *model.Article) error {
			a.ID = 55
			return nil
		},
	}
	svc := newTestService(repo)

	v, err := svc.Create(context.Background(), CreateInput{Title: "T", Content: "C"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if v.Slug != "55" {
		t.Errorf("Slug = %q, want %q", v.Slug, "55")
	}
	if v.Href != "/article/55" {
		t.Errorf("Href = %q, want %q", v.Href, "/article/55")
	}
}

// TestService_Create_Duplicate は一意制約違反がDUPLICATE_ENTRYに
// 変換されることを検証する。
func TestService_Create_Duplicate(t *testing.T) {
	repo := &mockArticleRepo{
		createFn: func(ctx context.Context, a *model.Article) error {
			return repository.ErrDuplicate
		},
	}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateInput{Title: "T", Content: "C"})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeDuplicateEntry {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeDuplicateEntry)
	}
}

// TestService_Create_SanitizesContent は保存前のサニタイズを検証する。
func TestService_Create_SanitizesContent(t *testing.T) {
	var stored *model.Article
	repo := &mockArticleRepo{
		createFn: func(ctx context.Context, a *model.Article) error {
			a.ID = 1
			stored = a
			return nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateInput{
		Title:   "<b>Bold Title</b>",
		Content: `<p>ok</p><script>alert("xss")</script>`,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if strings.Contains(stored.Content, "<script>") {
		t.Errorf("content should be sanitized, got %q", stored.Content)
	}
	if !strings.Contains(stored.Content, "<p>ok</p>") {
		t.Errorf("benign markup should survive, got %q", stored.Content)
	}
	if stored.Title != "Bold Title" {
		t.Errorf("title should be stripped to plain text, got %q", stored.Title)
	}
}
