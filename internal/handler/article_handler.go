package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/blogd/internal/article"
	"github.com/hitoshi/blogd/internal/middleware"
	"github.com/hitoshi/blogd/internal/model"
)

// ArticleServiceInterface は記事ハンドラーが必要とするサービスインターフェース。
type ArticleServiceInterface interface {
	// List は全記事を一覧形式で返す。
	List(ctx context.Context) ([]article.ListView, error)
	// GetByID は指定IDの記事を詳細形式で返す。
	GetByID(ctx context.Context, id int64) (*article.DetailView, error)
	// GetBySlugOrID はスラッグ優先・ID フォールバックで記事を解決する。
	GetBySlugOrID(ctx context.Context, token string) (*article.DetailView, error)
	// Search はタイトル・本文の部分一致検索の結果を返す。
	Search(ctx context.Context, q string) ([]article.SearchView, error)
	// Create は記事を作成し詳細形式で返す。
	Create(ctx context.Context, in article.CreateInput) (*article.DetailView, error)
}

// ArticleHandler は記事APIのHTTPハンドラー。
type ArticleHandler struct {
	service ArticleServiceInterface
}

// NewArticleHandler はArticleHandlerを生成する。
func NewArticleHandler(service ArticleServiceInterface) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// createArticleRequest は記事作成リクエストのボディ。
type createArticleRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
	Slug    string   `json:"slug,omitempty"`
}

// ListPosts は記事一覧を取得する。
// GET /api/posts
func (h *ArticleHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// GetPostByID は記事をIDで取得する。
// GET /api/posts/:id
func (h *ArticleHandler) GetPostByID(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		// 整数でないIDは存在しない記事として扱う
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewPostNotFoundError())
		return
	}

	detail, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// GetPostBySlug は記事をスラッグ（またはIDフォールバック）で取得する。
// GET /api/post/slug/:token
func (h *ArticleHandler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	detail, err := h.service.GetBySlugOrID(r.Context(), token)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// SearchPosts は記事を検索する。
// GET /api/search?q=<text>
func (h *ArticleHandler) SearchPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		middleware.WriteErrorResponse(w, http.StatusUnprocessableEntity, model.NewValidationError("q"))
		return
	}

	views, err := h.service.Search(r.Context(), q)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// CreatePost は記事を作成する。
// POST /api/posts
func (h *ArticleHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	// title/contentは必須。空白のみの値も欠落として扱う。
	if strings.TrimSpace(req.Title) == "" {
		middleware.WriteErrorResponse(w, http.StatusUnprocessableEntity, model.NewValidationError("title"))
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		middleware.WriteErrorResponse(w, http.StatusUnprocessableEntity, model.NewValidationError("content"))
		return
	}

	detail, err := h.service.Create(r.Context(), article.CreateInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Slug:    req.Slug,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// handleServiceError はサービス層のエラーをHTTPレスポンスに変換する。
// APIErrorはコードに応じたステータスで返し、それ以外は詳細をログに記録して
// 一般的な500レスポンスを返す。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, statusForCode(apiErr.Code), apiErr)
		return
	}

	slog.Error("unexpected service error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// statusForCode はAPIErrorのコードをHTTPステータスコードに対応付ける。
func statusForCode(code string) int {
	switch code {
	case model.ErrCodePostNotFound:
		return http.StatusNotFound
	case model.ErrCodeValidationError:
		return http.StatusUnprocessableEntity
	case model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeDuplicateEntry:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
