package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/blogd/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	Logger            *slog.Logger
	RateLimiter       *middleware.RateLimiter

	// 記事
	ArticleService ArticleServiceInterface

	// メトリクス公開用。nilの場合 /metrics は登録しない。
	MetricsHandler http.Handler
	// HTTPメトリクス記録用ミドルウェア。nil可。
	MetricsMiddleware func(next http.Handler) http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → LoggingMiddleware → RecoveryMiddleware → Metrics → RateLimitMiddleware
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS ミドルウェアを最上位に適用（全ルートに効く）
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewRecoveryMiddleware())

	if deps.MetricsMiddleware != nil {
		r.Use(deps.MetricsMiddleware)
	}

	articleHandler := NewArticleHandler(deps.ArticleService)

	// --- レート制限の外に置くルート ---

	// ヘルスチェック（コンテナのliveness probeが高頻度で叩くため）
	r.Get("/api/health", Health)

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- レート制限下のAPIルート ---
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		// 記事
		r.Route("/api/posts", func(r chi.Router) {
			r.Get("/", articleHandler.ListPosts)
			r.Post("/", articleHandler.CreatePost)
			r.Get("/{id}", articleHandler.GetPostByID)
		})

		// スラッグ参照（IDフォールバック付き）
		r.Get("/api/post/slug/{token}", articleHandler.GetPostBySlug)

		// 検索
		r.Get("/api/search", articleHandler.SearchPosts)
	})

	return r
}
