// Package seed は開発・デモ用のシードデータ投入を提供する。
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/hitoshi/blogd/internal/model"
	"github.com/hitoshi/blogd/internal/repository"
	"github.com/hitoshi/blogd/internal/security"
	"github.com/hitoshi/blogd/internal/slug"
)

// sampleTags はシード記事に割り当てるタグ文字列の候補。
var sampleTags = []string{
	"demo,example",
	"python,fastapi",
	"docker,ci",
	"database,postgres",
	"web,frontend",
	"backend,api",
}

// Metrics はシーダーが記録するメトリクスのインターフェース。
type Metrics interface {
	RecordArticlesSeeded(count int)
}

type noopMetrics struct{}

func (noopMetrics) RecordArticlesSeeded(count int) {}

// Seeder はarticlesテーブルをリセットし、サンプル記事を一括投入する。
type Seeder struct {
	repo      repository.ArticleRepository
	generator *slug.Generator
	sanitizer security.ContentSanitizerService
	logger    *slog.Logger
	metrics   Metrics
}

// NewSeeder はSeederを生成する。
// loggerまたはmetricsにnilを渡した場合はそれぞれデフォルトロガー・無記録になる。
func NewSeeder(
	repo repository.ArticleRepository,
	generator *slug.Generator,
	sanitizer security.ContentSanitizerService,
	logger *slog.Logger,
	metrics Metrics,
) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Seeder{
		repo:      repo,
		generator: generator,
		sanitizer: sanitizer,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run はテーブルをリセットした上でn件のサンプル記事を投入する。
// タイトルは "article{i}"（i=1..n）、スラッグはジェネレーターのポリシーに
// 従って生成し、既存スラッグと衝突する場合は "-{counter}" サフィックスで
// 一意になるまで再試行する（ストアを都度確認するベストエフォート方式）。
func (s *Seeder) Run(ctx context.Context, n int) error {
	if err := s.repo.TruncateAll(ctx); err != nil {
		return fmt.Errorf("シード前のテーブルリセットに失敗しました: %w", err)
	}

	inserted := 0
	for i := 1; i <= n; i++ {
		title := fmt.Sprintf("article%d", i)

		// リセット直後は発生しないが、部分的な再実行に備えてタイトル重複を除外する
		existing, err := s.repo.FindByTitle(ctx, title)
		if err != nil {
			return fmt.Errorf("タイトルの重複確認に失敗しました: %w", err)
		}
		if existing != nil {
			continue
		}

		candidate, err := s.uniqueSlug(ctx, title, i)
		if err != nil {
			return err
		}

		content := strings.Repeat(
			fmt.Sprintf("This is sample content for article %d. ", i),
			2+rand.IntN(4),
		)

		now := time.Now().UTC()
		a := &model.Article{
			Title:     title,
			Content:   s.sanitizer.Sanitize(content),
			Tags:      sampleTags[rand.IntN(len(sampleTags))],
			Slug:      candidate,
			CreatedAt: &now,
		}

		if err := s.repo.Create(ctx, a); err != nil {
			return fmt.Errorf("シード記事の投入に失敗しました (i=%d): %w", i, err)
		}
		inserted++
	}

	s.metrics.RecordArticlesSeeded(inserted)
	s.logger.Info("seed completed",
		slog.Int("requested", n),
		slog.Int("inserted", inserted),
	)

	return nil
}

// uniqueSlug はポリシーに従ってスラッグを生成し、ストアに存在しない
// 候補が得られるまでサフィックスを増やして再試行する。
func (s *Seeder) uniqueSlug(ctx context.Context, title string, index int) (string, error) {
	base := s.generator.Generate(title, index)

	for counter := 0; ; counter++ {
		candidate := slug.WithSuffix(base, counter)
		existing, err := s.repo.FindBySlug(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("スラッグの重複確認に失敗しました: %w", err)
		}
		if existing == nil {
			return candidate, nil
		}
	}
}
