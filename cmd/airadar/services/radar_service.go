package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-lab-radar/cmd/airadar/feeder"
	"ai-lab-radar/cmd/airadar/llm"
	"ai-lab-radar/cmd/airadar/renderer"
	"ai-lab-radar/cmd/airadar/summarizer"
	"ai-lab-radar/cmd/internal/logger"
	"ai-lab-radar/config"
	"ai-lab-radar/models"
	"ai-lab-radar/repositories"
)

var ErrNoSource = errors.New("no article source configured")

// RunOptions 는 CLI 스위치 두 개에 해당한다. 서로 독립적이다.
type RunOptions struct {
	Cached bool
	NoLLM  bool
}

// ModelFactory 는 설정의 provider/name 으로 ChatModel 을 만든다. 요약 모드에서만 호출된다.
type ModelFactory func(provider, model string) (llm.ChatModel, error)

// RadarService 는 한 번의 실행을 처음부터 끝까지 순서대로 진행하고 파일 기록을 모두 담당한다.
type RadarService struct {
	cfg         *config.AppConfig
	source      feeder.Source
	articleRepo *repositories.ArticleRepository
	reportRepo  *repositories.ReportRepository
	newModel    ModelFactory
}

func NewRadarService(
	cfg *config.AppConfig,
	source feeder.Source,
	articleRepo *repositories.ArticleRepository,
	reportRepo *repositories.ReportRepository,
	newModel ModelFactory,
) *RadarService {
	return &RadarService{
		cfg:         cfg,
		source:      source,
		articleRepo: articleRepo,
		reportRepo:  reportRepo,
		newModel:    newModel,
	}
}

// Run 은 기사 확보 → 리포트 생성 → 리포트 기록 순으로 진행하며 첫 에러에서 중단한다.
// 라이브 수집 결과는 리포트 생성 전에 스냅샷으로 저장되므로, 이후 단계가 실패해도 스냅샷은 남는다.
func (s *RadarService) Run(ctx context.Context, opts RunOptions) error {
	start := time.Now()
	logger.InfoWithFields("radar run started", logger.Fields{
		"cached": opts.Cached,
		"no_llm": opts.NoLLM,
	})
	if s.cfg.LoadedFrom == "" {
		logger.InfoWithFields("no config.yaml found, using default values", nil)
	} else {
		logger.InfoWithFields("loaded config", logger.Fields{"path": s.cfg.LoadedFrom})
	}

	articles, err := s.loadArticles(ctx, opts.Cached)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		logger.WarnWithFields("no articles to report", logger.Fields{"cached": opts.Cached})
	}

	report, err := s.buildReport(ctx, articles, opts.NoLLM)
	if err != nil {
		return err
	}

	if err := s.reportRepo.Save(report); err != nil {
		return err
	}

	logger.InfoWithFields("report written", logger.Fields{
		"path":          s.reportRepo.Path(),
		"article_count": len(articles),
		"bytes":         len(report),
		"duration_ms":   time.Since(start).Milliseconds(),
	})
	return nil
}

func (s *RadarService) loadArticles(ctx context.Context, cached bool) ([]models.Article, error) {
	if cached {
		logger.InfoWithFields("using cached articles", logger.Fields{"path": s.articleRepo.Path()})
		articles, err := s.articleRepo.FindAll()
		if err != nil {
			return nil, err
		}
		logger.InfoWithFields("loaded cached articles", logger.Fields{"article_count": len(articles)})
		return articles, nil
	}

	if s.source == nil {
		return nil, ErrNoSource
	}

	logger.InfoWithFields("fetching articles", logger.Fields{"source": s.source.Name()})
	fetchStart := time.Now()
	articles, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch articles from %s: %w", s.source.Name(), err)
	}
	logger.InfoWithFields("articles fetched", logger.Fields{
		"source":        s.source.Name(),
		"article_count": len(articles),
		"latency_ms":    time.Since(fetchStart).Milliseconds(),
	})

	if err := s.articleRepo.SaveAll(articles); err != nil {
		return nil, err
	}
	logger.DebugWithFields("article snapshot saved", logger.Fields{"path": s.articleRepo.Path()})
	return articles, nil
}

func (s *RadarService) buildReport(ctx context.Context, articles []models.Article, noLLM bool) (string, error) {
	if noLLM {
		logger.InfoWithFields("rendering articles without llm", logger.Fields{"article_count": len(articles)})
		return renderer.RenderArticles(articles)
	}

	logger.InfoWithFields("summarizing articles", logger.Fields{
		"provider":      s.cfg.Model.Provider,
		"model":         s.cfg.Model.Name,
		"article_count": len(articles),
	})
	logger.DebugWithFields("prompt", logger.Fields{"prompt": s.cfg.Prompt})
	model, err := s.newModel(s.cfg.Model.Provider, s.cfg.Model.Name)
	if err != nil {
		return "", fmt.Errorf("failed to initialize model %s/%s: %w", s.cfg.Model.Provider, s.cfg.Model.Name, err)
	}

	sum, err := summarizer.New(model, s.cfg.Prompt)
	if err != nil {
		return "", err
	}
	return sum.Summarize(ctx, articles)
}
