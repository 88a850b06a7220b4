package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-lab-radar/cmd/airadar/llm"
	"ai-lab-radar/cmd/internal/logger"
	"ai-lab-radar/models"
)

// DOCUMENT_SEPARATOR 는 프롬프트에 넣을 때 기사 사이에 넣는 구분자다.
const DOCUMENT_SEPARATOR = "\n\n"

// Summarizer 는 모든 기사를 하나의 프롬프트에 넣어(stuff) LLM 을 한 번만 호출한다.
type Summarizer struct {
	model  llm.ChatModel
	prompt *PromptTemplate
}

func New(model llm.ChatModel, prompt string) (*Summarizer, error) {
	tmpl, err := ParsePrompt(prompt)
	if err != nil {
		return nil, err
	}
	return &Summarizer{model: model, prompt: tmpl}, nil
}

// StuffDocuments 는 기사별 텍스트 블록을 입력 순서대로 이어 붙인다.
func StuffDocuments(articles []models.Article) (string, error) {
	docs := make([]string, 0, len(articles))
	for _, a := range articles {
		doc, err := a.Document()
		if err != nil {
			return "", err
		}
		docs = append(docs, doc)
	}
	return strings.Join(docs, DOCUMENT_SEPARATOR), nil
}

// Summarize 는 LLM 응답을 그대로 돌려준다. 응답이 완전한 HTML 문서인지는 검사하지 않는다.
func (s *Summarizer) Summarize(ctx context.Context, articles []models.Article) (string, error) {
	stuffed, err := StuffDocuments(articles)
	if err != nil {
		return "", err
	}
	prompt := s.prompt.Format(stuffed)

	start := time.Now()
	result, err := s.model.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to summarize %d articles with %s: %w", len(articles), s.model.Name(), err)
	}

	logger.InfoWithFields("llm summary generated", logger.Fields{
		"model":         s.model.Name(),
		"article_count": len(articles),
		"prompt_chars":  len(prompt),
		"result_chars":  len(result),
		"latency_ms":    time.Since(start).Milliseconds(),
	})
	return result, nil
}
