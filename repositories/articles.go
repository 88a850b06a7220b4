package repositories

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"ai-lab-radar/models"
)

// SNAPSHOT_FILE 은 작업 디렉토리 기준 기사 스냅샷 파일 이름이다.
const SNAPSHOT_FILE = "articles.json"

var ErrSnapshotNotFound = errors.New("article snapshot not found")

// ArticleRepository 는 마지막으로 가져온 기사 목록을 JSON 배열 파일 하나에 보관한다.
type ArticleRepository struct {
	path string
}

func NewArticleRepository(path string) *ArticleRepository {
	if path == "" {
		path = SNAPSHOT_FILE
	}
	return &ArticleRepository{path: path}
}

func (r *ArticleRepository) Path() string {
	return r.path
}

// SaveAll 은 기존 스냅샷을 통째로 덮어쓴다. 2칸 들여쓰기, HTML 이스케이프 없이 기록한다.
func (r *ArticleRepository) SaveAll(articles []models.Article) error {
	if articles == nil {
		articles = []models.Article{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		return fmt.Errorf("failed to encode article snapshot: %w", err)
	}

	if err := os.WriteFile(r.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write article snapshot %s: %w", r.path, err)
	}
	return nil
}

// FindAll 은 스냅샷 파일의 기사들을 저장된 순서대로 돌려준다.
func (r *ArticleRepository) FindAll() ([]models.Article, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, r.path)
		}
		return nil, fmt.Errorf("failed to read article snapshot %s: %w", r.path, err)
	}

	var articles []models.Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil, fmt.Errorf("failed to decode article snapshot %s: %w", r.path, err)
	}
	if articles == nil {
		articles = []models.Article{}
	}
	return articles, nil
}
