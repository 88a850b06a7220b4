package repositories

import (
	"fmt"
	"os"
)

// REPORT_FILE 은 작업 디렉토리 기준 HTML 리포트 파일 이름이다.
const REPORT_FILE = "airadar-report.html"

type ReportRepository struct {
	path string
}

func NewReportRepository(path string) *ReportRepository {
	if path == "" {
		path = REPORT_FILE
	}
	return &ReportRepository{path: path}
}

func (r *ReportRepository) Path() string {
	return r.path
}

// Save 는 html 을 UTF-8 그대로 기록하고 기존 리포트를 덮어쓴다.
func (r *ReportRepository) Save(html string) error {
	if err := os.WriteFile(r.path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", r.path, err)
	}
	return nil
}
