package renderer

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"ai-lab-radar/models"
)

const REPORT_TITLE = "AI Lab Radar Report"

// RenderArticles 는 LLM 을 거치지 않고 기사 목록을 그대로 HTML 문서로 만든다.
// 기사마다 <h3>제목</h3><p>설명</p><p>본문</p> 을 입력 순서대로 body 에 넣는다.
// 텍스트는 html.Render 의 기본 이스케이프만 적용된다.
// 필수 키가 빠진 기사가 있으면 *models.MissingFieldError 를 반환한다.
func RenderArticles(articles []models.Article) (string, error) {
	head := element(atom.Head,
		element(atom.Title, text(REPORT_TITLE)),
		&html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Meta,
			Data:     atom.Meta.String(),
			Attr:     []html.Attribute{{Key: "charset", Val: "UTF-8"}},
		},
	)

	body := element(atom.Body)
	for _, a := range articles {
		if err := a.Validate(); err != nil {
			return "", err
		}
		body.AppendChild(element(atom.H3, text(a.Title)))
		body.AppendChild(element(atom.P, text(a.Description)))
		body.AppendChild(element(atom.P, text(a.Content)))
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(element(atom.Html, head, body))

	var b strings.Builder
	if err := html.Render(&b, doc); err != nil {
		return "", err
	}
	return b.String(), nil
}

func element(a atom.Atom, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
