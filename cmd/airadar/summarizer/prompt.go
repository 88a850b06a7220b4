package summarizer

import (
	"errors"
	"fmt"
	"strings"
)

// CONTEXT_VARIABLE 는 프롬프트 템플릿에서 기사 본문이 들어갈 자리의 이름이다.
const CONTEXT_VARIABLE = "context"

var ErrMissingContextSlot = errors.New("prompt template must contain a {context} placeholder")

// TemplateError 는 {context} 외의 치환 자리나 짝이 맞지 않는 중괄호가 있을 때 반환된다.
type TemplateError struct {
	Offset int
	Reason string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("invalid prompt template at offset %d: %s", e.Offset, e.Reason)
}

type segment struct {
	text string
	slot bool
}

// PromptTemplate 은 {context} 치환 자리를 가진 프롬프트다.
// {{ 와 }} 는 중괄호 문자 그대로를 뜻한다.
type PromptTemplate struct {
	segments []segment
}

func ParsePrompt(tmpl string) (*PromptTemplate, error) {
	var (
		segments []segment
		lit      strings.Builder
		hasSlot  bool
	)

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return nil, &TemplateError{Offset: i, Reason: "unclosed '{'"}
			}
			name := tmpl[i+1 : i+1+end]
			if name != CONTEXT_VARIABLE {
				return nil, &TemplateError{Offset: i, Reason: fmt.Sprintf("unknown variable %q (only {%s} is supported)", name, CONTEXT_VARIABLE)}
			}
			if lit.Len() > 0 {
				segments = append(segments, segment{text: lit.String()})
				lit.Reset()
			}
			segments = append(segments, segment{slot: true})
			hasSlot = true
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, &TemplateError{Offset: i, Reason: "single '}' encountered"}
		default:
			lit.WriteByte(c)
		}
	}
	if lit.Len() > 0 {
		segments = append(segments, segment{text: lit.String()})
	}

	if !hasSlot {
		return nil, ErrMissingContextSlot
	}
	return &PromptTemplate{segments: segments}, nil
}

// Format 은 모든 {context} 자리에 context 를 넣은 프롬프트를 돌려준다.
func (p *PromptTemplate) Format(context string) string {
	var b strings.Builder
	for _, s := range p.segments {
		if s.slot {
			b.WriteString(context)
			continue
		}
		b.WriteString(s.text)
	}
	return b.String()
}
