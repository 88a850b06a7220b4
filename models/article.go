package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type fieldSet uint8

const (
	fieldTitle fieldSet = 1 << iota
	fieldDescription
	fieldContent
)

var requiredFields = []struct {
	bit  fieldSet
	name string
}{
	{fieldTitle, "title"},
	{fieldDescription, "description"},
	{fieldContent, "content"},
}

// Article represents a single news item as returned by the article source.
// Snapshot file: articles.json
//
// title, description, content 만 파이프라인에서 사용하고,
// 나머지 필드(source, url, publishedAt 등)는 Extra 에 원본 그대로 보관했다가 다시 기록한다.
type Article struct {
	Title       string
	Description string
	Content     string
	Extra       map[string]json.RawMessage

	// JSON 디코딩 시 존재하지 않았던 키 / null 이었던 키
	missing fieldSet
	nulls   fieldSet
}

// MissingFieldError 는 필수 키가 빠진 레코드를 사용하려 할 때 반환된다.
type MissingFieldError struct {
	Field string
	Title string
}

func (e *MissingFieldError) Error() string {
	if e.Title == "" {
		return fmt.Sprintf("article is missing required field %q", e.Field)
	}
	return fmt.Sprintf("article %q is missing required field %q", e.Title, e.Field)
}

// NewArticle returns a complete article record.
func NewArticle(title, description, content string) Article {
	return Article{Title: title, Description: description, Content: content}
}

// Validate 는 title, description, content 순으로 키 존재 여부를 확인한다.
// null 값은 존재하는 것으로 간주한다.
func (a Article) Validate() error {
	for _, f := range requiredFields {
		if a.missing&f.bit != 0 {
			return &MissingFieldError{Field: f.name, Title: a.Title}
		}
	}
	return nil
}

// Document renders the article as the text blob handed to the language model.
func (a Article) Document() (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	return a.Title + "\n\n" + a.Description + "\n\n" + a.Content, nil
}

func (a *Article) field(bit fieldSet) *string {
	switch bit {
	case fieldTitle:
		return &a.Title
	case fieldDescription:
		return &a.Description
	default:
		return &a.Content
	}
}

func (a *Article) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = Article{}
	for _, f := range requiredFields {
		v, ok := raw[f.name]
		if !ok {
			a.missing |= f.bit
			continue
		}
		delete(raw, f.name)

		if string(bytes.TrimSpace(v)) == "null" {
			a.nulls |= f.bit
			continue
		}
		if err := json.Unmarshal(v, a.field(f.bit)); err != nil {
			return fmt.Errorf("article field %q: %w", f.name, err)
		}
	}

	if len(raw) == 0 {
		return nil
	}
	// 들여쓰기된 스냅샷에서 다시 읽어도 원본과 동일한 바이트가 되도록 compact 형태로 보관한다.
	a.Extra = make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return fmt.Errorf("article field %q: %w", k, err)
		}
		a.Extra[k] = buf.Bytes()
	}
	return nil
}

func (a Article) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(a.Extra)+len(requiredFields))
	for k, v := range a.Extra {
		out[k] = v
	}
	for _, f := range requiredFields {
		switch {
		case a.missing&f.bit != 0:
			continue
		case a.nulls&f.bit != 0 && *a.field(f.bit) == "":
			out[f.name] = json.RawMessage("null")
		default:
			b, err := marshalNoEscape(*a.field(f.bit))
			if err != nil {
				return nil, err
			}
			out[f.name] = b
		}
	}
	return marshalNoEscape(out)
}

// marshalNoEscape 는 HTML 이스케이프 없이 인코딩한다.
// json.Marshal 은 Marshaler 출력을 다시 이스케이프하므로, < 가 그대로 남는 것은
// SetEscapeHTML(false) 인 Encoder 로 기록할 때뿐이다 (repositories.ArticleRepository).
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
