package summarizer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"ai-lab-radar/cmd/airadar/summarizer"
	"ai-lab-radar/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	prompts []string
	reply   string
	err     error
}

func (f *fakeModel) Name() string { return "fake/model" }

func (f *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func TestParsePrompt(t *testing.T) {
	tests := []struct {
		name     string
		template string
		context  string
		want     string
	}{
		{"single slot", "Vat samen: {context}", "X", "Vat samen: X"},
		{"slot only", "{context}", "abc", "abc"},
		{"repeated slot", "{context}|{context}", "a", "a|a"},
		{"escaped braces", "{{\"titel\": \"..\"}}\n{context}", "X", "{\"titel\": \"..\"}\nX"},
		{"braces inside context are literal", "<{context}>", "{x}", "<{x}>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := summarizer.ParsePrompt(tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Format(tt.context))
		})
	}
}

func TestParsePromptErrors(t *testing.T) {
	_, err := summarizer.ParsePrompt("Summarize the news")
	assert.ErrorIs(t, err, summarizer.ErrMissingContextSlot)

	_, err = summarizer.ParsePrompt("Only {{context}} literal")
	assert.ErrorIs(t, err, summarizer.ErrMissingContextSlot)

	for _, tmpl := range []string{
		"{context} {topic}",
		"{context} {",
		"{context} }",
		"{} {context}",
	} {
		_, err := summarizer.ParsePrompt(tmpl)
		var te *summarizer.TemplateError
		assert.True(t, errors.As(err, &te), tmpl)
	}
}

func TestStuffDocuments(t *testing.T) {
	out, err := summarizer.StuffDocuments([]models.Article{
		models.NewArticle("T1", "D1", "C1"),
		models.NewArticle("T2", "D2", "C2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "T1\n\nD1\n\nC1\n\nT2\n\nD2\n\nC2", out)

	out, err = summarizer.StuffDocuments(nil)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestSummarizeCallsModelOnce(t *testing.T) {
	model := &fakeModel{reply: "<html>ok</html>"}
	s, err := summarizer.New(model, "Prompt:\n{context}\nEinde")
	require.NoError(t, err)

	out, err := s.Summarize(context.Background(), []models.Article{
		models.NewArticle("T1", "D1", "C1"),
		models.NewArticle("T2", "D2", "C2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", out)

	require.Len(t, model.prompts, 1)
	assert.Equal(t, "Prompt:\nT1\n\nD1\n\nC1\n\nT2\n\nD2\n\nC2\nEinde", model.prompts[0])
}

func TestSummarizeReturnsReplyVerbatim(t *testing.T) {
	model := &fakeModel{reply: "  not really html\n"}
	s, err := summarizer.New(model, "{context}")
	require.NoError(t, err)

	out, err := s.Summarize(context.Background(), []models.Article{models.NewArticle("T", "D", "C")})
	require.NoError(t, err)
	assert.Equal(t, "  not really html\n", out)
}

func TestSummarizeModelError(t *testing.T) {
	boom := errors.New("quota exceeded")
	model := &fakeModel{err: boom}
	s, err := summarizer.New(model, "{context}")
	require.NoError(t, err)

	_, err = s.Summarize(context.Background(), []models.Article{models.NewArticle("T", "D", "C")})
	assert.ErrorIs(t, err, boom)
}

func TestSummarizeMissingFieldSkipsModel(t *testing.T) {
	var a models.Article
	require.NoError(t, json.Unmarshal([]byte(`{"title": "T", "content": "C"}`), &a))

	model := &fakeModel{reply: "unused"}
	s, err := summarizer.New(model, "{context}")
	require.NoError(t, err)

	_, err = s.Summarize(context.Background(), []models.Article{a})
	var mf *models.MissingFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, "description", mf.Field)
	assert.Empty(t, model.prompts)
}

func TestNewRejectsBadPrompt(t *testing.T) {
	_, err := summarizer.New(&fakeModel{}, "no slot")
	assert.ErrorIs(t, err, summarizer.ErrMissingContextSlot)
}
