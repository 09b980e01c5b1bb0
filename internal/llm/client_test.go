package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(parts ...genai.Part) *genai.Candidate {
	return &genai.Candidate{Content: &genai.Content{Parts: parts}, FinishReason: genai.FinishReasonStop}
}

func TestExtractTextFromResponse(t *testing.T) {
	text, err := extractTextFromResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{candidate(genai.Text(`{"skills": `), genai.Text(`["Go"]}`))},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"skills": ["Go"]}`, text)
}

func TestExtractTextFromResponse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		blocked bool
	}{
		{"nil response", nil, false},
		{"no candidates", &genai.GenerateContentResponse{}, false},
		{"no content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, false},
		{"no text parts", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate(genai.Blob{MIMEType: "image/png"})}}, false},
		{
			name: "prompt blocked",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
			},
			blocked: true,
		},
		{
			name: "answer stopped for safety",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			},
			blocked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractTextFromResponse(tt.resp)
			require.Error(t, err)
			if tt.blocked {
				assert.ErrorIs(t, err, ErrBlocked)
			} else {
				assert.NotErrorIs(t, err, ErrBlocked)
			}
		})
	}
}
