package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pkgscore/pkg/markdown"
)

func fullReadme() string {
	var sb strings.Builder
	sb.WriteString("# Project\n\nLinks: [a](https://a.example) [b](https://b.example) [c](https://c.example)")
	sb.WriteString(" [d](https://d.example) [e](https://e.example) [f](https://f.example)\n")
	for _, s := range ReadmeSections {
		sb.WriteString("\n## " + s + "\n\n```sh\necho " + strings.ToLower(strings.ReplaceAll(s, " ", "-")) + "\n```\n")
	}
	return sb.String()
}

func TestRampUpFullReadmeIsMaximal(t *testing.T) {
	res := NewRampUp(&fakeProvider{readme: fullReadme()}).Evaluate(context.Background(), testID)

	require.NoError(t, res.Err)
	assert.Equal(t, 1.0, res.Score)
}

func TestScoreReadme(t *testing.T) {
	tests := []struct {
		name string
		a    markdown.Analysis
		want float64
	}{
		{"empty analysis gets clean lint bonus", markdown.Analysis{}, 0.1},
		{
			name: "two sections, one code block",
			a: markdown.Analysis{
				Headings:   []markdown.Heading{{Level: 2, Text: "Installation"}, {Level: 2, Text: "Usage"}},
				CodeBlocks: 1,
				Issues:     make([]markdown.Issue, 2),
			},
			want: 0.15 + 0.15 + 0.2 + 0.05,
		},
		{
			name: "many lint issues",
			a: markdown.Analysis{
				Headings:   []markdown.Heading{{Level: 1, Text: "License"}},
				CodeBlocks: 3,
				Links:      6,
				Issues:     make([]markdown.Issue, 4),
			},
			want: 0.15 + 0.3 + 0.1,
		},
		{"five links is not enough", markdown.Analysis{Links: 5, Issues: make([]markdown.Issue, 9)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ScoreReadme(tt.a), 1e-9)
		})
	}
}

func TestRampUpMissingReadme(t *testing.T) {
	res := NewRampUp(&fakeProvider{}).Evaluate(context.Background(), testID)

	require.NoError(t, res.Err, "a missing README is not an error")
	assert.Zero(t, res.Score)
}

func TestRampUpWhitespaceReadme(t *testing.T) {
	res := NewRampUp(&fakeProvider{readme: "  \n\n"}).Evaluate(context.Background(), testID)

	require.NoError(t, res.Err)
	assert.Zero(t, res.Score)
}

func TestRampUpFetchError(t *testing.T) {
	res := NewRampUp(&fakeProvider{readmeErr: errors.New("rate limited")}).Evaluate(context.Background(), testID)

	require.Error(t, res.Err)
	assert.Zero(t, res.Score)
	assert.Zero(t, res.Latency)
}

func TestRampUpLatencyCoversFetch(t *testing.T) {
	p := &fakeProvider{readme: "# A\n", delay: 20 * time.Millisecond}
	res := NewRampUp(p).Evaluate(context.Background(), testID)

	require.NoError(t, res.Err)
	assert.GreaterOrEqual(t, res.Latency, 20*time.Millisecond)
}
