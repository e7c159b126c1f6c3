package blog

import (
	"strings"
	"testing"

	appcfg "github.com/keywordforge/core/internal/config"
	"github.com/keywordforge/core/internal/models"
)

func TestBuildDraftPromptIncludesTemplate(t *testing.T) {
	volume := 18100
	difficulty := 45.0
	k := &models.KeywordModel{
		Keyword:           "CBD gummies for pain",
		Category:          "Pain Relief",
		SearchVolume:      &volume,
		KeywordDifficulty: &difficulty,
	}
	tpl := appcfg.BlogTemplates["cbd_wellness"]

	prompt := buildDraftPrompt(k, tpl)

	for _, want := range []string{
		`"CBD gummies for pain"`,
		"18100",
		"2500 words",
		"18 questions",
		"Benefits & Science",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		keyword  string
		want     string
	}{
		{
			name:     "h1 on first line",
			markdown: "# Best CBD Gummies in 2026\n\nIntro paragraph.",
			keyword:  "cbd gummies",
			want:     "Best CBD Gummies in 2026",
		},
		{
			name:     "h1 after preamble",
			markdown: "Some preamble.\n\n# Real Title\n\nBody.",
			keyword:  "cbd gummies",
			want:     "Real Title",
		},
		{
			name:     "fallback when no h1",
			markdown: "## Only an H2\n\nBody.",
			keyword:  "cbd gummies",
			want:     "The Complete Guide to cbd gummies",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTitle(tt.markdown, tt.keyword); got != tt.want {
				t.Errorf("extractTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractMetaDescription(t *testing.T) {
	markdown := "# Title\n\nThis is the opening paragraph.\n\nSecond paragraph."
	if got := extractMetaDescription(markdown); got != "This is the opening paragraph." {
		t.Errorf("extractMetaDescription() = %q", got)
	}

	long := "# Title\n\n" + strings.Repeat("word ", 60)
	got := extractMetaDescription(long)
	if len(got) > 164 {
		t.Errorf("meta description too long: %d chars", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated meta description should end with ellipsis: %q", got)
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := renderHTML("# Title\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("renderHTML() error = %v", err)
	}
	for _, want := range []string{"<h1", "Title", "<strong>bold</strong>"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q in %q", want, html)
		}
	}
}
