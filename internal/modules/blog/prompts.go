package blog

import (
	"fmt"
	"strings"

	appcfg "github.com/keywordforge/core/internal/config"
	"github.com/keywordforge/core/internal/models"
)

const draftSystemPrompt = "You are an expert SEO content writer. " +
	"You write long-form, well-structured blog posts in Markdown that rank " +
	"for the target keyword. Use a single H1 title on the first line, H2 " +
	"section headings, and natural keyword placement. Never mention that " +
	"the content is AI generated."

// buildDraftPrompt renders the user prompt for one keyword using the
// campaign's template.
func buildDraftPrompt(k *models.KeywordModel, tpl appcfg.BlogTemplate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a complete SEO blog post targeting the keyword %q.\n\n", k.Keyword)
	fmt.Fprintf(&b, "Category: %s\n", k.Category)
	if k.SearchVolume != nil {
		fmt.Fprintf(&b, "Monthly search volume: %d\n", *k.SearchVolume)
	}
	if k.KeywordDifficulty != nil {
		fmt.Fprintf(&b, "Keyword difficulty: %.0f\n", *k.KeywordDifficulty)
	}

	fmt.Fprintf(&b, "\nContent style: %s (%s)\n", tpl.Name, tpl.Description)
	fmt.Fprintf(&b, "Minimum length: %d words.\n", tpl.MinWords)
	fmt.Fprintf(&b, "Include a FAQ section with at least %d questions and answers.\n\n", tpl.FAQCount)

	b.WriteString("Structure the post with these sections:\n")
	for _, section := range tpl.Sections {
		fmt.Fprintf(&b, "- %s\n", section)
	}

	b.WriteString("\nStart with the H1 title on the first line. ")
	b.WriteString("After the post, do not add any commentary.")
	return b.String()
}

// extractTitle returns the first H1 heading, falling back to a generated
// title from the keyword.
func extractTitle(markdown, keywordText string) string {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		}
	}
	return fmt.Sprintf("The Complete Guide to %s", keywordText)
}

// extractMetaDescription takes the first body paragraph, capped at 160
// characters on a word boundary.
func extractMetaDescription(markdown string) string {
	for _, block := range strings.Split(markdown, "\n\n") {
		trimmed := strings.TrimSpace(block)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		trimmed = strings.ReplaceAll(trimmed, "\n", " ")
		if len(trimmed) <= 160 {
			return trimmed
		}
		cut := trimmed[:160]
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		return cut + "..."
	}
	return ""
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
