package ask

import (
	"fmt"
	"strings"

	"studyrag/internal/store"
)

// Label builds a citation label for one retrieved chunk. Breadcrumbs
// give the richest label, then the section heading, then the page
// number, then just the source file.
func Label(hit store.Hit) string {
	source := hit.Metadata["source"]
	if source == "" {
		source = "unknown"
	}
	switch {
	case hit.Metadata["breadcrumb"] != "":
		return source + " > " + hit.Metadata["breadcrumb"]
	case hit.Metadata["heading"] != "":
		return source + " > " + hit.Metadata["heading"]
	case hit.Metadata["page"] != "":
		return fmt.Sprintf("%s, page %s", source, hit.Metadata["page"])
	default:
		return source
	}
}

// ContextBlock renders retrieved chunks as numbered excerpts.
func ContextBlock(hits []store.Hit) string {
	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = fmt.Sprintf("[%d] From %s:\n%s", i+1, Label(h), h.Text)
	}
	return strings.Join(parts, "\n\n")
}

// SourcesBlock renders the citation list appended after the answer.
func SourcesBlock(hits []store.Hit) string {
	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = fmt.Sprintf("[%d] %s", i+1, Label(h))
	}
	return "\n\n---\nSources:\n" + strings.Join(parts, "\n")
}

const (
	groundedInstruction = "You are a technical study companion. Answer the question " +
		"based primarily on the provided documentation excerpts. Cite " +
		"sources using [1], [2], etc. If the documentation doesn't fully " +
		"address the question, say so."

	broadInstruction = "You are a technical study companion. Use the provided " +
		"documentation excerpts as your primary source and cite them " +
		"using [1], [2], etc. where relevant. If the excerpts don't " +
		"fully cover the question, supplement with your own knowledge " +
		"to give the most accurate and complete answer possible. Do " +
		"not refuse to answer just because the documentation is " +
		"incomplete."
)

// BuildPrompt assembles the full generation prompt. history may be nil.
func BuildPrompt(question string, hits []store.Hit, history *History, grounded bool) string {
	instruction := broadInstruction
	if grounded {
		instruction = groundedInstruction
	}

	historyBlock := ""
	if history != nil && history.Len() > 0 {
		historyBlock = history.PromptBlock() + "\n\n"
	}

	return fmt.Sprintf("%s\n\n%sDocumentation excerpts:\n%s\n\nQuestion: %s",
		instruction, historyBlock, ContextBlock(hits), question)
}
