package chunker

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Doc types recorded in chunk metadata.
const (
	DocTypeMarkdown = "markdown"
	DocTypePDF      = "pdf"
	DocTypeDOCX     = "docx"
	DocTypeHTML     = "html"
)

// Config controls chunking behavior. Sizes are in characters.
type Config struct {
	MaxSize int // Target maximum chunk size.
	Overlap int // Tail of the previous chunk prepended to the next.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxSize: 1500,
		Overlap: 200,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxSize <= 0 {
		c.MaxSize = 1500
	}
	if c.Overlap <= 0 {
		c.Overlap = 200
	}
	return c
}

// Chunk is a text segment with the metadata needed for vector storage.
type Chunk struct {
	Text     string
	Metadata map[string]string
}

// ChunkSection splits one section's body into size-bounded chunks with
// intra-section overlap. The heading line is prepended to the FIRST chunk
// so the embedding captures what section the content belongs to; every
// later chunk instead starts with a word-boundary-snapped tail of the
// previous raw chunk. Overlap never crosses a section boundary.
func ChunkSection(sec Section, cfg Config) []string {
	cfg = cfg.withDefaults()
	if strings.TrimSpace(sec.Body) == "" {
		return nil
	}

	raw := splitBody(sec.Body, cfg.MaxSize)
	if len(raw) == 0 {
		return nil
	}

	out := make([]string, 0, len(raw))
	for i, chunk := range raw {
		if i == 0 {
			prefix := ""
			if sec.Heading != "" {
				prefix = sec.Heading + "\n\n"
			}
			out = append(out, prefix+chunk)
			continue
		}
		prev := raw[i-1]
		tail := prev
		if len(prev) > cfg.Overlap {
			// Overlap counts bytes, so snap forward to a rune boundary
			// before slicing.
			start := len(prev) - cfg.Overlap
			for start < len(prev) && !utf8.RuneStart(prev[start]) {
				start++
			}
			tail = prev[start:]
		}
		// Advance past the first space so the overlap never starts mid-word.
		if sp := strings.IndexByte(tail, ' '); sp != -1 {
			tail = tail[sp+1:]
		}
		out = append(out, "[...] "+tail+"\n\n"+chunk)
	}
	return out
}

// splitBody greedily packs blank-line-delimited paragraphs into chunks of at
// most maxSize characters. A single paragraph longer than maxSize is split
// on whitespace with the same greedy fill; words are never broken.
func splitBody(body string, maxSize int) []string {
	var chunks []string
	current := ""

	for _, para := range strings.Split(body, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if len(current)+len(para)+2 <= maxSize {
			if current == "" {
				current = para
			} else {
				current += "\n\n" + para
			}
			continue
		}

		if current != "" {
			chunks = append(chunks, current)
		}
		if len(para) > maxSize {
			temp := ""
			for _, word := range strings.Fields(para) {
				if len(temp)+len(word)+1 <= maxSize {
					if temp == "" {
						temp = word
					} else {
						temp += " " + word
					}
				} else {
					if temp != "" {
						chunks = append(chunks, temp)
					}
					temp = word
				}
			}
			current = temp
		} else {
			current = para
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// ChunkMarkdown runs the full pipeline for one document: parse sections,
// chunk each section, and attach metadata to every chunk.
func ChunkMarkdown(content, filename, fileHash string, cfg Config) []Chunk {
	cfg = cfg.withDefaults()
	sections := ParseSections(content)

	var out []Chunk
	for si, sec := range sections {
		for ci, text := range ChunkSection(sec, cfg) {
			out = append(out, Chunk{
				Text: text,
				Metadata: map[string]string{
					"source":                 filename,
					"file_hash":              fileHash,
					"doc_type":               DocTypeMarkdown,
					"heading":                sec.HeadingText,
					"heading_level":          strconv.Itoa(sec.Level),
					"breadcrumb":             sec.BreadcrumbPath(),
					"chunk_index_in_section": strconv.Itoa(ci),
					"section_index":          strconv.Itoa(si),
				},
			})
		}
	}
	return out
}
