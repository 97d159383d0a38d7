package convert

import (
	"strings"
	"testing"
)

func TestHTML_ToMarkdown(t *testing.T) {
	src := `<html>
<head><title>Hooks Guide</title><style>body { color: red }</style></head>
<body>
<nav><ul><li>Home</li><li>Docs</li></ul></nav>
<h1>Hooks</h1>
<p>Hooks let you use state.</p>
<h2>useEffect</h2>
<p>Runs after render.</p>
<script>console.log("tracking")</script>
<footer><p>Copyright</p></footer>
</body>
</html>`

	got, err := (&HTML{}).ToMarkdown(strings.NewReader(src), "guide.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"# Hooks Guide",
		"# Hooks",
		"Hooks let you use state.",
		"## useEffect",
		"Runs after render.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	for _, reject := range []string{"Home", "console.log", "color: red", "Copyright"} {
		if strings.Contains(got, reject) {
			t.Errorf("output should not contain %q:\n%s", reject, got)
		}
	}
}

func TestHTML_FilenameFallbackTitle(t *testing.T) {
	got, err := (&HTML{}).ToMarkdown(strings.NewReader("<p>text</p>"), "notes.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "# notes\n") {
		t.Errorf("expected the filename as the title, got:\n%s", got)
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		ok       bool
	}{
		{"a.md", true},
		{"a.MD", true},
		{"a.txt", true},
		{"a.html", true},
		{"a.pdf", true},
		{"a.docx", true},
		{"a.csv", false},
		{"a", false},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.filename)
		if (err == nil) != tt.ok {
			t.Errorf("ForFile(%q) error = %v, want ok=%v", tt.filename, err, tt.ok)
		}
		if IsSupported(tt.filename) != tt.ok {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.filename, !tt.ok, tt.ok)
		}
	}
}

func TestPassthrough(t *testing.T) {
	got, err := passthrough{}.ToMarkdown(strings.NewReader("# Already markdown"), "a.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "# Already markdown" {
		t.Errorf("passthrough altered content: %q", got)
	}
}
