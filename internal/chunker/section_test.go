package chunker

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseSections_PreambleBecomesIntroduction(t *testing.T) {
	content := "Some intro text.\n\nMore intro.\n\n# First\n\nBody here."
	sections := ParseSections(content)

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	intro := sections[0]
	if intro.Level != 0 {
		t.Errorf("expected preamble level 0, got %d", intro.Level)
	}
	if intro.HeadingText != "Introduction" {
		t.Errorf("expected heading text 'Introduction', got %q", intro.HeadingText)
	}
	if !reflect.DeepEqual(intro.Breadcrumb, []string{"Introduction"}) {
		t.Errorf("unexpected breadcrumb: %v", intro.Breadcrumb)
	}
	if !strings.Contains(intro.Body, "More intro.") {
		t.Errorf("preamble body missing content: %q", intro.Body)
	}
}

func TestParseSections_NoPreambleWhenBlank(t *testing.T) {
	sections := ParseSections("\n\n# Only\n\nBody.")
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].HeadingText != "Only" {
		t.Errorf("unexpected section: %+v", sections[0])
	}
}

func TestParseSections_HeadingsInsideFencesIgnored(t *testing.T) {
	content := "# Real\n\nText.\n\n```\n# not a heading\n```\n\nMore text."
	sections := ParseSections(content)

	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if !strings.Contains(sections[0].Body, "# not a heading") {
		t.Errorf("fenced content should stay in the body, got %q", sections[0].Body)
	}
}

func TestParseSections_BreadcrumbHierarchy(t *testing.T) {
	content := strings.Join([]string{
		"# Guide",
		"",
		"## Setup",
		"setup body",
		"",
		"### Details",
		"details body",
		"",
		"## Usage",
		"usage body",
	}, "\n")

	sections := ParseSections(content)
	if len(sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(sections))
	}

	tests := []struct {
		heading string
		crumb   []string
	}{
		{"Guide", []string{"Guide"}},
		{"Setup", []string{"Guide", "Setup"}},
		{"Details", []string{"Guide", "Setup", "Details"}},
		// A new level-2 heading replaces Setup and discards Details.
		{"Usage", []string{"Guide", "Usage"}},
	}
	for i, tt := range tests {
		if sections[i].HeadingText != tt.heading {
			t.Errorf("section %d: expected heading %q, got %q", i, tt.heading, sections[i].HeadingText)
		}
		if !reflect.DeepEqual(sections[i].Breadcrumb, tt.crumb) {
			t.Errorf("section %d: expected breadcrumb %v, got %v", i, tt.crumb, sections[i].Breadcrumb)
		}
	}
}

func TestParseSections_SkippedLevels(t *testing.T) {
	content := "# Top\n\n### Deep\ndeep body"
	sections := ParseSections(content)

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	want := []string{"Top", "Deep"}
	if !reflect.DeepEqual(sections[1].Breadcrumb, want) {
		t.Errorf("expected breadcrumb %v, got %v", want, sections[1].Breadcrumb)
	}
	if sections[1].BreadcrumbPath() != "Top > Deep" {
		t.Errorf("unexpected breadcrumb path: %q", sections[1].BreadcrumbPath())
	}
}

func TestParseSections_BodyCoversUpToNextHeading(t *testing.T) {
	content := "# A\n\nfirst body\n\n# B\n\nsecond body"
	sections := ParseSections(content)

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Body != "first body" {
		t.Errorf("section A body: %q", sections[0].Body)
	}
	if sections[1].Body != "second body" {
		t.Errorf("section B body: %q", sections[1].Body)
	}
	if sections[0].Heading != "# A" {
		t.Errorf("expected full heading line, got %q", sections[0].Heading)
	}
}
