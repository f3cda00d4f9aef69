package drive

import (
	"testing"
)

func TestMarkdownToRequestsStructure(t *testing.T) {
	md := "# Rubrik\n" +
		"Ett stycke.\n" +
		"- punkt ett\n" +
		"1. steg ett\n" +
		"> notis"

	reqs := markdownToRequests(md)

	var inserts, headings, bullets, indents int
	for _, r := range reqs {
		switch {
		case r.InsertText != nil:
			inserts++
		case r.UpdateParagraphStyle != nil:
			if r.UpdateParagraphStyle.Fields == "namedStyleType" {
				headings++
			} else {
				indents++
			}
		case r.CreateParagraphBullets != nil:
			bullets++
		}
	}
	if inserts != 5 {
		t.Errorf("inserts = %d, want one per line", inserts)
	}
	if headings != 1 {
		t.Errorf("heading styles = %d, want 1", headings)
	}
	if bullets != 2 {
		t.Errorf("bullet requests = %d, want bullet + numbered", bullets)
	}
	if indents != 1 {
		t.Errorf("indent styles = %d, want 1 for the blockquote", indents)
	}
}

func TestMarkdownToRequestsHeadingLevels(t *testing.T) {
	reqs := markdownToRequests("# A\n## B\n### C")

	var styles []string
	for _, r := range reqs {
		if r.UpdateParagraphStyle != nil {
			styles = append(styles, r.UpdateParagraphStyle.ParagraphStyle["namedStyleType"].(string))
		}
	}
	want := []string{"HEADING_1", "HEADING_2", "HEADING_3"}
	if len(styles) != len(want) {
		t.Fatalf("styles = %v, want %v", styles, want)
	}
	for i := range want {
		if styles[i] != want[i] {
			t.Errorf("styles[%d] = %q, want %q", i, styles[i], want[i])
		}
	}
}

func TestMarkdownToRequestsIndicesAreContiguous(t *testing.T) {
	reqs := markdownToRequests("# Titel\nrad ett\nrad två")

	// Each insert starts where the previous one ended.
	next := 1
	for _, r := range reqs {
		if r.InsertText == nil {
			continue
		}
		if r.InsertText.Location.Index != next {
			t.Fatalf("insert at index %d, want %d", r.InsertText.Location.Index, next)
		}
		next += len(r.InsertText.Text)
	}
}

func TestMarkdownToRequestsMarkerStripped(t *testing.T) {
	reqs := markdownToRequests("- punkt")
	if len(reqs) == 0 || reqs[0].InsertText == nil {
		t.Fatal("no insert produced for a bullet line")
	}
	if got := reqs[0].InsertText.Text; got != "punkt\n" {
		t.Errorf("bullet text = %q, marker must be stripped", got)
	}
}

func TestEscapeQuery(t *testing.T) {
	if got := escapeQuery(`bud'get\plan`); got != `bud\'get\\plan` {
		t.Errorf("escapeQuery = %q", got)
	}
}
