package seo

import (
	"strings"
	"testing"
)

func TestParseContent_Structure(t *testing.T) {
	html := `
<h1>Guide des chaussures de course</h1>
<p>Première intro avec une chaussure de course bien choisie.</p>
<h2>Choisir sa pointure</h2>
<h2>Entretenir ses chaussures</h2>
<h2>FAQ</h2>
<h3>Quelle marque ?</h3>
<h3>Quel budget ?</h3>
<ul><li>amorti</li><li>stabilité</li></ul>
<ol><li>mesurer</li><li>essayer</li></ol>
<img src="/a.jpg" alt="une chaussure">
<img src="/b.jpg" alt="">
<img src="/c.jpg" alt="basket">
<a href="/produit/alpha">alpha</a>
<a href="/produit/beta">beta</a>
<a href="https://example.com/etude">étude</a>
<table><tr><td>modèle</td></tr></table>`

	parsed, err := ParseContent(html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.H1Count != 1 {
		t.Errorf("expected 1 h1, got %d", parsed.H1Count)
	}
	if parsed.H2Count != 3 {
		t.Errorf("expected 3 h2, got %d", parsed.H2Count)
	}
	if parsed.H3Count != 2 {
		t.Errorf("expected 2 h3, got %d", parsed.H3Count)
	}
	if parsed.ListCount != 2 {
		t.Errorf("expected 2 lists, got %d", parsed.ListCount)
	}
	if parsed.TableCount != 1 {
		t.Errorf("expected 1 table, got %d", parsed.TableCount)
	}
	if len(parsed.Images) != 3 {
		t.Fatalf("expected 3 images, got %d", len(parsed.Images))
	}
	if parsed.Images[1].Alt != "" {
		t.Errorf("expected empty alt on second image, got %q", parsed.Images[1].Alt)
	}
	if parsed.InternalLinks != 2 {
		t.Errorf("expected 2 internal links, got %d", parsed.InternalLinks)
	}
	if parsed.ExternalLinks != 1 {
		t.Errorf("expected 1 external link, got %d", parsed.ExternalLinks)
	}
	if !parsed.HasFAQHeading {
		t.Error("expected FAQ heading to be detected")
	}
	if parsed.HasFAQSchema {
		t.Error("did not expect FAQ schema without JSON-LD block")
	}
	if !strings.Contains(parsed.FirstParagraph, "Première intro") {
		t.Errorf("unexpected first paragraph: %q", parsed.FirstParagraph)
	}
	if parsed.LinkInH1 {
		t.Error("did not expect a link inside the h1")
	}
}

func TestParseContent_FAQSchemaExcludedFromText(t *testing.T) {
	html := `<p>Deux mots</p><script type="application/ld+json">{"@type":"FAQPage","name":"inflaté inflaté inflaté"}</script>`

	parsed, err := ParseContent(html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.HasFAQSchema {
		t.Error("expected FAQ schema to be detected")
	}
	if parsed.WordCount != 2 {
		t.Errorf("expected script text excluded from word count, got %d words", parsed.WordCount)
	}
}

func TestParseContent_LinkInH1(t *testing.T) {
	parsed, err := ParseContent(`<h1><a href="/accueil">Accueil</a></h1>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.LinkInH1 {
		t.Error("expected the nested h1 link to be flagged")
	}
}

func TestKeywordOccurrences(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		keyword string
		want    int
	}{
		{"case insensitive", "Chaussure CHAUSSURE chaussure", "chaussure", 3},
		{"substring inside larger word counts", "les chaussures de course", "chaussure", 1},
		{"absent", "des baskets de ville", "chaussure", 0},
		{"empty keyword", "du texte", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeywordOccurrences(tt.text, tt.keyword); got != tt.want {
				t.Errorf("KeywordOccurrences(%q, %q) = %d, want %d", tt.text, tt.keyword, got, tt.want)
			}
		})
	}
}

func TestKeywordDensity(t *testing.T) {
	if got := KeywordDensity(10, 1000); got != 1.0 {
		t.Errorf("expected density 1.0, got %v", got)
	}
	if got := KeywordDensity(5, 0); got != 0 {
		t.Errorf("expected density 0 on empty text, got %v", got)
	}
}
