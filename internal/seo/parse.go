package seo

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// faqHeadingExpr matches visual FAQ section headings in French and English.
var faqHeadingExpr = regexp.MustCompile(`(?i)\bfaq\b|questions?\s+fr[ée]quentes|foire\s+aux\s+questions`)

// ImageInfo is one inline image extracted from the content body.
type ImageInfo struct {
	Src string
	Alt string
}

// ParsedContent holds everything the category checks need from one HTML body.
type ParsedContent struct {
	PlainText      string
	WordCount      int
	H1Count        int
	H2Count        int
	H3Count        int
	ParagraphWords []int
	ListCount      int
	Images         []ImageInfo
	InternalLinks  int
	ExternalLinks  int
	FirstParagraph string
	TableCount     int
	HasFAQSchema   bool
	HasFAQHeading  bool
	LinkInH1       bool
}

// ParseContent extracts the structural facts the analyzer scores against.
// Parsing never fails on malformed markup; the HTML parser recovers and the
// checks simply see whatever structure survived.
func ParseContent(htmlBody string) (*ParsedContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil, err
	}

	parsed := &ParsedContent{}

	// Plain text excludes JSON-LD blocks so schema markup does not inflate
	// the word count.
	textDoc := doc.Clone()
	textDoc.Find("script, style").Remove()
	parsed.PlainText = strings.TrimSpace(textDoc.Text())
	parsed.WordCount = len(strings.Fields(parsed.PlainText))

	parsed.H1Count = doc.Find("h1").Length()
	parsed.H2Count = doc.Find("h2").Length()
	parsed.H3Count = doc.Find("h3").Length()
	parsed.LinkInH1 = doc.Find("h1 a").Length() > 0

	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		words := len(strings.Fields(s.Text()))
		parsed.ParagraphWords = append(parsed.ParagraphWords, words)
		if parsed.FirstParagraph == "" && words > 0 {
			parsed.FirstParagraph = strings.TrimSpace(s.Text())
		}
	})

	parsed.ListCount = doc.Find("ul, ol").Length()
	parsed.TableCount = doc.Find("table").Length()

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, _ := s.Attr("alt")
		parsed.Images = append(parsed.Images, ImageInfo{Src: src, Alt: strings.TrimSpace(alt)})
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if strings.HasPrefix(href, "http") {
			parsed.ExternalLinks++
		} else {
			parsed.InternalLinks++
		}
	})

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		if strings.Contains(s.Text(), "FAQPage") {
			parsed.HasFAQSchema = true
		}
	})

	doc.Find("h2, h3").Each(func(_ int, s *goquery.Selection) {
		if faqHeadingExpr.MatchString(s.Text()) {
			parsed.HasFAQHeading = true
		}
	})

	return parsed, nil
}

// KeywordOccurrences counts case-insensitive substring occurrences of the
// keyword in the plain text. Substrings inside larger words count; this is
// deliberate and other parts of the product depend on the resulting scores.
func KeywordOccurrences(plainText, keyword string) int {
	if keyword == "" {
		return 0
	}
	return strings.Count(strings.ToLower(plainText), strings.ToLower(keyword))
}

// KeywordDensity returns occurrences per hundred words.
func KeywordDensity(occurrences, wordCount int) float64 {
	if wordCount == 0 {
		return 0
	}
	return float64(occurrences) / float64(wordCount) * 100
}
