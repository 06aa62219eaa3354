package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Transcript loading. The engine itself only consumes strings; everything
// here is the file-system collaborator that feeds it: plain-text and HTML
// transcripts, with recording dates encoded in filenames as MM-DD_*.

var datePattern = regexp.MustCompile(`^(\d{2})-(\d{2})_`)

// transcriptExts lists the file extensions recognized as transcripts.
var transcriptExts = map[string]bool{
	".txt":  true,
	".html": true,
	".htm":  true,
}

// Load reads a transcript file as UTF-8 text. HTML transcripts have their
// visible text extracted before segmentation.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	text := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return extractVisibleText(text)
	default:
		return text, nil
	}
}

// TranscriptDate extracts a YYYY-MM-DD date from an MM-DD_* filename,
// assuming the current year. Returns "" when the filename carries no date
// or the date is not a real calendar date.
func TranscriptDate(filename string) string {
	m := datePattern.FindStringSubmatch(filename)
	if m == nil {
		return ""
	}

	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	d := time.Date(time.Now().Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components (99-99 rolls over), so a
	// changed month or day means the filename date was impossible.
	if int(d.Month()) != month || d.Day() != day {
		return ""
	}
	return d.Format("2006-01-02")
}

// ListTranscripts returns the transcript files directly under dir, sorted by
// name so same-day recordings stay in capture order.
func ListTranscripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if transcriptExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// GroupByDate buckets transcript paths by the date in their filename.
// Multiple recordings from the same day are analyzed as one transcript,
// matching how they were captured. Undated files each form their own group
// keyed by base name.
func GroupByDate(paths []string) map[string][]string {
	groups := make(map[string][]string)
	for _, path := range paths {
		key := TranscriptDate(filepath.Base(path))
		if key == "" {
			key = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		groups[key] = append(groups[key], path)
	}
	return groups
}

// LoadGroup concatenates the content of same-day transcript files in order,
// separated by the segmentation boundary marker.
func LoadGroup(paths []string) (string, error) {
	var parts []string
	for _, path := range paths {
		text, err := Load(path)
		if err != nil {
			return "", fmt.Errorf("load %s: %w", path, err)
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// extractVisibleText extracts text nodes from HTML, skipping scripts and
// styles, one line per text node so segmentation sees utterance boundaries.
func extractVisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString("\n")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return buf.String(), nil
}
