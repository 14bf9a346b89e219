package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/handtohand/marketplace/internal/client/client"
)

func printJSON(w io.Writer, doc client.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

var matchSections = []struct {
	key   string
	title string
}{
	{"offersForWishes", "Offers for your wishes"},
	{"wishesForOffers", "Wishes for your offers"},
	{"reciprocalMatches", "Reciprocal matches"},
}

// printMatches renders one table per returned category.
func printMatches(w io.Writer, doc client.Document) {
	matches, _ := doc["matches"].(map[string]any)

	for _, sec := range matchSections {
		list, ok := matches[sec.key].([]any)
		if !ok {
			continue
		}

		fmt.Fprintf(w, "%s (%d)\n", sec.title, len(list))
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, item := range list {
			m, _ := item.(map[string]any)
			offer, _ := m["offer"].(map[string]any)
			wish, _ := m["wish"].(map[string]any)
			fmt.Fprintf(tw, "  %.1f\t%s\t%s\t%s\n",
				number(m["score"]), describe(offer), describe(wish), reasons(m["reasons"]))
		}
		tw.Flush()
	}
}

func printStats(w io.Writer, doc client.Document) {
	s, _ := doc["stats"].(map[string]any)
	fmt.Fprintf(w, "Completed exchanges: %.0f\n", number(s["completed_count"]))
	fmt.Fprintf(w, "Feedback received:   %.0f\n", number(s["total_feedback"]))
	fmt.Fprintf(w, "Would exchange again: %.0f%%\n", number(s["recommendation_percentage"]))
}

// describe prints "title (owner, area)".
func describe(l map[string]any) string {
	title, _ := l["title"].(string)
	user, _ := l["user"].(map[string]any)
	name, _ := user["display_name"].(string)
	area, _ := user["postcode_outward"].(string)

	var who []string
	for _, s := range []string{name, area} {
		if s != "" {
			who = append(who, s)
		}
	}
	if len(who) == 0 {
		return title
	}
	return fmt.Sprintf("%s (%s)", title, strings.Join(who, ", "))
}

func reasons(v any) string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, r := range list {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return strings.Join(out, "; ")
}

func number(v any) float64 {
	f, _ := v.(float64)
	return f
}
