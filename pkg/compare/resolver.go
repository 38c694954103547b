// Package compare resolves "compare the first and second" or
// "iphone vs pixel" turns against the session's last shown results.
package compare

import (
	"fmt"
	"regexp"
	"strings"

	"ecommerce-chatbot-be/pkg/catalog"
)

// Ordinal vocabulary, scanned as whole words. Index order matters: the
// resolved pair is sorted by list position, not by textual order.
var ordinalPatterns = []struct {
	index   int
	pattern *regexp.Regexp
}{
	{0, regexp.MustCompile(`\b(?:first|1st|one)\b`)},
	{1, regexp.MustCompile(`\b(?:second|2nd|two)\b`)},
	{2, regexp.MustCompile(`\b(?:third|3rd|three)\b`)},
}

var (
	vsPattern      = regexp.MustCompile(`(.+?)\s+(?:vs\.?|versus)\s+(.+)`)
	compareAndPatt = regexp.MustCompile(`compare\s+(.+?)\s+and\s+(.+)`)

	triggerWords = []string{"compare", "vs", "versus", "difference", "better"}
)

// Pair is a resolved two-product comparison.
type Pair struct {
	Left  catalog.Product
	Right catalog.Product
}

// ErrUnresolved asks the user to restate which items to compare.
type ErrUnresolved struct {
	Reason string
}

func (e *ErrUnresolved) Error() string {
	return "compare reference unresolved: " + e.Reason
}

// Resolve maps a compare message onto two distinct products from the
// last result set. It needs at least two prior results and returns
// ErrUnresolved for anything it cannot pin down.
func Resolve(message string, lastResults []catalog.Product) (*Pair, error) {
	if len(lastResults) < 2 {
		return nil, &ErrUnresolved{Reason: "fewer than two prior results"}
	}

	lower := strings.ToLower(message)

	indices := ordinalIndices(lower)
	if len(indices) < 2 {
		if left, right, ok := namedIndices(lower, lastResults); ok {
			indices = []int{left, right}
		}
	}

	switch len(indices) {
	case 0:
		if hasTrigger(lower) {
			indices = []int{0, 1}
		}
	case 1:
		other := 0
		if indices[0] == 0 {
			other = 1
		}
		indices = append(indices, other)
	}

	if len(indices) < 2 {
		return nil, &ErrUnresolved{Reason: "no comparable references found"}
	}
	left, right := indices[0], indices[1]
	if left == right {
		return nil, &ErrUnresolved{Reason: "references point at the same item"}
	}
	if left >= len(lastResults) || right >= len(lastResults) {
		return nil, &ErrUnresolved{Reason: "reference outside the shown list"}
	}

	return &Pair{Left: lastResults[left], Right: lastResults[right]}, nil
}

// ordinalIndices returns the first two distinct ordinals mentioned,
// sorted by their list index.
func ordinalIndices(lower string) []int {
	var indices []int
	for _, o := range ordinalPatterns {
		if o.pattern.MatchString(lower) {
			indices = append(indices, o.index)
			if len(indices) == 2 {
				break
			}
		}
	}
	return indices
}

// namedIndices extracts "X vs Y" or "compare X and Y" names and scores
// each side against the result titles.
func namedIndices(lower string, lastResults []catalog.Product) (int, int, bool) {
	var leftName, rightName string
	if m := vsPattern.FindStringSubmatch(lower); m != nil {
		leftName, rightName = m[1], m[2]
	} else if m := compareAndPatt.FindStringSubmatch(lower); m != nil {
		leftName, rightName = m[1], m[2]
	} else {
		return 0, 0, false
	}

	leftName = strings.TrimPrefix(strings.TrimSpace(leftName), "compare ")
	rightName = strings.TrimSpace(rightName)

	left, okLeft := bestTitleMatch(leftName, lastResults)
	right, okRight := bestTitleMatch(rightName, lastResults)

	switch {
	case okLeft && okRight:
		return left, right, true
	case okLeft:
		if left == 0 {
			return 0, 1, true
		}
		return left, 0, true
	case okRight:
		if right == 0 {
			return 1, 0, true
		}
		return 0, right, true
	default:
		return 0, 0, false
	}
}

// bestTitleMatch scores a name phrase against each title by token
// overlap, with a bonus when the whole phrase appears verbatim.
func bestTitleMatch(name string, results []catalog.Product) (int, bool) {
	tokens := strings.Fields(name)
	bestIdx := -1
	bestScore := 0
	for i, p := range results {
		title := strings.ToLower(p.Title)
		score := 0
		for _, t := range tokens {
			if strings.Contains(title, t) {
				score++
			}
		}
		if name != "" && strings.Contains(title, name) {
			score += 2
		}
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	return bestIdx, bestIdx >= 0
}

func hasTrigger(lower string) bool {
	for _, w := range triggerWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// Summary renders the two-item comparison text.
func Summary(pair *Pair) string {
	return fmt.Sprintf("Comparing %s and %s:\n\n%s\n\n%s",
		pair.Left.Title, pair.Right.Title,
		productSummary(&pair.Left), productSummary(&pair.Right))
}

func productSummary(p *catalog.Product) string {
	stock := "out of stock"
	if p.InStock() {
		stock = "in stock"
	}
	line := fmt.Sprintf("%s: $%.2f, rated %.1f/5", p.Title, p.Price, p.Rating)
	if p.Brand != "" {
		line += fmt.Sprintf(", by %s", p.Brand)
	}
	if p.DiscountPercentage > 0 {
		line += fmt.Sprintf(", %.0f%% off", p.DiscountPercentage)
	}
	return line + ", " + stock
}
