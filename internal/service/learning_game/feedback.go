package learning_game

import (
	"fmt"
	"strings"

	"github.com/phrazzld/lingua-bot/internal/domain"
)

// ComposeFeedback renders the reaction to an answer. rating is the stored
// rating after the verdict was applied.
func ComposeFeedback(q *PendingQuestion, submitted string, v Verdict, rating float64) string {
	var b strings.Builder
	if v.Correct {
		fmt.Fprintf(&b, "✅ %s [%d%%]", submitted, domain.RatingPercent(rating))
		if v.ViaAI {
			b.WriteString("\n" + referenceLabel + q.ExpectedAnswer)
		}
		return b.String()
	}

	b.WriteString("🚫 " + submitted)
	if q.Tier.UsesSentence() && v.Explanation != "" {
		b.WriteString("\n" + v.Explanation)
	}
	b.WriteString("\n" + expectedLabel + q.ExpectedAnswer)
	return b.String()
}
