/*
Package insight is the canned assistant behind the dashboard chat panel.

PURPOSE:
  Classifies a free-text question into one of a handful of intents by
  keyword matching and returns a fixed response template for it. Messages
  that name a distributor or product from the registry get a pointer to the
  matching dashboard view. No model, no external calls, no conversation
  state; the reply depends only on the current message. Every input,
  including nonsense, gets a non-empty reply.
*/
package insight

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/returns-review/catalog"
)

var hundred = decimal.NewFromInt(100)

type intent int

const (
	intentUnknown intent = iota
	intentHighRisk
	intentReturnRate
	intentStructuring
	intentPending
	intentGreeting
)

// keywordIntents maps trigger substrings to intents. First match wins, so
// more specific triggers come first.
var keywordIntents = []struct {
	keywords []string
	intent   intent
}{
	{[]string{"structur", "split", "multiple return"}, intentStructuring},
	{[]string{"high risk", "high-risk", "risky", "suspicious", "flag"}, intentHighRisk},
	{[]string{"pending", "review", "approve", "waiting"}, intentPending},
	{[]string{"return rate", "rate", "trend", "ratio"}, intentReturnRate},
	{[]string{"hello", "hi", "hey", "help"}, intentGreeting},
}

var responses = map[intent]string{
	intentHighRisk: "High-risk returns are flagged when a batch's cumulative return value " +
		"exceeds 2.5x the distributor's baseline return rate. Check the pending review " +
		"queue on each distributor page; the risk note on each return explains what tripped the flag.",
	intentReturnRate: "Return rates here are quantity-based: returned units divided by " +
		"purchased units for the period. The monthly trend chart shows the rate per month; " +
		"distributor and product pivots rank by the same metric.",
	intentStructuring: "Splitting one large return into several smaller transactions within " +
		"a single batch is a structuring pattern. Any return that is not the first in its " +
		"batch is rated at least medium risk and routed to manual review.",
	intentPending: "Returns rated medium or high start as pending and wait for a reviewer. " +
		"Open a distributor page and use approve or reject on each pending return; a " +
		"rejection asks for a reason. Decisions are final.",
	intentGreeting: "Hello! Ask me about return rates, high-risk returns, structuring " +
		"patterns, or the pending review queue.",
	intentUnknown: "I can explain return rates, risk ratings, structuring patterns, and the " +
		"review workflow. Try asking about one of those.",
}

// Reply answers one chat message. Registry entities named in the message
// take precedence over the generic keyword intents.
func Reply(message string) string {
	if entity := matchEntity(message); entity != "" {
		return entity
	}
	return responses[classify(message)]
}

// matchEntity checks the message against distributor and product names and
// points the user at the matching dashboard view.
func matchEntity(message string) string {
	normalized := strings.ToLower(message)

	for _, d := range catalog.Distributors() {
		if strings.Contains(normalized, strings.ToLower(d.Name)) || strings.Contains(normalized, strings.ToLower(d.ID)) {
			return fmt.Sprintf("%s (%s) has a baseline return rate of %s. Open its distributor page "+
				"for the monthly trend, batch and product pivots, and any returns pending review.",
				d.Name, d.ID, d.AvgReturnRate.Mul(hundred).StringFixed(1)+"%")
		}
	}
	for _, p := range catalog.Products() {
		if strings.Contains(normalized, strings.ToLower(p.Code)) || strings.Contains(normalized, strings.ToLower(p.Name)) {
			return fmt.Sprintf("%s (%s) appears in the product pivot on each distributor page; the "+
				"top-returned-products list on the dashboard shows how its return volume compares.",
				p.Name, p.Code)
		}
	}
	return ""
}

func classify(message string) intent {
	normalized := strings.ToLower(message)
	for _, entry := range keywordIntents {
		for _, keyword := range entry.keywords {
			if strings.Contains(normalized, keyword) {
				return entry.intent
			}
		}
	}
	return intentUnknown
}
