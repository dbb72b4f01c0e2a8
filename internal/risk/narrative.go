package risk

import (
	"fmt"
	"strings"
)

// NarrativePrompt renders the synthesis outcome into the prompt given
// to the text generator. The generator is asked for plain prose; the
// factor table grounds it in the actual numbers.
func NarrativePrompt(inv InvoiceData, score float64, level RiskLevel, factors []RiskFactor) string {
	var b strings.Builder
	b.WriteString("You are a credit risk analyst. Write a concise assessment narrative (3-5 sentences, plain prose, no markdown) for the following invoice financing decision.\n\n")
	fmt.Fprintf(&b, "Invoice %s: %.2f %s from %s to %s, payment terms %q.\n",
		inv.ID, inv.Amount, inv.Currency, inv.Seller.Name, inv.Buyer.Name, inv.PaymentTerms)
	fmt.Fprintf(&b, "Overall risk score: %.0f/100 (%s).\n\nContributing factors:\n", score, level)
	for _, f := range factors {
		fmt.Fprintf(&b, "- %s: score %.0f, weight %.0f%%, %s. %s\n",
			f.Name, f.Score, f.Weight*100, strings.ToLower(string(f.Impact)), f.Description)
	}
	b.WriteString("\nSummarize the dominant drivers and the resulting recommendation. Do not invent figures beyond those given.")
	return b.String()
}

// FallbackNarrative is the deterministic summary used when narrative
// generation is unavailable. The assessment itself is unaffected.
func FallbackNarrative(score float64, level RiskLevel, factors []RiskFactor) string {
	dominant := "no contributing factors recorded"
	if len(factors) > 0 {
		top := factors[0]
		for _, f := range factors[1:] {
			if f.Score*f.Weight > top.Score*top.Weight {
				top = f
			}
		}
		dominant = fmt.Sprintf("dominant factor %s (score %.0f)", top.Name, top.Score)
	}
	return fmt.Sprintf("Risk score of %.1f (%s) based on weighted analysis of credit, identity, market, and invoice factors; %s. Narrative generation was unavailable; figures above are authoritative.",
		score, level, dominant)
}
