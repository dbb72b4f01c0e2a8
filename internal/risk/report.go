package risk

import (
	"fmt"
	"strings"
	"time"
)

// BuildReportMarkdown renders an assessment as a self-contained
// markdown document, suitable for direct reading or PDF conversion.
func BuildReportMarkdown(inv InvoiceData, a RiskAssessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Invoice Risk Assessment\n\n")
	fmt.Fprintf(&b, "- Assessment ID: `%s`\n", a.ID)
	fmt.Fprintf(&b, "- Invoice: `%s`\n", a.InvoiceID)
	fmt.Fprintf(&b, "- Buyer: %s\n", sanitize(inv.Buyer.Name))
	fmt.Fprintf(&b, "- Seller: %s\n", sanitize(inv.Seller.Name))
	fmt.Fprintf(&b, "- Amount: %s %s\n", fmtAmount(inv.Amount), inv.Currency)
	fmt.Fprintf(&b, "- Due: %s\n", inv.DueDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Assessed: %s\n\n", a.CreatedAt.Format(time.RFC3339))

	fmt.Fprintf(&b, "## Decision\n\n")
	fmt.Fprintf(&b, "- Overall score: **%d/100** (`%s`)\n", a.OverallScore, a.RiskLevel)
	fmt.Fprintf(&b, "- Confidence: %.0f%%\n", a.Confidence*100)
	fmt.Fprintf(&b, "- Recommendation: %s\n", sanitize(a.Recommendation))
	if a.LedgerRef != "" {
		fmt.Fprintf(&b, "- Ledger reference: `%s`\n", a.LedgerRef)
	} else {
		fmt.Fprintf(&b, "- Ledger reference: not anchored\n")
	}
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "## Summary\n\n%s\n\n", sanitize(a.Narrative))

	fmt.Fprintf(&b, "## Risk Factors\n\n")
	fmt.Fprintf(&b, "| Factor | Score | Weight | Impact | Detail |\n")
	fmt.Fprintf(&b, "|--------|-------|--------|--------|--------|\n")
	for _, f := range a.Factors {
		fmt.Fprintf(&b, "| %s | %.0f | %.0f%% | %s | %s |\n",
			sanitizeCell(f.Name), f.Score, f.Weight*100, f.Impact, sanitizeCell(f.Description))
	}
	fmt.Fprintf(&b, "\n")

	t := a.SuggestedTerms
	fmt.Fprintf(&b, "## Suggested Terms\n\n")
	fmt.Fprintf(&b, "- Interest rate: %.2f%%\n", t.InterestRate)
	fmt.Fprintf(&b, "- Collateral required: %s\n", yesNo(t.CollateralRequired))
	fmt.Fprintf(&b, "- Credit limit: %s %s\n", fmtAmount(t.CreditLimit), inv.Currency)
	fmt.Fprintf(&b, "- Advance rate: %.0f%%\n", t.AdvanceRate)
	fmt.Fprintf(&b, "- Payment terms: %s\n", t.PaymentTerms)

	return b.String()
}

func sanitize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

func sanitizeCell(s string) string {
	return strings.ReplaceAll(sanitize(s), "|", "\\|")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// fmtAmount renders a monetary amount with comma separators and two
// decimals (e.g. 1234567.5 → "1,234,567.50").
func fmtAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]
	neg := false
	if strings.HasPrefix(intPart, "-") {
		neg = true
		intPart = intPart[1:]
	}
	var out strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	res := out.String() + frac
	if neg {
		res = "-" + res
	}
	return res
}
