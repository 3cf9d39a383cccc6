package valueobject

import (
	"strings"
	"unicode"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DisplayLocale is used for human-readable amounts in reports.
var DisplayLocale = language.MustParse("es-PE")

// layoutSample is formatted once per call to learn the locale's symbol
// placement and separators.
const layoutSample = 1234.5

// Display renders m with its currency symbol for the given locale. Digits
// come from the exact decimal, rounded to cents, so amounts beyond float64
// precision keep every digit.
func (m Money) Display(tag language.Tag) string {
	unit, err := currency.ParseISO(string(m.currency))
	if err != nil {
		return m.String()
	}
	sample := []rune(message.NewPrinter(tag).Sprint(currency.Symbol(unit.Amount(layoutSample))))
	first, last := digitSpan(sample)
	if first < 0 {
		return m.String()
	}
	prefix, suffix := string(sample[:first]), string(sample[last+1:])
	group, decimalSep := separators(sample[first : last+1])

	intPart, frac, _ := strings.Cut(m.amount.Abs().StringFixed(2), ".")

	var b strings.Builder
	b.WriteString(prefix)
	if m.amount.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(groupDigits(intPart, group))
	b.WriteString(decimalSep)
	b.WriteString(frac)
	b.WriteString(suffix)
	return b.String()
}

func digitSpan(rs []rune) (first, last int) {
	first, last = -1, -1
	for i, r := range rs {
		if unicode.IsDigit(r) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last
}

// separators reads the grouping and decimal marks off a formatted 1234.50.
func separators(num []rune) (group, decimalSep string) {
	decimalSep = "."
	if len(num) > 1 && !unicode.IsDigit(num[1]) {
		group = string(num[1])
	}
	if n := len(num); n >= 3 && !unicode.IsDigit(num[n-3]) {
		decimalSep = string(num[n-3])
	}
	return group, decimalSep
}

func groupDigits(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
