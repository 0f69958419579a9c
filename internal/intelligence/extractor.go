package intelligence

import (
	"regexp"
	"sort"
)

const monthPattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

const amountPattern = `\d+(?:,\d+)*(?:\.\d+)?(?:\s*(?:million|billion|crores?|lakhs?|lacs?))?`

// fieldFamily is an ordered list of independent patterns for one label
type fieldFamily struct {
	label    string
	patterns []*regexp.Regexp
}

var fieldFamilies = []fieldFamily{
	{
		label: FieldDates,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+` + monthPattern + `\.?,?\s+\d{4}\b`),
			regexp.MustCompile(`(?i)\b` + monthPattern + `\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`),
			regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
			regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		},
	},
	{
		label: FieldMoney,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)[$€£₹]\s?` + amountPattern),
			regexp.MustCompile(`(?i)\b(?:rs\.?|inr)\s*` + amountPattern),
			regexp.MustCompile(`(?i)\b(?:unlimited|full)\s+financial\s+authority\b`),
		},
	},
}

// ExtractFields applies the date and money pattern families to text. Every
// label is present in the result; values are distinct and sorted.
func ExtractFields(text string) ExtractedFields {
	fields := newFields()
	for _, family := range fieldFamilies {
		var matches []string
		for _, re := range family.patterns {
			matches = append(matches, re.FindAllString(text, -1)...)
		}
		fields[family.label] = uniqueSorted(matches)
	}
	return fields
}

// uniqueSorted de-duplicates values; the result is never nil
func uniqueSorted(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
