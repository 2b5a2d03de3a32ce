package schema

import (
	"strings"
	"unicode"
)

// cleanParts trims punctuation from the ends of each name part and drops empty parts.
func cleanParts(parts []string) []string {
	var cleaned []string
	for _, p := range parts {
		cp := strings.TrimFunc(p, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-' && r != '\'' && r != '.'
		})
		cp = strings.TrimSuffix(cp, ".")
		if cp != "" {
			cleaned = append(cleaned, cp)
		}
	}
	return cleaned
}

// getInitial extracts the first rune of a name part.
func getInitial(part string) string {
	rr := []rune(part)
	if len(rr) > 0 {
		return string(rr[0])
	}
	return ""
}

// AbbreviateName formats "Maria Lopez Garcia" as "Maria L", keeping listings
// readable without printing a patient's full surname.
func AbbreviateName(name, surname string) string {
	first := cleanParts(strings.Fields(strings.Trim(strings.TrimSpace(name), "()\"'`")))
	last := cleanParts(strings.Fields(strings.Trim(strings.TrimSpace(surname), "()\"'`")))

	switch {
	case len(first) > 0 && len(last) > 0:
		return first[0] + " " + getInitial(last[0])
	case len(first) > 0:
		return first[0]
	case len(last) > 0:
		return getInitial(last[0])
	default:
		return ""
	}
}

// DisplayName returns the abbreviated name of the patient.
func (p PatientRecord) DisplayName() string {
	return AbbreviateName(p.Name, p.Surname)
}

// ParseScale converts user input into a ScaleID, ignoring case.
func ParseScale(s string) (ScaleID, bool) {
	for _, scale := range AllScales {
		if strings.EqualFold(string(scale), strings.TrimSpace(s)) {
			return scale, true
		}
	}
	return "", false
}
