package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"lead-agent/model"
)

var (
	fenceOpenRe  = regexp.MustCompile("^```.*?\n")
	fenceCloseRe = regexp.MustCompile("\n```$")
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
	quotedValRe  = regexp.MustCompile(`"value":\s*"([^"]*)"`)
	bareValRe    = regexp.MustCompile(`"?value"?:\s*([^,}\n]+)`)
)

// parseValue extracts the "value" key from a model response. It tolerates
// markdown fences and surrounding prose, falls back to pattern matching when
// the JSON is broken, and returns "" for null-like values or garbage.
func parseValue(raw string) string {
	raw = stripFences(raw)
	if m := jsonObjectRe.FindString(raw); m != "" {
		raw = m
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		return cleanValue(parsed["value"])
	}

	if m := quotedValRe.FindStringSubmatch(raw); m != nil {
		return cleanString(m[1])
	}
	if m := bareValRe.FindStringSubmatch(raw); m != nil {
		return cleanString(strings.Trim(strings.TrimSpace(m[1]), `"`))
	}
	return ""
}

// parseQuotation decodes the quotation batch object. Unlike single-field
// extraction there is no pattern fallback; a response that is not an object
// is an extraction miss surfaced as an error.
func parseQuotation(raw string) (model.QuotationData, error) {
	raw = stripFences(raw)
	if m := jsonObjectRe.FindString(raw); m != "" {
		raw = m
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return model.QuotationData{}, fmt.Errorf("parse quotation response: %w", err)
	}
	return model.QuotationData{
		UseType:         cleanValue(parsed["use_type"]),
		Name:            cleanValue(parsed["name"]),
		CompanyName:     cleanValue(parsed["company_name"]),
		CompanyBusiness: cleanValue(parsed["company_business"]),
		Email:           cleanValue(parsed["email"]),
		Phone:           cleanValue(parsed["phone"]),
	}, nil
}

func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = fenceOpenRe.ReplaceAllString(raw, "")
	raw = fenceCloseRe.ReplaceAllString(raw, "")
	return strings.Trim(raw, "`")
}

func cleanValue(v any) string {
	if v == nil {
		return ""
	}
	return cleanString(fmt.Sprintf("%v", v))
}

func cleanString(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "null", "n/a", "<nil>":
		return ""
	}
	return s
}
