package domain

import (
	"fmt"
	"strings"
)

type Field string

const (
	FieldDate          Field = "date"
	FieldBotUsername   Field = "bot_username"
	FieldBotNoteName   Field = "bot_note_name"
	FieldProduct       Field = "product"
	FieldGroup         Field = "group"
	FieldConsultations Field = "consultations"
	FieldLeads         Field = "leads"
)

// Fields lists every logical field in inference priority order.
var Fields = []Field{
	FieldDate,
	FieldConsultations,
	FieldLeads,
	FieldBotNoteName,
	FieldBotUsername,
	FieldProduct,
	FieldGroup,
}

var requiredFields = []Field{FieldDate, FieldBotUsername, FieldConsultations, FieldLeads}

// ColumnMapping maps a logical field to the raw sheet header holding it.
type ColumnMapping map[Field]string

// ParseColumnMapping converts a field-name keyed map (as found in config
// files) into a ColumnMapping. Unknown field names are configuration errors.
func ParseColumnMapping(raw map[string]string) (ColumnMapping, error) {
	known := make(map[Field]bool, len(Fields))
	for _, f := range Fields {
		known[f] = true
	}

	m := make(ColumnMapping, len(raw))
	for k, h := range raw {
		f := Field(strings.TrimSpace(k))
		if !known[f] {
			return nil, fmt.Errorf("%w: unknown field %q", ErrConfiguration, k)
		}
		m[f] = strings.TrimSpace(h)
	}
	return m, nil
}

func (m ColumnMapping) IsEmpty() bool {
	for _, h := range m {
		if strings.TrimSpace(h) != "" {
			return false
		}
	}
	return true
}

// Validate checks that every required field is mapped and, when headers are
// known, that each mapped header exists.
func (m ColumnMapping) Validate(headers []string) error {
	for _, f := range requiredFields {
		if strings.TrimSpace(m[f]) == "" {
			return fmt.Errorf("%w: field %q is not mapped", ErrConfiguration, f)
		}
	}
	if len(headers) == 0 {
		return nil
	}

	known := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		known[strings.TrimSpace(h)] = struct{}{}
	}
	for f, h := range m {
		if h == "" {
			continue
		}
		if _, ok := known[h]; !ok {
			return fmt.Errorf("%w: field %q mapped to missing header %q", ErrConfiguration, f, h)
		}
	}
	return nil
}

// InferenceRule describes which headers may hold a field.
type InferenceRule struct {
	Field    Field
	Contains []string
	Excludes []string
}

func DefaultInferenceRules() []InferenceRule {
	return []InferenceRule{
		{Field: FieldDate, Contains: []string{"日期", "date"}},
		{Field: FieldConsultations, Contains: []string{"咨询", "consult"}, Excludes: []string{"率", "rate"}},
		{Field: FieldLeads, Contains: []string{"线索", "lead"}},
		{Field: FieldBotNoteName, Contains: []string{"备注", "note"}},
		{Field: FieldBotUsername, Contains: []string{"用户名", "username", "机器人", "bot"}},
		{Field: FieldProduct, Contains: []string{"产品", "product"}},
		{Field: FieldGroup, Contains: []string{"小组", "group", "team"}},
	}
}

// InferColumnMapping guesses the mapping from header names. Rules are applied
// in order, the first matching header wins and a header is never assigned to
// two fields. The date falls back to the first column.
func InferColumnMapping(headers []string, rules []InferenceRule) ColumnMapping {
	m := ColumnMapping{}
	taken := make(map[string]bool, len(headers))

	for _, rule := range rules {
		for _, h := range headers {
			h = strings.TrimSpace(h)
			if h == "" || taken[h] {
				continue
			}
			if matchesRule(strings.ToLower(h), rule) {
				m[rule.Field] = h
				taken[h] = true
				break
			}
		}
	}

	if _, ok := m[FieldDate]; !ok && len(headers) > 0 {
		first := strings.TrimSpace(headers[0])
		if first != "" && !taken[first] {
			m[FieldDate] = first
		}
	}

	return m
}

func matchesRule(header string, rule InferenceRule) bool {
	for _, ex := range rule.Excludes {
		if strings.Contains(header, strings.ToLower(ex)) {
			return false
		}
	}
	for _, c := range rule.Contains {
		if strings.Contains(header, strings.ToLower(c)) {
			return true
		}
	}
	return false
}
