package importapp

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	csvcodec "github.com/catalog/backend/internal/infrastructure/csv"
	"github.com/shopspring/decimal"
)

// ImportRow is the decoded-and-validated representation of one CSV record.
// It exists only for the duration of an import call.
type ImportRow struct {
	ID          *uint
	ExtID       *int64
	Title       string
	Description string
	Price       decimal.Decimal
	Category    string
	Image       string
	AISummary   *string
}

// FieldType is the expected type of a CSV column
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInt     FieldType = "int"
	TypeDecimal FieldType = "decimal"
	TypeURL     FieldType = "url"
)

// FieldRule defines validation for one CSV column
type FieldRule struct {
	Column    string
	Type      FieldType
	Required  bool
	MaxLength int
	MinValue  *decimal.Decimal
	Pattern   *regexp.Regexp
}

// FieldRuleBuilder builds field rules fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field creates a new field rule builder
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{rule: FieldRule{Column: column, Type: TypeString}}
}

// Required marks the field as required
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// Int sets the field type to integer
func (b *FieldRuleBuilder) Int() *FieldRuleBuilder {
	b.rule.Type = TypeInt
	return b
}

// Decimal sets the field type to decimal
func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

// URL sets the field type to absolute URL
func (b *FieldRuleBuilder) URL() *FieldRuleBuilder {
	b.rule.Type = TypeURL
	return b
}

// MaxLength sets the maximum length
func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// MinValue sets the minimum numeric value
func (b *FieldRuleBuilder) MinValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MinValue = &v
	return b
}

// Build returns the built field rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// rowRules returns the validation rules for the product import columns
func rowRules() []FieldRule {
	zero := decimal.Zero
	return []FieldRule{
		Field("id").Int().MinValue(decimal.NewFromInt(1)).Build(),
		Field("extId").Int().Build(),
		Field("title").Required().MaxLength(255).Build(),
		Field("description").Required().Build(),
		Field("price").Required().Decimal().MinValue(zero).Build(),
		Field("category").MaxLength(255).Build(),
		Field("image").Required().URL().Build(),
		Field("aiSummary").Build(),
	}
}

// validateRecord checks a decoded record against the rules and returns one
// message per violated constraint, in rule order
func validateRecord(record csvcodec.Record, rules []FieldRule) []string {
	var violations []string

	for _, rule := range rules {
		value := record.Get(rule.Column)

		if rule.Required && strings.TrimSpace(value) == "" {
			violations = append(violations, fmt.Sprintf("%s is required", rule.Column))
			continue
		}
		if value == "" {
			continue
		}

		switch rule.Type {
		case TypeInt:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				violations = append(violations, fmt.Sprintf("%s must be an integer", rule.Column))
				continue
			}
			if rule.MinValue != nil && decimal.NewFromInt(n).LessThan(*rule.MinValue) {
				violations = append(violations, fmt.Sprintf("%s must be at least %s", rule.Column, rule.MinValue.String()))
			}
		case TypeDecimal:
			d, err := decimal.NewFromString(value)
			if err != nil {
				violations = append(violations, fmt.Sprintf("%s must be a number", rule.Column))
				continue
			}
			if rule.MinValue != nil && d.LessThan(*rule.MinValue) {
				violations = append(violations, fmt.Sprintf("%s must be at least %s", rule.Column, rule.MinValue.String()))
			}
		case TypeURL:
			u, err := url.Parse(value)
			if err != nil || !u.IsAbs() || u.Host == "" {
				violations = append(violations, fmt.Sprintf("%s must be a valid URL", rule.Column))
			}
		}

		if rule.MaxLength > 0 && len(value) > rule.MaxLength {
			violations = append(violations, fmt.Sprintf("%s must not exceed %d characters", rule.Column, rule.MaxLength))
		}
	}

	return violations
}

// parseRow validates a decoded record and converts it into a typed ImportRow.
// The returned messages are empty when the row is valid.
func parseRow(record csvcodec.Record) (*ImportRow, []string) {
	if violations := validateRecord(record, rowRules()); len(violations) > 0 {
		return nil, violations
	}

	row := &ImportRow{
		Title:       record.Get("title"),
		Description: record.Get("description"),
		Category:    strings.TrimSpace(record.Get("category")),
		Image:       record.Get("image"),
	}

	if v := record.Get("id"); v != "" {
		id, _ := strconv.ParseUint(v, 10, 64)
		converted := uint(id)
		row.ID = &converted
	}
	if v := record.Get("extId"); v != "" {
		extID, _ := strconv.ParseInt(v, 10, 64)
		row.ExtID = &extID
	}
	if v := record.Get("aiSummary"); v != "" {
		summary := v
		row.AISummary = &summary
	}

	row.Price, _ = decimal.NewFromString(record.Get("price"))

	return row, nil
}
