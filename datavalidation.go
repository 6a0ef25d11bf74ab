package oxcel

import "fmt"

// ValidationType tags the data-validation variant.
type ValidationType string

const (
	ValidationList       ValidationType = "list"
	ValidationWhole      ValidationType = "whole"
	ValidationDecimal    ValidationType = "decimal"
	ValidationDate       ValidationType = "date"
	ValidationTime       ValidationType = "time"
	ValidationTextLength ValidationType = "textLength"
	ValidationCustom     ValidationType = "custom"
)

// ValidationOperator is the comparison of a numeric, date, time or
// text-length validation.
type ValidationOperator string

const (
	OpBetween            ValidationOperator = "between"
	OpNotBetween         ValidationOperator = "notBetween"
	OpEqual              ValidationOperator = "equal"
	OpNotEqual           ValidationOperator = "notEqual"
	OpGreaterThan        ValidationOperator = "greaterThan"
	OpLessThan           ValidationOperator = "lessThan"
	OpGreaterThanOrEqual ValidationOperator = "greaterThanOrEqual"
	OpLessThanOrEqual    ValidationOperator = "lessThanOrEqual"
)

var validOperators = map[ValidationOperator]bool{
	OpBetween: true, OpNotBetween: true, OpEqual: true, OpNotEqual: true,
	OpGreaterThan: true, OpLessThan: true,
	OpGreaterThanOrEqual: true, OpLessThanOrEqual: true,
}

// twoOperandOps need both Formula1 and Formula2.
var twoOperandOps = map[ValidationOperator]bool{OpBetween: true, OpNotBetween: true}

// DataValidation is one rule: the common envelope plus the variant payload.
// All variants of a sheet live in one ordered list so write-back preserves
// insertion order.
type DataValidation struct {
	Type       ValidationType
	Range      Range
	Operator   ValidationOperator // unused for list and custom
	Formula1   string             // list source, first operand, or custom formula
	Formula2   string             // second operand for between/notBetween
	Items      []string           // inline list items; rendered into Formula1
	AllowBlank bool

	ErrorTitle    string
	ErrorMessage  string
	PromptTitle   string
	PromptMessage string
}

// AddListValidation restricts the range to an inline item set.
func (s *Sheet) AddListValidation(rangeRef string, items []string, opts DataValidation) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: empty validation item list", ErrInvalidArgument)
	}
	opts.Type = ValidationList
	opts.Range = r
	opts.Items = append([]string(nil), items...)
	opts.Operator, opts.Formula1, opts.Formula2 = "", "", ""
	s.validations = append(s.validations, &opts)
	return nil
}

// AddListValidationRange restricts the range to the values of another range,
// given as a formula like "$D$1:$D$5" or "Sheet2!$A$1:$A$9".
func (s *Sheet) AddListValidationRange(rangeRef, sourceRef string, opts DataValidation) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	if sourceRef == "" {
		return fmt.Errorf("%w: empty validation source range", ErrInvalidArgument)
	}
	opts.Type = ValidationList
	opts.Range = r
	opts.Formula1 = sourceRef
	opts.Items, opts.Operator, opts.Formula2 = nil, "", ""
	s.validations = append(s.validations, &opts)
	return nil
}

// AddValidation adds a whole-number, decimal, date, time or text-length rule.
// Operator and operands are validated before anything is stored.
func (s *Sheet) AddValidation(rangeRef string, typ ValidationType, op ValidationOperator, operands []string, opts DataValidation) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	switch typ {
	case ValidationWhole, ValidationDecimal, ValidationDate, ValidationTime, ValidationTextLength:
	default:
		return fmt.Errorf("%w: validation type %q", ErrInvalidArgument, typ)
	}
	if !validOperators[op] {
		return fmt.Errorf("%w: validation operator %q", ErrInvalidArgument, op)
	}
	want := 1
	if twoOperandOps[op] {
		want = 2
	}
	if len(operands) != want {
		return fmt.Errorf("%w: operator %q needs %d operand(s), got %d", ErrInvalidArgument, op, want, len(operands))
	}
	opts.Type = typ
	opts.Range = r
	opts.Operator = op
	opts.Formula1 = operands[0]
	if want == 2 {
		opts.Formula2 = operands[1]
	} else {
		opts.Formula2 = ""
	}
	opts.Items = nil
	s.validations = append(s.validations, &opts)
	return nil
}

// AddCustomValidation restricts the range by a boolean formula.
func (s *Sheet) AddCustomValidation(rangeRef, formula string, opts DataValidation) error {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return err
	}
	if formula == "" {
		return fmt.Errorf("%w: empty custom validation formula", ErrInvalidArgument)
	}
	opts.Type = ValidationCustom
	opts.Range = r
	opts.Formula1 = formula
	opts.Items, opts.Operator, opts.Formula2 = nil, "", ""
	s.validations = append(s.validations, &opts)
	return nil
}

// Validations returns every rule in insertion order.
func (s *Sheet) Validations() []DataValidation {
	out := make([]DataValidation, len(s.validations))
	for i, v := range s.validations {
		out[i] = *v
	}
	return out
}

// ListValidations returns the list rules whose range is exactly rangeRef,
// preserving insertion order. The wire format mixes every variant in one
// collection; this projects just the list category.
func (s *Sheet) ListValidations(rangeRef string) ([]DataValidation, error) {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return nil, err
	}
	var out []DataValidation
	for _, v := range s.validations {
		if v.Type == ValidationList && v.Range == r {
			out = append(out, *v)
		}
	}
	return out, nil
}

// CountValidations returns how many rules of any category target exactly
// rangeRef.
func (s *Sheet) CountValidations(rangeRef string) (int, error) {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, v := range s.validations {
		if v.Range == r {
			n++
		}
	}
	return n, nil
}

// RemoveValidations deletes every rule whose range is exactly rangeRef and
// returns how many were removed.
func (s *Sheet) RemoveValidations(rangeRef string) (int, error) {
	r, err := ParseRange(rangeRef)
	if err != nil {
		return 0, err
	}
	kept := s.validations[:0]
	removed := 0
	for _, v := range s.validations {
		if v.Range == r {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	s.validations = kept
	return removed, nil
}
