package options

import (
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// NameSeparator joins option values into a variant's display name. Values may not
// contain it, otherwise two different combinations could derive the same name.
const NameSeparator = " / "

// Option is one seller-defined dimension of a product, e.g. SIZE {S, M, L}.
type Option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Set is the ordered, in-progress list of options owned by one edit session.
// It places no cap on the number of options; callers enforce EnsureWithinLimit.
type Set struct {
	options []Option
}

// NewSet builds a Set from existing options, applying the same normalisation and
// duplicate rejection that AddOptionValue applies.
func NewSet(opts []Option) *Set {
	s := &Set{}
	for _, opt := range opts {
		idx := s.AddOption()
		_ = s.SetOptionName(idx, opt.Name)
		for _, value := range opt.Values {
			_, _ = s.AddOptionValue(idx, value)
		}
	}
	return s
}

func Normalize(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// Len returns the number of option rows, including empty ones.
func (s *Set) Len() int {
	return len(s.options)
}

// Options returns a deep copy of the option rows in order.
func (s *Set) Options() []Option {
	out := make([]Option, 0, len(s.options))
	for _, opt := range s.options {
		out = append(out, Option{Name: opt.Name, Values: append([]string{}, opt.Values...)})
	}
	return out
}

// NonEmpty returns the options that contribute to the variant matrix: those with
// at least one value, in order.
func (s *Set) NonEmpty() []Option {
	out := []Option{}
	for _, opt := range s.Options() {
		if len(opt.Values) > 0 {
			out = append(out, opt)
		}
	}
	return out
}

// AddOption appends an empty option row and returns its index.
func (s *Set) AddOption() int {
	s.options = append(s.options, Option{Name: "", Values: []string{}})
	return len(s.options) - 1
}

func (s *Set) RemoveOption(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.options = append(s.options[:index], s.options[index+1:]...)
	return nil
}

// SetOptionName stores the normalised name. Empty names are accepted here and
// rejected by Validate.
func (s *Set) SetOptionName(index int, name string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.options[index].Name = Normalize(name)
	return nil
}

// AddOptionValue appends the normalised value and reports whether the option
// changed. Blank input and case-insensitive duplicates are no-ops.
func (s *Set) AddOptionValue(index int, raw string) (bool, error) {
	if err := s.checkIndex(index); err != nil {
		return false, err
	}
	value := Normalize(raw)
	if value == "" {
		return false, nil
	}
	for _, existing := range s.options[index].Values {
		if existing == value {
			return false, nil
		}
	}
	s.options[index].Values = append(s.options[index].Values, value)
	return true, nil
}

func (s *Set) RemoveOptionValue(index, valueIndex int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	values := s.options[index].Values
	if valueIndex < 0 || valueIndex >= len(values) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("option %d has no value at index %d", index, valueIndex))
	}
	s.options[index].Values = append(values[:valueIndex], values[valueIndex+1:]...)
	return nil
}

// Validate runs the submit-time checks. Field paths in the details map point at
// the offending option so the caller can surface them next to the input.
func (s *Set) Validate() error {
	details := map[string]string{}
	names := map[string]struct{}{}
	for i, opt := range s.options {
		if strings.TrimSpace(opt.Name) == "" {
			details[fmt.Sprintf("options[%d].name", i)] = "is required"
		} else if _, dup := names[opt.Name]; dup {
			details[fmt.Sprintf("options[%d].name", i)] = "is duplicated"
		}
		names[opt.Name] = struct{}{}
		for j, value := range opt.Values {
			if strings.Contains(value, NameSeparator) {
				details[fmt.Sprintf("options[%d].values[%d]", i, j)] = fmt.Sprintf("must not contain %q", NameSeparator)
			}
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid options").WithDetails(details)
	}
	return nil
}

// EnsureWithinLimit enforces the caller-side cap on concurrent options.
func (s *Set) EnsureWithinLimit(max int) error {
	if max > 0 && len(s.options) > max {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("at most %d options are allowed", max)).
			WithDetails(map[string]any{"max_options": max, "options": len(s.options)})
	}
	return nil
}

func (s *Set) checkIndex(index int) error {
	if index < 0 || index >= len(s.options) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("option index %d out of range", index))
	}
	return nil
}
