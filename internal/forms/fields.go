// Package forms binds and validates HTML form submissions and describes the
// fields templates render.
package forms

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Field kinds.
const (
	KindChar   = "CharField"
	KindChoice = "ChoiceField"
)

// Widgets understood by the templates.
const (
	WidgetText     = "text"
	WidgetTextarea = "textarea"
	WidgetPassword = "password"
	WidgetEmail    = "email"
	WidgetSelect   = "select"
)

const (
	msgRequired      = "Обязательное поле."
	msgInvalidChoice = "Выберите корректный вариант. Вашего варианта нет среди допустимых значений."
)

// Choice is one option of a ChoiceField. An empty Value is the blank choice.
type Choice struct {
	Value string
	Label string
}

// Field describes one form input together with its bound value and errors.
type Field struct {
	Name      string
	Kind      string
	Widget    string
	Label     string
	HelpText  string
	Required  bool
	MaxLength int
	Choices   []Choice
	Value     string
	Errors    []string
}

// CharField builds a text input.
func CharField(name, label string, required bool, widget string) *Field {
	return &Field{Name: name, Kind: KindChar, Widget: widget, Label: label, Required: required}
}

// ChoiceField builds a select input. Optional fields get a leading blank choice.
func ChoiceField(name, label string, required bool, choices []Choice) *Field {
	all := make([]Choice, 0, len(choices)+1)
	if !required {
		all = append(all, Choice{Value: "", Label: "---------"})
	}
	all = append(all, choices...)
	return &Field{Name: name, Kind: KindChoice, Widget: WidgetSelect, Label: label, Required: required, Choices: all}
}

// Selected reports whether value is the field's current value. Used by templates.
func (f *Field) Selected(value string) bool {
	return f.Value == value
}

func (f *Field) clean(raw string) {
	f.Errors = nil
	switch f.Kind {
	case KindChar:
		if f.Widget != WidgetPassword {
			raw = strings.TrimSpace(raw)
		}
		f.Value = raw
		if f.Required && raw == "" {
			f.Errors = append(f.Errors, msgRequired)
			return
		}
		if f.MaxLength > 0 && utf8.RuneCountInString(raw) > f.MaxLength {
			f.Errors = append(f.Errors, "Убедитесь, что это значение содержит не более "+strconv.Itoa(f.MaxLength)+" символов.")
		}
	case KindChoice:
		raw = strings.TrimSpace(raw)
		f.Value = raw
		if raw == "" {
			if f.Required {
				f.Errors = append(f.Errors, msgRequired)
			}
			return
		}
		for _, c := range f.Choices {
			if c.Value == raw {
				return
			}
		}
		f.Errors = append(f.Errors, msgInvalidChoice)
	}
}

// Form is an ordered set of fields plus errors not tied to a single field.
type Form struct {
	Fields         []*Field
	NonFieldErrors []string
	bound          bool
}

// Field returns the named field or nil.
func (f *Form) Field(name string) *Field {
	for _, field := range f.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// Bind reads every field from get and runs the per-field checks.
func (f *Form) Bind(get func(string) string) {
	f.bound = true
	f.NonFieldErrors = nil
	for _, field := range f.Fields {
		field.clean(get(field.Name))
	}
}

// AddError attaches msg to the named field, or to the form when name is empty.
func (f *Form) AddError(name, msg string) {
	if field := f.Field(name); field != nil {
		field.Errors = append(field.Errors, msg)
		return
	}
	f.NonFieldErrors = append(f.NonFieldErrors, msg)
}

// IsBound reports whether Bind has been called.
func (f *Form) IsBound() bool {
	return f.bound
}

// Valid reports whether the form was bound and has no errors.
func (f *Form) Valid() bool {
	if !f.bound || len(f.NonFieldErrors) > 0 {
		return false
	}
	for _, field := range f.Fields {
		if len(field.Errors) > 0 {
			return false
		}
	}
	return true
}

// Errors maps field names to their messages; form-wide errors use the "__all__" key.
func (f *Form) Errors() map[string][]string {
	errs := map[string][]string{}
	for _, field := range f.Fields {
		if len(field.Errors) > 0 {
			errs[field.Name] = field.Errors
		}
	}
	if len(f.NonFieldErrors) > 0 {
		errs["__all__"] = f.NonFieldErrors
	}
	return errs
}

// Value returns the bound value of the named field.
func (f *Form) Value(name string) string {
	if field := f.Field(name); field != nil {
		return field.Value
	}
	return ""
}
