// Package validation runs ordered rule chains over submitted form fields.
//
// A chain is built per field with Field and evaluated by Validate. Each chain
// may trim its value, skip empty optional values, and apply to every element
// of a multi-valued field. Only the first failing rule of a field is
// reported.
package validation

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/snnyvrz/locallibrary/internal/model"
)

var validate = validator.New()

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type Errors []FieldError

func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// For returns the message reported for field, or "".
func (e Errors) For(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

func (e Errors) Messages() []string {
	out := make([]string, 0, len(e))
	for _, fe := range e {
		out = append(out, fe.Message)
	}
	return out
}

// Check reports whether value passes. A non-nil error aborts validation.
type Check func(ctx context.Context, value string) (bool, error)

type rule struct {
	name    string
	message string
	check   Check
}

type Chain struct {
	field    string
	trim     bool
	optional bool
	each     bool
	rules    []rule
}

func Field(name string) *Chain {
	return &Chain{field: name}
}

func (c *Chain) Trim() *Chain {
	c.trim = true
	return c
}

// Optional skips the rules when the value is empty after trimming.
func (c *Chain) Optional() *Chain {
	c.optional = true
	return c
}

// Each applies the chain to every submitted value of the field.
func (c *Chain) Each() *Chain {
	c.each = true
	return c
}

func (c *Chain) Custom(name, message string, check Check) *Chain {
	c.rules = append(c.rules, rule{name: name, message: message, check: check})
	return c
}

// Tag checks the value against a go-playground/validator tag.
func (c *Chain) Tag(tag, message string) *Chain {
	return c.Custom(ruleName(tag), message, func(_ context.Context, value string) (bool, error) {
		return validate.Var(value, tag) == nil, nil
	})
}

func (c *Chain) NotEmpty(message string) *Chain {
	return c.Tag("required", message)
}

func (c *Chain) MaxLength(n int, message string) *Chain {
	return c.Tag("max="+strconv.Itoa(n), message)
}

func (c *Chain) Alphanumeric(message string) *Chain {
	return c.Tag("alphanum", message)
}

func (c *Chain) UUID(message string) *Chain {
	return c.Tag("uuid", message)
}

func (c *Chain) OneOf(values []string, message string) *Chain {
	return c.Tag("oneof="+strings.Join(values, " "), message)
}

func (c *Chain) ISO8601(message string) *Chain {
	return c.Custom("iso8601", message, func(_ context.Context, value string) (bool, error) {
		_, err := model.ParseDate(value)
		return err == nil, nil
	})
}

func ruleName(tag string) string {
	name, _, _ := strings.Cut(tag, "=")
	return name
}

type Result struct {
	Values url.Values
	Errors Errors
}

func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Get returns the sanitized value of field.
func (r *Result) Get(field string) string {
	return r.Values.Get(field)
}

func (r *Result) AddError(field, rule, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Rule: rule, Message: message})
}

// Validate runs chains in order against form. The returned Values hold the
// sanitized form; fields without a chain are copied unchanged.
func Validate(ctx context.Context, form url.Values, chains ...*Chain) (Result, error) {
	res := Result{Values: url.Values{}}
	for k, vs := range form {
		res.Values[k] = append([]string(nil), vs...)
	}

	for _, c := range chains {
		values := res.Values[c.field]
		if !c.each {
			values = []string{res.Values.Get(c.field)}
		}

		if c.trim {
			for i := range values {
				values[i] = strings.TrimSpace(values[i])
			}
		}
		if c.each {
			res.Values[c.field] = values
		} else {
			res.Values.Set(c.field, values[0])
		}

		fe, err := c.run(ctx, values)
		if err != nil {
			return res, err
		}
		if fe != nil {
			res.Errors = append(res.Errors, *fe)
		}
	}

	return res, nil
}

func (c *Chain) run(ctx context.Context, values []string) (*FieldError, error) {
	for _, v := range values {
		if c.optional && v == "" {
			continue
		}
		for _, r := range c.rules {
			ok, err := r.check(ctx, v)
			if err != nil {
				return nil, err
			}
			if !ok {
				return &FieldError{Field: c.field, Rule: r.name, Message: r.message}, nil
			}
		}
	}
	return nil, nil
}

// NormalizeList makes key a list in form: absent becomes empty and a single
// value becomes one element.
func NormalizeList(form url.Values, key string) []string {
	values, ok := form[key]
	if !ok || values == nil {
		values = []string{}
	}
	form[key] = values
	return values
}
