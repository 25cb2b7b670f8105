// Package inputval validates user-supplied form input. Struct fields opt in
// with a `validate` tag and a human-readable `label` tag:
//
//	type createTicketInput struct {
//	    Title string `validate:"required,max=200" label:"Title"`
//	}
//
// Supported rules: required, max=N, email, oneof=a b c.
package inputval

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/badoux/checkmail"
)

// Result collects validation failures in field declaration order.
type Result struct {
	Errors []string
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first failure message, or "" when validation passed.
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}

// Validate checks the string fields of a struct against their `validate`
// tags. Non-struct values and non-string fields are ignored.
func Validate(v any) Result {
	var res Result

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return res
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		rules := field.Tag.Get("validate")
		if rules == "" || field.Type.Kind() != reflect.String {
			continue
		}
		label := field.Tag.Get("label")
		if label == "" {
			label = field.Name
		}
		value := rv.Field(i).String()

		for _, rule := range strings.Split(rules, ",") {
			if msg := applyRule(rule, label, value); msg != "" {
				res.Errors = append(res.Errors, msg)
				break
			}
		}
	}
	return res
}

func applyRule(rule, label, value string) string {
	switch {
	case rule == "required":
		if strings.TrimSpace(value) == "" {
			return label + " is required."
		}
	case strings.HasPrefix(rule, "max="):
		n, err := strconv.Atoi(strings.TrimPrefix(rule, "max="))
		if err == nil && len(value) > n {
			return fmt.Sprintf("%s must be %d characters or fewer.", label, n)
		}
	case rule == "email":
		if value != "" && !IsValidEmail(value) {
			return label + " is not a valid email address."
		}
	case strings.HasPrefix(rule, "oneof="):
		if value == "" {
			return ""
		}
		for _, opt := range strings.Fields(strings.TrimPrefix(rule, "oneof=")) {
			if value == opt {
				return ""
			}
		}
		return label + " is invalid."
	}
	return ""
}

// IsValidEmail reports whether addr is a plausible bare email address.
// Display-name forms ("Name <a@b>") are rejected; single-label domains
// such as user@localhost are accepted.
func IsValidEmail(addr string) bool {
	if addr == "" || strings.ContainsAny(addr, " <>") {
		return false
	}
	at := strings.LastIndex(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return false
	}
	local, domain := addr[:at], addr[at+1:]
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	if strings.Contains(addr, "..") {
		return false
	}
	return checkmail.ValidateFormat(addr) == nil
}
