// Package validate checks request structs against `validate` struct tags.
//
// Rules are comma-separated; the first failing rule wins for a field:
//
//	required        not zero, not blank, not nil
//	nullable        skip remaining rules when the field is empty or nil
//	email           address shape
//	url             absolute http(s) URL
//	uuid            canonical UUID text
//	slug            lowercase letters, digits and single hyphens
//	alpha_dash      letters, digits, '-' and '_'
//	min=N / max=N   string length in runes, or numeric value
//	gte=N / lte=N   numeric bounds
//	in=A|B|C        one of the listed values
//
// Pointer fields are dereferenced, so optional update payloads can use
// *string with "nullable,min=2". Values exposing InexactFloat64 (such as
// decimal.Decimal) are treated as numbers.
//
//	type RegisterInput struct {
//	    Email string `json:"email" validate:"required,email"`
//	    Role  string `json:"role"  validate:"nullable,in=BUYER|SELLER"`
//	}
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Struct validates the tagged fields of v and returns json-name → message.
// A nil or empty map means v is valid.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return errs
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		name := jsonFieldName(field)
		value := rv.Field(i)
		tagRules := strings.Split(tag, ",")

		if contains(tagRules, "nullable") && isEmpty(value) {
			continue
		}
		value = indirect(value)

		for _, rule := range tagRules {
			if rule == "nullable" {
				continue
			}
			if msg := check(strings.TrimSpace(rule), name, value); msg != "" {
				errs[name] = msg
				break
			}
		}
	}

	return errs
}

// HasErrors reports whether errs holds at least one failure.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// First returns one message from errs, preferring the alphabetically first
// field so the choice is stable.
func First(errs map[string]string) string {
	best := ""
	for field := range errs {
		if best == "" || field < best {
			best = field
		}
	}
	return errs[best]
}

type ruleFunc func(field, param string, v reflect.Value) string

var rules map[string]ruleFunc

func init() {
	rules = map[string]ruleFunc{
		"required":   ruleRequired,
		"email":      ruleEmail,
		"url":        ruleURL,
		"uuid":       rulePattern(uuidRE, "The %s must be a valid UUID."),
		"slug":       rulePattern(slugRE, "The %s may only contain lowercase letters, numbers and hyphens."),
		"alpha_dash": ruleAlphaDash,
		"min":        ruleMin,
		"max":        ruleMax,
		"gte":        ruleGTE,
		"lte":        ruleLTE,
		"in":         ruleIn,
	}
}

func check(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")
	fn, ok := rules[key]
	if !ok {
		return ""
	}
	// a nil pointer only fails "required"
	if !v.IsValid() {
		if key == "required" {
			return fmt.Sprintf("The %s field is required.", field)
		}
		return ""
	}
	return fn(field, param, v)
}

func ruleRequired(field, _ string, v reflect.Value) string {
	if isEmpty(v) {
		return fmt.Sprintf("The %s field is required.", field)
	}
	return ""
}

func ruleEmail(field, _ string, v reflect.Value) string {
	if !emailRE.MatchString(text(v)) {
		return fmt.Sprintf("The %s must be a valid email address.", field)
	}
	return ""
}

func ruleURL(field, _ string, v reflect.Value) string {
	u, err := url.ParseRequestURI(text(v))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Sprintf("The %s must be a valid URL.", field)
	}
	return ""
}

func rulePattern(re *regexp.Regexp, format string) ruleFunc {
	return func(field, _ string, v reflect.Value) string {
		if !re.MatchString(text(v)) {
			return fmt.Sprintf(format, field)
		}
		return ""
	}
}

func ruleAlphaDash(field, _ string, v reflect.Value) string {
	for _, c := range text(v) {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
			return fmt.Sprintf("The %s field may only contain letters, numbers, dashes, and underscores.", field)
		}
	}
	return ""
}

func ruleMin(field, param string, v reflect.Value) string {
	n := parseFloat(param)
	if f, ok := number(v); ok {
		if f < n {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}
		return ""
	}
	if float64(length(v)) < n {
		return fmt.Sprintf("The %s must be at least %s characters.", field, param)
	}
	return ""
}

func ruleMax(field, param string, v reflect.Value) string {
	n := parseFloat(param)
	if f, ok := number(v); ok {
		if f > n {
			return fmt.Sprintf("The %s must not be greater than %s.", field, param)
		}
		return ""
	}
	if float64(length(v)) > n {
		return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
	}
	return ""
}

func ruleGTE(field, param string, v reflect.Value) string {
	if f, ok := number(v); !ok || f < parseFloat(param) {
		return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
	}
	return ""
}

func ruleLTE(field, param string, v reflect.Value) string {
	if f, ok := number(v); !ok || f > parseFloat(param) {
		return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
	}
	return ""
}

func ruleIn(field, param string, v reflect.Value) string {
	raw := text(v)
	for _, allowed := range strings.Split(param, "|") {
		if raw == strings.TrimSpace(allowed) {
			return ""
		}
	}
	return fmt.Sprintf("The selected %s is invalid.", field)
}

var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	uuidRE  = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	slugRE  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

type floater interface{ InexactFloat64() float64 }

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Invalid:
		return true
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Struct:
		// decimal.Decimal zero is a price, not an absent one
		if _, ok := v.Interface().(floater); ok {
			return false
		}
		return v.IsZero()
	}
	return false
}

func number(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	if v.CanInterface() {
		if f, ok := v.Interface().(floater); ok {
			return f.InexactFloat64(), true
		}
	}
	return 0, false
}

func text(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}

func length(v reflect.Value) int {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len()
	}
	return len([]rune(text(v)))
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name[:1]) + f.Name[1:]
	}
	return name
}

func contains(list []string, target string) bool {
	for _, r := range list {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}
