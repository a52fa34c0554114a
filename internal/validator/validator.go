package validator

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var EmailRX = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+\\/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

type Validator struct {
	Errors map[string][]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string][]string)}
}

func (v *Validator) IsValid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(key, message string) {
	v.Errors[key] = append(v.Errors[key], message)
}

func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

func (v *Validator) CheckNotBlank(value, key, message string) {
	v.Check(strings.TrimSpace(value) != "", key, message)
}

func (v *Validator) CheckEmail(email, message string) {
	v.Check(EmailRX.MatchString(email), "email", message)
}

func (v *Validator) CheckMaxLength(value, key string, max int, message string) {
	v.Check(utf8.RuneCountInString(value) <= max, key, message)
}

func (v *Validator) CheckLengthBetween(value, key string, min, max int, message string) {
	n := utf8.RuneCountInString(value)
	v.Check(n >= min && n <= max, key, message)
}

// CheckHTTPURL validates that the value parses as an absolute http or https URL.
func (v *Validator) CheckHTTPURL(value, key, message string) {
	u, err := url.Parse(value)
	v.Check(err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "", key, message)
}

func (v *Validator) CheckNoSpecialCharacters(value, key, message string) {
	v.Check(!strings.ContainsAny(value, "`<>\"' "), key, message)
}
