// Package validate holds the client-side form checks. A form that fails
// here never reaches the upstream network.
package validate

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/MindSpaceMan/flora-site/models"
)

var (
	phoneRe = regexp.MustCompile(`^\d{10}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitRe = regexp.MustCompile(`\D`)
)

// Errors maps field name to a visitor-facing message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// The limits are in characters, not bytes; Cyrillic input takes two bytes
// per letter and must not hit the cap at half length.
func tooLong(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}

// CanonicalPhone strips formatting down to the ten national digits. Input
// that does not reduce to exactly ten digits is returned unchanged and left
// for Checkout to reject.
func CanonicalPhone(display string) string {
	cleaned := digitRe.ReplaceAllString(display, "")
	if strings.HasPrefix(cleaned, "7") && len(cleaned) == 11 {
		cleaned = cleaned[1:]
	}
	if len(cleaned) == 10 {
		return cleaned
	}
	return display
}

// Checkout validates the order form. A nil return means the form is clean.
func Checkout(form models.CheckoutForm) Errors {
	errs := Errors{}

	switch {
	case strings.TrimSpace(form.FullName) == "":
		errs["fullName"] = "Укажите имя получателя"
	case tooLong(form.FullName, 255):
		errs["fullName"] = "Имя не может быть длиннее 255 символов"
	}

	switch {
	case strings.TrimSpace(form.Phone) == "":
		errs["phone"] = "Укажите телефон"
	case !phoneRe.MatchString(form.Phone):
		errs["phone"] = "Укажите телефон в формате +7 (XXX) XXX-XX-XX"
	}

	switch {
	case strings.TrimSpace(form.Email) == "":
		errs["email"] = "Укажите email"
	case !emailRe.MatchString(form.Email):
		errs["email"] = "Некорректный email"
	case tooLong(form.Email, 255):
		errs["email"] = "Email не может быть длиннее 255 символов"
	}

	switch {
	case strings.TrimSpace(form.DeliveryAddress) == "":
		errs["deliveryAddress"] = "Укажите адрес доставки"
	case tooLong(form.DeliveryAddress, 1000):
		errs["deliveryAddress"] = "Адрес не может быть длиннее 1000 символов"
	}

	switch {
	case strings.TrimSpace(form.City) == "":
		errs["city"] = "Укажите город"
	case tooLong(form.City, 255):
		errs["city"] = "Название города не может быть длиннее 255 символов"
	}

	switch {
	case strings.TrimSpace(form.Region) == "":
		errs["region"] = "Укажите регион"
	case tooLong(form.Region, 255):
		errs["region"] = "Название региона не может быть длиннее 255 символов"
	}

	switch {
	case strings.TrimSpace(form.Zip) == "":
		errs["zip"] = "Укажите индекс"
	case tooLong(form.Zip, 255):
		errs["zip"] = "Индекс не может быть длиннее 255 символов"
	}

	if tooLong(form.Comment, 2000) {
		errs["comment"] = "Комментарий не может быть длиннее 2000 символов"
	}

	if !form.PdnConsent {
		errs["pdnConsent"] = "Необходимо согласие на обработку персональных данных"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Contact validates the visitor contact form.
func Contact(form models.ContactForm) Errors {
	errs := Errors{}

	switch {
	case strings.TrimSpace(form.Name) == "":
		errs["name"] = "Укажите имя"
	case tooLong(form.Name, 255):
		errs["name"] = "Имя не может быть длиннее 255 символов"
	}

	switch {
	case strings.TrimSpace(form.Email) == "":
		errs["email"] = "Укажите email"
	case !emailRe.MatchString(form.Email):
		errs["email"] = "Некорректный email"
	}

	switch {
	case strings.TrimSpace(form.Message) == "":
		errs["message"] = "Укажите сообщение"
	case tooLong(form.Message, 2000):
		errs["message"] = "Сообщение не может быть длиннее 2000 символов"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
