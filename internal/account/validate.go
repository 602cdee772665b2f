package account

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"backend-trailblazer/internal/apperr"
)

const (
	minLoginPassword  = 6
	minSignUpPassword = 8
)

// wordClass is a Unicode-aware \w; RE2's \w only matches ASCII.
const wordClass = `[\p{L}\p{M}\p{N}_]`

var emailRegex = regexp.MustCompile(strings.NewReplacer(`\w`, wordClass).
	Replace(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`))

var ageRegex = regexp.MustCompile(`^[0-9]+$`)

type SignUpInput struct {
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Age       string `json:"age" form:"age"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
}

type LoginInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// IsDetailValid checks a sign-up form; the first failing rule wins.
func IsDetailValid(in SignUpInput) error {
	if in.FirstName == "" {
		return apperr.Validation("First Name Input Error", "First Name cannot be empty")
	}
	if in.LastName == "" {
		return apperr.Validation("Last Name Input Error", "Last Name cannot be empty")
	}
	if in.Age == "" {
		return apperr.Validation("Age Input Error", "Age cannot be empty")
	}
	if _, err := strconv.Atoi(in.Age); err != nil || !ageRegex.MatchString(in.Age) {
		return apperr.Validation("Age Input Error", "Please enter the correct age")
	}
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	return validatePassword(in.Password, minSignUpPassword)
}

func IsLoginValid(in LoginInput) error {
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	return validatePassword(in.Password, minLoginPassword)
}

func validateEmail(email string) error {
	if email == "" {
		return apperr.Validation("Email Input Error", "Email address cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return apperr.Validation("Email Input Error", fmt.Sprintf("%s is not a valid email address", email))
	}
	return nil
}

func validatePassword(password string, min int) error {
	if password == "" {
		return apperr.Validation("Password Input Error", "Password cannot be empty")
	}
	if utf8.RuneCountInString(password) < min {
		return apperr.Validation("Password Input Error",
			fmt.Sprintf("Password length is too short (need something greater than %d)", min-1))
	}
	return nil
}
