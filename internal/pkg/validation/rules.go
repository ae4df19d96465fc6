// Package validation registers the custom binding tags used by request DTOs.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/studyhub/internal/app/models"
)

// Tag names
const (
	TagPersonName = "personname"
	TagTerm       = "term"
)

// personNamePattern allows letters, combining marks, spaces, dots, hyphens and
// apostrophes, starting with a letter.
var personNamePattern = regexp.MustCompile(`^\p{L}[\p{L}\p{M} .'\-]*$`)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterRules installs the custom tags on v.
func RegisterRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		TagPersonName: validatePersonName,
		TagTerm:       validateTerm,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("registering %s rule: %w", tag, err)
		}
	}
	return nil
}

// RegisterWithGin installs the rules on gin's default validator. Safe to call
// more than once.
func RegisterWithGin() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		registerErr = RegisterRules(v)
	})
	return registerErr
}

func validatePersonName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	return name != "" && personNamePattern.MatchString(name)
}

func validateTerm(fl validator.FieldLevel) bool {
	return models.Term(strings.ToUpper(fl.Field().String())).IsValid()
}
