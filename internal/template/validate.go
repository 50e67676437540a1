package template

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"golang.org/x/mod/semver"
)

const notBlankTag = "notblank"

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report YAML key names rather than Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && strings.TrimSpace(s) != ""
	})
	_ = validate.RegisterTranslation(notBlankTag, translator,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fmt.Sprintf("%s cannot be blank", fe.Field())
		},
	)
}

// FieldError describes a single invalid template field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every problem found in a template.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		if f.Field == "" {
			msgs[i] = f.Message
			continue
		}
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return fmt.Sprintf("template validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks structural rules and cross-field constraints. All
// problems are reported together.
func Validate(t *Template) error {
	var fields []FieldError

	if err := validate.Struct(t); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, FieldError{
					Field:   strings.TrimPrefix(fe.Namespace(), "Template."),
					Message: fe.Translate(translator),
				})
			}
		} else {
			return fmt.Errorf("validate template: %w", err)
		}
	}

	fields = append(fields, crossFieldErrors(t)...)

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func crossFieldErrors(t *Template) []FieldError {
	var errs []FieldError

	if t.Version != "" {
		v := t.Version
		if !strings.HasPrefix(v, "v") {
			v = "v" + v
		}
		switch {
		case !semver.IsValid(v):
			errs = append(errs, FieldError{Field: "version", Message: fmt.Sprintf("%q is not a semantic version", t.Version)})
		case semver.Major(v) != SupportedMajor:
			errs = append(errs, FieldError{Field: "version", Message: fmt.Sprintf("major version %s is not supported (want %s)", semver.Major(v), SupportedMajor)})
		}
	}

	md := t.Metadata
	if !md.BasePriceRange.Ordered() {
		errs = append(errs, FieldError{Field: "metadata.base_price_range", Message: fmt.Sprintf("min %d exceeds max %d", md.BasePriceRange.Min(), md.BasePriceRange.Max())})
	}
	if md.BasePriceRange.Min() < 0 {
		errs = append(errs, FieldError{Field: "metadata.base_price_range", Message: "prices cannot be negative"})
	}
	if !md.CertificateThresholdRange.Ordered() {
		errs = append(errs, FieldError{Field: "metadata.certificate_threshold_range", Message: fmt.Sprintf("min %d exceeds max %d", md.CertificateThresholdRange.Min(), md.CertificateThresholdRange.Max())})
	}

	seen := make(map[string]bool, len(t.Technologies))
	for _, tech := range t.Technologies {
		if tech.Name != "" && seen[tech.Name] {
			errs = append(errs, FieldError{Field: "technologies", Message: fmt.Sprintf("duplicate technology %q", tech.Name)})
		}
		seen[tech.Name] = true
	}

	catSeen := make(map[string]bool, len(t.Categories))
	for _, c := range t.Categories {
		if c.Name != "" && catSeen[c.Name] {
			errs = append(errs, FieldError{Field: "categories", Message: fmt.Sprintf("duplicate category %q", c.Name)})
		}
		catSeen[c.Name] = true
	}

	// A technology with no category list draws from the global catalog,
	// which must then be non-empty.
	if len(t.Categories) == 0 {
		for _, tech := range t.Technologies {
			if len(tech.Categories) == 0 {
				errs = append(errs, FieldError{Field: "categories", Message: fmt.Sprintf("technology %q has no categories and the category catalog is empty", tech.Name)})
			}
		}
	}

	return errs
}
