// Package template holds the declarative generation template: technology
// and category catalogs, levels, authors, module templates and the pricing
// and certificate parameters used by the course generator.
package template

// SupportedMajor is the template format major version this build reads.
const SupportedMajor = "v1"

// Template is immutable for the duration of a generation run.
type Template struct {
	Version         string           `yaml:"version,omitempty" json:"version,omitempty"`
	Technologies    []Technology     `yaml:"technologies" json:"technologies" validate:"required,min=1,dive"`
	Categories      []Category       `yaml:"categories" json:"categories" validate:"dive"`
	Levels          []string         `yaml:"levels" json:"levels" validate:"required,min=1,dive,notblank"`
	Authors         []string         `yaml:"authors" json:"authors" validate:"required,min=1,dive,notblank"`
	ModuleTemplates []ModuleTemplate `yaml:"module_templates" json:"module_templates" validate:"required,min=1,dive"`
	Metadata        Metadata         `yaml:"metadata" json:"metadata"`
}

// Technology is one entry of the technology catalog. Every field except
// Name is optional; missing formats fall back to built-in defaults.
type Technology struct {
	Name              string            `yaml:"name" json:"name" validate:"notblank"`
	Skills            []string          `yaml:"skills,omitempty" json:"skills,omitempty"`
	Categories        []string          `yaml:"categories,omitempty" json:"categories,omitempty"`
	TitleFormats      map[string]string `yaml:"title_formats,omitempty" json:"title_formats,omitempty"`
	DescriptionFormat string            `yaml:"description_format,omitempty" json:"description_format,omitempty"`
	ImageFormat       string            `yaml:"image_format,omitempty" json:"image_format,omitempty"`
}

// Category is one entry of the category catalog.
type Category struct {
	Name   string   `yaml:"name" json:"name" validate:"notblank"`
	Skills []string `yaml:"skills,omitempty" json:"skills,omitempty"`
}

// ModuleTemplate describes one module: a name format and ordered lesson
// title formats. Both may reference {technology}.
type ModuleTemplate struct {
	Name    string   `yaml:"name" json:"name" validate:"notblank"`
	Lessons []string `yaml:"lessons" json:"lessons" validate:"dive,notblank"`
}

// Metadata holds id, pricing and certificate parameters.
type Metadata struct {
	IDPrefix                  string  `yaml:"id_prefix" json:"id_prefix"`
	IDPadding                 int     `yaml:"id_padding" json:"id_padding" validate:"gte=1"`
	BasePriceRange            Range   `yaml:"base_price_range" json:"base_price_range"`
	DiscountPercentage        int     `yaml:"discount_percentage" json:"discount_percentage" validate:"gte=0,lte=100"`
	FreeCourseProbability     float64 `yaml:"free_course_probability" json:"free_course_probability" validate:"gte=0,lte=1"`
	CertificateThresholdRange Range   `yaml:"certificate_threshold_range" json:"certificate_threshold_range"`
}

// Range is an inclusive [min, max] integer interval written as a two
// element list.
type Range [2]int

// Min returns the lower bound.
func (r Range) Min() int { return r[0] }

// Max returns the upper bound.
func (r Range) Max() int { return r[1] }

// Ordered reports whether min <= max.
func (r Range) Ordered() bool { return r[0] <= r[1] }

// document is the on-disk layout: everything lives under course_structure.
type document struct {
	Version         string   `yaml:"version,omitempty"`
	CourseStructure Template `yaml:"course_structure"`
}
