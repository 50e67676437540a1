// Package coursegen synthesizes course records from a generation template
// and drives batch generation runs.
package coursegen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/abhisek/courseforge/internal/course"
	"github.com/abhisek/courseforge/internal/template"
)

const (
	minModules = 3
	maxModules = 5

	minLessonMinutes = 10
	maxLessonMinutes = 30

	minRating  = 3.5
	ratingSpan = 1.5

	courseType = "coding"

	defaultDescriptionFormat = "Master {technology} for {category} with hands-on projects and real-world applications."
	defaultImageFormat       = "https://source.unsplash.com/random/300x200?{technology_lowercase},coding"
)

// defaultTitleFormats are used by level position when the technology has
// no format for the level.
var defaultTitleFormats = [...]string{
	"{technology} Fundamentals",
	"{technology} Masterclass",
	"Advanced {technology} Techniques",
}

// Synthesizer derives Course records from a template catalog. It holds no
// mutable state and is safe for concurrent use; randomness comes from the
// caller's source.
type Synthesizer struct {
	catalog *template.Catalog
}

// NewSynthesizer creates a Synthesizer over cat.
func NewSynthesizer(cat *template.Catalog) *Synthesizer {
	return &Synthesizer{catalog: cat}
}

// Catalog returns the catalog the synthesizer draws from.
func (s *Synthesizer) Catalog() *template.Catalog { return s.catalog }

// Synthesize builds the course at index using rng. Draws happen in a fixed
// order, so a seeded rng reproduces the same course. It never fails:
// missing catalog data degrades to fallbacks.
func (s *Synthesizer) Synthesize(index int, rng *rand.Rand) course.Course {
	md := s.catalog.Metadata()

	technology := pick(rng, s.catalog.TechnologyNames())

	validCategories := s.catalog.CategoryNames()
	tech, techKnown := s.catalog.Technology(technology)
	if techKnown && len(tech.Categories) > 0 {
		validCategories = tech.Categories
	}
	category := pick(rng, validCategories)
	level := pick(rng, s.catalog.Levels())

	id := CourseID(md.IDPrefix, index, md.IDPadding)
	author := pick(rng, s.catalog.Authors())

	price := drawPrice(rng, md)
	threshold := uniformInt(rng, md.CertificateThresholdRange.Min(), md.CertificateThresholdRange.Max())

	skills := s.skills(technology, category)

	vals := template.CourseValues(technology, level, category)
	title := template.Format(s.titleFormat(tech, level), vals)

	descFormat := defaultDescriptionFormat
	imageFormat := defaultImageFormat
	if techKnown {
		if tech.DescriptionFormat != "" {
			descFormat = tech.DescriptionFormat
		}
		if tech.ImageFormat != "" {
			imageFormat = tech.ImageFormat
		}
	}
	description := template.Format(descFormat, vals)
	image := template.Format(imageFormat, vals)

	rating := drawRating(rng)
	modules := s.modules(rng, technology)

	return course.Course{
		ID:                 id,
		Title:              title,
		Author:             author,
		Category:           category,
		Level:              level,
		Price:              price.Price,
		OriginalPrice:      price.OriginalPrice,
		DiscountPercentage: price.DiscountPercentage,
		Rating:             rating,
		IsFree:             price.IsFree,
		Image:              image,
		Tags:               []string{technology, category, level},
		Skills:             skills,
		Description:        description,
		Type:               courseType,
		Language:           technology,
		Modules:            modules,
		Certificate: course.Certificate{
			Unlocked:  false,
			Threshold: threshold,
		},
	}
}

// CourseID renders prefix followed by index zero-padded to padding digits.
func CourseID(prefix string, index, padding int) string {
	if padding < 1 {
		padding = 1
	}
	return fmt.Sprintf("%s%0*d", prefix, padding, index)
}

// Pricing is the mutually consistent set of price fields.
type Pricing struct {
	Price              int
	OriginalPrice      int
	DiscountPercentage int
	IsFree             bool
}

// drawPrice applies the pricing rule: a free course keeps an independent
// original price, a paid one lists at twice its price.
func drawPrice(rng *rand.Rand, md template.Metadata) Pricing {
	isFree := rng.Float64() < md.FreeCourseProbability
	lo, hi := md.BasePriceRange.Min(), md.BasePriceRange.Max()

	if isFree {
		return Pricing{
			Price:              0,
			OriginalPrice:      uniformInt(rng, lo, hi),
			DiscountPercentage: 100,
			IsFree:             true,
		}
	}

	price := uniformInt(rng, lo, hi)
	return Pricing{
		Price:              price,
		OriginalPrice:      2 * price,
		DiscountPercentage: md.DiscountPercentage,
		IsFree:             false,
	}
}

func drawRating(rng *rand.Rand) float64 {
	r := minRating + rng.Float64()*ratingSpan
	return math.Round(r*10) / 10
}

// skills returns the union of technology and category skills with
// duplicates removed. Unknown names fall back to a derived single skill.
func (s *Synthesizer) skills(technology, category string) []string {
	var techSkills, catSkills []string

	if tech, ok := s.catalog.Technology(technology); ok {
		techSkills = tech.Skills
	} else {
		techSkills = []string{strings.ToLower(technology)}
	}

	if cat, ok := s.catalog.Category(category); ok {
		catSkills = cat.Skills
	} else {
		catSkills = []string{strings.ReplaceAll(strings.ToLower(category), " ", "-")}
	}

	seen := make(map[string]bool, len(techSkills)+len(catSkills))
	out := make([]string, 0, len(techSkills)+len(catSkills))
	for _, list := range [][]string{techSkills, catSkills} {
		for _, sk := range list {
			if seen[sk] {
				continue
			}
			seen[sk] = true
			out = append(out, sk)
		}
	}
	return out
}

func (s *Synthesizer) titleFormat(tech *template.Technology, level string) string {
	if tech != nil {
		if f, ok := tech.TitleFormats[level]; ok && f != "" {
			return f
		}
	}
	switch s.catalog.LevelIndex(level) {
	case 0:
		return defaultTitleFormats[0]
	case 1:
		return defaultTitleFormats[1]
	default:
		return defaultTitleFormats[2]
	}
}

// modules samples 3 to 5 distinct module templates without replacement.
func (s *Synthesizer) modules(rng *rand.Rand, technology string) []course.Module {
	templates := s.catalog.ModuleTemplates()

	count := uniformInt(rng, minModules, maxModules)
	if count > len(templates) {
		count = len(templates)
	}

	vals := template.Values{template.PlaceholderTechnology: technology}
	order := sampleIndices(rng, len(templates), count)

	modules := make([]course.Module, 0, count)
	for i, ti := range order {
		mt := templates[ti]
		moduleNum := i + 1

		lessons := make([]course.Lesson, len(mt.Lessons))
		for j, lf := range mt.Lessons {
			lessons[j] = course.Lesson{
				ID:        fmt.Sprintf("lesson_%d_%d", moduleNum, j+1),
				Title:     template.Format(lf, vals),
				Content:   "",
				Duration:  fmt.Sprintf("%d min", uniformInt(rng, minLessonMinutes, maxLessonMinutes)),
				Completed: false,
			}
		}

		modules = append(modules, course.Module{
			ID:      fmt.Sprintf("module_%d", moduleNum),
			Title:   template.Format(mt.Name, vals),
			Lessons: lessons,
		})
	}
	return modules
}

// sampleIndices returns k distinct indices from [0, n) in selection order
// using a partial Fisher-Yates shuffle.
func sampleIndices(rng *rand.Rand, n, k int) []int {
	if k <= 0 || n <= 0 {
		return nil
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// uniformInt draws from the inclusive range [lo, hi]. A reversed range
// collapses to lo.
func uniformInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

func pick(rng *rand.Rand, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[rng.IntN(len(items))]
}
