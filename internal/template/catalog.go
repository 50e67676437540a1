package template

// Catalog is a name-keyed index over a Template, built once per batch.
// When names repeat, the first entry wins.
type Catalog struct {
	tmpl          *Template
	technologies  map[string]*Technology
	categories    map[string]*Category
	levelIndex    map[string]int
	techNames     []string
	categoryNames []string
}

// NewCatalog indexes t. The template must not be modified afterwards.
func NewCatalog(t *Template) *Catalog {
	if t == nil {
		t = &Template{}
	}
	c := &Catalog{
		tmpl:         t,
		technologies: make(map[string]*Technology, len(t.Technologies)),
		categories:   make(map[string]*Category, len(t.Categories)),
		levelIndex:   make(map[string]int, len(t.Levels)),
	}

	for i := range t.Technologies {
		tech := &t.Technologies[i]
		c.techNames = append(c.techNames, tech.Name)
		if _, ok := c.technologies[tech.Name]; !ok {
			c.technologies[tech.Name] = tech
		}
	}
	for i := range t.Categories {
		cat := &t.Categories[i]
		c.categoryNames = append(c.categoryNames, cat.Name)
		if _, ok := c.categories[cat.Name]; !ok {
			c.categories[cat.Name] = cat
		}
	}
	for i, l := range t.Levels {
		if _, ok := c.levelIndex[l]; !ok {
			c.levelIndex[l] = i
		}
	}
	return c
}

// Template returns the indexed template.
func (c *Catalog) Template() *Template { return c.tmpl }

// Technology looks up a technology by exact name.
func (c *Catalog) Technology(name string) (*Technology, bool) {
	t, ok := c.technologies[name]
	return t, ok
}

// Category looks up a category by exact name.
func (c *Catalog) Category(name string) (*Category, bool) {
	cat, ok := c.categories[name]
	return cat, ok
}

// TechnologyNames returns technology names in template order.
func (c *Catalog) TechnologyNames() []string { return c.techNames }

// CategoryNames returns category names in template order.
func (c *Catalog) CategoryNames() []string { return c.categoryNames }

// Levels returns the ordered level list.
func (c *Catalog) Levels() []string { return c.tmpl.Levels }

// Authors returns the author list.
func (c *Catalog) Authors() []string { return c.tmpl.Authors }

// ModuleTemplates returns module templates in template order.
func (c *Catalog) ModuleTemplates() []ModuleTemplate { return c.tmpl.ModuleTemplates }

// Metadata returns the template metadata.
func (c *Catalog) Metadata() Metadata { return c.tmpl.Metadata }

// LevelIndex returns the position of level in the level list, or -1.
func (c *Catalog) LevelIndex(level string) int {
	if i, ok := c.levelIndex[level]; ok {
		return i
	}
	return -1
}
