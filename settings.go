package mdclip

import (
	"context"
	"slices"
	"strconv"
	"strings"
)

// DefaultListItemSeparator joins list items when no separator is configured.
const DefaultListItemSeparator = ", "

// SectionNames holds the heading titles that identify named sections.
// Titles are matched case-insensitively.
type SectionNames struct {
	Story   string `yaml:"story" json:"story"`
	Tags    string `yaml:"tags" json:"tags"`
	Summary string `yaml:"summary,omitempty" json:"summary,omitempty"`
}

// Settings is the user configuration for exports.
type Settings struct {
	// RemovedAttributes are stripped from every exported element.
	RemovedAttributes []string `yaml:"removedAttributes" json:"removedAttributes"`

	// RemovedSelectors are CSS selectors; matching elements are removed
	// from exported content. Empty entries are ignored.
	RemovedSelectors []string `yaml:"removedSelectors" json:"removedSelectors"`

	// IncludeHeadingElement keeps the heading itself when copying a heading.
	IncludeHeadingElement bool `yaml:"includeHeadingElement" json:"includeHeadingElement"`

	SectionNames SectionNames `yaml:"sectionNames" json:"sectionNames"`

	// SectionDelimiterTag names the element(s) that delimit named sections.
	// Several tags may be given separated by commas.
	SectionDelimiterTag string `yaml:"sectionDelimiterTag" json:"sectionDelimiterTag"`

	ListItemSeparator string `yaml:"listItemSeparator" json:"listItemSeparator"`
}

// DefaultSettings returns the settings used when nothing has been saved.
func DefaultSettings() *Settings {
	return &Settings{
		RemovedAttributes: []string{
			"data-heading",
			"dir",
		},
		RemovedSelectors: []string{
			":has(.internal-embed)",
		},
		IncludeHeadingElement: true,
		SectionNames: SectionNames{
			Story: "story",
			Tags:  "tags",
		},
		SectionDelimiterTag: "h2",
		ListItemSeparator:   DefaultListItemSeparator,
	}
}

// Validate returns an error if the settings contain invalid fields.
// Selector syntax is checked when the selectors are compiled.
func (s *Settings) Validate() error {
	if len(s.DelimiterTags()) == 0 {
		return Errorf(EINVALID, "section delimiter tag required")
	}
	if strings.TrimSpace(s.SectionNames.Story) == "" {
		return Errorf(EINVALID, "story section name required")
	}
	if strings.TrimSpace(s.SectionNames.Tags) == "" {
		return Errorf(EINVALID, "tags section name required")
	}
	return nil
}

// DelimiterTags returns the lower-cased delimiter tag names.
func (s *Settings) DelimiterTags() []string {
	var tags []string
	for _, tag := range strings.Split(s.SectionDelimiterTag, ",") {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Separator returns the list item separator, falling back to the default.
func (s *Settings) Separator() string {
	if s.ListItemSeparator == "" {
		return DefaultListItemSeparator
	}
	return s.ListItemSeparator
}

// Selectors returns the non-empty removal selectors.
func (s *Settings) Selectors() []string {
	selectors := make([]string, 0, len(s.RemovedSelectors))
	for _, sel := range s.RemovedSelectors {
		if sel = strings.TrimSpace(sel); sel != "" {
			selectors = append(selectors, sel)
		}
	}
	return selectors
}

// Clone returns a deep copy of the settings.
func (s *Settings) Clone() *Settings {
	other := *s
	other.RemovedAttributes = slices.Clone(s.RemovedAttributes)
	other.RemovedSelectors = slices.Clone(s.RemovedSelectors)
	return &other
}

// Settings keys accepted by Set.
const (
	KeyIncludeHeadingElement = "includeHeadingElement"
	KeyStorySectionName      = "sectionNames.story"
	KeyTagsSectionName       = "sectionNames.tags"
	KeySummarySectionName    = "sectionNames.summary"
	KeySectionDelimiterTag   = "sectionDelimiterTag"
	KeyListItemSeparator     = "listItemSeparator"
)

// Set assigns a scalar setting by key.
// Returns EINVALID for unknown keys or malformed values.
func (s *Settings) Set(key, value string) error {
	switch key {
	case KeyIncludeHeadingElement:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return Errorf(EINVALID, "%s must be true or false", key)
		}
		s.IncludeHeadingElement = v
	case KeyStorySectionName:
		s.SectionNames.Story = value
	case KeyTagsSectionName:
		s.SectionNames.Tags = value
	case KeySummarySectionName:
		s.SectionNames.Summary = value
	case KeySectionDelimiterTag:
		s.SectionDelimiterTag = value
	case KeyListItemSeparator:
		s.ListItemSeparator = value
	default:
		return Errorf(EINVALID, "unknown setting %q", key)
	}
	return nil
}

// AddSelector appends a removal selector unless it is already present.
func (s *Settings) AddSelector(selector string) {
	if !slices.Contains(s.RemovedSelectors, selector) {
		s.RemovedSelectors = append(s.RemovedSelectors, selector)
	}
}

// RemoveSelector deletes a removal selector.
// Returns ENOTFOUND if the selector is not configured.
func (s *Settings) RemoveSelector(selector string) error {
	i := slices.Index(s.RemovedSelectors, selector)
	if i < 0 {
		return Errorf(ENOTFOUND, "selector %q is not excluded", selector)
	}
	s.RemovedSelectors = slices.Delete(s.RemovedSelectors, i, i+1)
	return nil
}

// AddAttribute appends a removed attribute unless it is already present.
func (s *Settings) AddAttribute(name string) {
	if !slices.Contains(s.RemovedAttributes, name) {
		s.RemovedAttributes = append(s.RemovedAttributes, name)
	}
}

// RemoveAttribute deletes a removed attribute.
// Returns ENOTFOUND if the attribute is not configured.
func (s *Settings) RemoveAttribute(name string) error {
	i := slices.Index(s.RemovedAttributes, name)
	if i < 0 {
		return Errorf(ENOTFOUND, "attribute %q is not excluded", name)
	}
	s.RemovedAttributes = slices.Delete(s.RemovedAttributes, i, i+1)
	return nil
}

// SettingsService loads and persists settings.
type SettingsService interface {
	// LoadSettings returns the saved settings merged over DefaultSettings.
	LoadSettings(ctx context.Context) (*Settings, error)

	// SaveSettings validates and persists settings, replacing what was saved.
	SaveSettings(ctx context.Context, s *Settings) error
}
