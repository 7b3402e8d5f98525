package scraper

import "errors"

// ListConfig defines how to read entries from a listing page and how to
// advance to the next batch.
type ListConfig struct {
	// RowSelector matches the header row of each entry. The row's id
	// attribute is the entry id.
	RowSelector string `json:"row_selector" yaml:"row_selector"`
	// TitleSelector is resolved inside the header row and yields the title
	// text and link.
	TitleSelector string `json:"title_selector" yaml:"title_selector"`
	// AgeSelector is resolved inside the row that follows the header row.
	// Its title attribute is the absolute time and its text the relative
	// age.
	AgeSelector string `json:"age_selector" yaml:"age_selector"`
	// MoreSelector matches the "load more" control.
	MoreSelector string `json:"more_selector" yaml:"more_selector"`
	// IDAttribute names the header row attribute holding the entry id.
	IDAttribute string `json:"id_attribute" yaml:"id_attribute"`
	// AbsoluteAttribute names the age element attribute holding the
	// absolute time.
	AbsoluteAttribute string `json:"absolute_attribute" yaml:"absolute_attribute"`
}

// NewListConfig creates a list configuration with the selectors of the Hacker
// News listing pages.
func NewListConfig() *ListConfig {
	return &ListConfig{
		RowSelector:       "tr.athing",
		TitleSelector:     ".titleline > a",
		AgeSelector:       ".age",
		MoreSelector:      "a.morelink",
		IDAttribute:       "id",
		AbsoluteAttribute: "title",
	}
}

// Validate checks that every selector is set.
func (c ListConfig) Validate() error {
	switch {
	case c.RowSelector == "":
		return errors.New("row_selector is required")
	case c.TitleSelector == "":
		return errors.New("title_selector is required")
	case c.AgeSelector == "":
		return errors.New("age_selector is required")
	case c.MoreSelector == "":
		return errors.New("more_selector is required")
	case c.IDAttribute == "":
		return errors.New("id_attribute is required")
	case c.AbsoluteAttribute == "":
		return errors.New("absolute_attribute is required")
	}
	return nil
}
