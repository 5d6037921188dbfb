package catalog

// Channel is a PIM export channel. RootCategoryID is the root of the category
// tree the channel selects products from.
type Channel struct {
	Code           string
	RootCategoryID int
	Locales        []string
	Currencies     []string
}

// HasLocale returns true if the channel activates the given locale.
func (c Channel) HasLocale(locale string) bool {
	for _, l := range c.Locales {
		if localeEqual(l, locale) {
			return true
		}
	}
	return false
}
