package search

// Location groups the locale parameters of a query.
type Location struct {
	Location     *string `json:"location,omitempty"`
	CountryCode  *string `json:"country_code,omitempty"`
	LanguageCode *string `json:"language_code,omitempty"`
}

func NewLocation() Location {
	return Location{}
}

func (l Location) WithLocation(location string) Location {
	l.Location = &location
	return l
}

func (l Location) WithCountry(country string) Location {
	l.CountryCode = &country
	return l
}

func (l Location) WithLanguage(language string) Location {
	l.LanguageCode = &language
	return l
}

// Pagination groups the paging parameters of a query.
type Pagination struct {
	Page       *uint32 `json:"page,omitempty"`
	NumResults *uint32 `json:"num_results,omitempty"`
}

func NewPagination() Pagination {
	return Pagination{}
}

func (p Pagination) WithPage(page uint32) Pagination {
	p.Page = &page
	return p
}

func (p Pagination) WithNumResults(num uint32) Pagination {
	p.NumResults = &num
	return p
}
