// Package search builds queries, sends them to the Serper API and decodes
// the responses.
package search

import (
	"strings"

	serrors "serper-client/pkg/errors"
)

const (
	MinNumResults = 1
	MaxNumResults = 100
)

// SearchQuery is the request body sent to the search endpoint. Absent
// optional fields are left out of the JSON payload.
//
// SearchQuery is a value type: every With method returns an updated copy.
type SearchQuery struct {
	Q        string  `json:"q"`
	Location *string `json:"location,omitempty"`
	Country  *string `json:"gl,omitempty"`
	Language *string `json:"hl,omitempty"`
	Page     *uint32 `json:"page,omitempty"`
	Num      *uint32 `json:"num,omitempty"`
}

// NewSearchQuery fails when text is empty or whitespace. The text is stored
// as given.
func NewSearchQuery(text string) (SearchQuery, error) {
	if strings.TrimSpace(text) == "" {
		return SearchQuery{}, serrors.NewValidationError("Query string cannot be empty")
	}
	return SearchQuery{Q: text}, nil
}

func (q SearchQuery) WithLocation(location string) SearchQuery {
	q.Location = &location
	return q
}

// WithCountry sets the "gl" country code.
func (q SearchQuery) WithCountry(country string) SearchQuery {
	q.Country = &country
	return q
}

// WithLanguage sets the "hl" language code.
func (q SearchQuery) WithLanguage(language string) SearchQuery {
	q.Language = &language
	return q
}

// WithPage does not validate; see Validate.
func (q SearchQuery) WithPage(page uint32) SearchQuery {
	q.Page = &page
	return q
}

func (q SearchQuery) WithNumResults(num uint32) SearchQuery {
	q.Num = &num
	return q
}

// WithLocationConfig copies the fields that are set in loc.
func (q SearchQuery) WithLocationConfig(loc Location) SearchQuery {
	if loc.Location != nil {
		q = q.WithLocation(*loc.Location)
	}
	if loc.CountryCode != nil {
		q = q.WithCountry(*loc.CountryCode)
	}
	if loc.LanguageCode != nil {
		q = q.WithLanguage(*loc.LanguageCode)
	}
	return q
}

// WithPagination copies the fields that are set in p.
func (q SearchQuery) WithPagination(p Pagination) SearchQuery {
	if p.Page != nil {
		q = q.WithPage(*p.Page)
	}
	if p.NumResults != nil {
		q = q.WithNumResults(*p.NumResults)
	}
	return q
}

// Validate checks the query invariants: non-empty text, page >= 1 and
// 1 <= num <= 100 when set.
func (q SearchQuery) Validate() error {
	if strings.TrimSpace(q.Q) == "" {
		return serrors.NewValidationError("Query string cannot be empty")
	}
	if q.Page != nil && *q.Page == 0 {
		return serrors.NewValidationError("Page number must be greater than 0")
	}
	if q.Num != nil && (*q.Num < MinNumResults || *q.Num > MaxNumResults) {
		return serrors.NewValidationError("Number of results must be between 1 and 100")
	}
	return nil
}

func (q SearchQuery) Text() string {
	return q.Q
}

func (q SearchQuery) HasLocationParams() bool {
	return q.Location != nil || q.Country != nil || q.Language != nil
}

func (q SearchQuery) HasPaginationParams() bool {
	return q.Page != nil || q.Num != nil
}

// QueryBuilder collects query fields across calls.
type QueryBuilder struct {
	query    *string
	location Location
	paging   Pagination
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

func (b *QueryBuilder) Query(text string) *QueryBuilder {
	b.query = &text
	return b
}

func (b *QueryBuilder) Location(location string) *QueryBuilder {
	b.location = b.location.WithLocation(location)
	return b
}

func (b *QueryBuilder) Country(country string) *QueryBuilder {
	b.location = b.location.WithCountry(country)
	return b
}

func (b *QueryBuilder) Language(language string) *QueryBuilder {
	b.location = b.location.WithLanguage(language)
	return b
}

func (b *QueryBuilder) Page(page uint32) *QueryBuilder {
	b.paging = b.paging.WithPage(page)
	return b
}

func (b *QueryBuilder) NumResults(num uint32) *QueryBuilder {
	b.paging = b.paging.WithNumResults(num)
	return b
}

// Build fails when no query text was supplied or the result does not
// validate.
func (b *QueryBuilder) Build() (SearchQuery, error) {
	if b.query == nil {
		return SearchQuery{}, serrors.NewValidationError("Query string is required")
	}

	q, err := NewSearchQuery(*b.query)
	if err != nil {
		return SearchQuery{}, err
	}
	q = q.WithLocationConfig(b.location).WithPagination(b.paging)

	if err := q.Validate(); err != nil {
		return SearchQuery{}, err
	}
	return q, nil
}
