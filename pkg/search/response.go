package search

import (
	"encoding/json"

	"serper-client/pkg/validation"
)

const defaultSnippet = "No description available"

// SearchResponse is the decoded search result. Every section is optional
// and stays nil when the API omits it.
type SearchResponse struct {
	SearchMetadata   *Metadata         `json:"search_metadata,omitempty"`
	Organic          []OrganicResult   `json:"organic,omitempty"`
	AnswerBox        *AnswerBox        `json:"answer_box,omitempty"`
	KnowledgeGraph   *KnowledgeGraph   `json:"knowledge_graph,omitempty"`
	RelatedQuestions []RelatedQuestion `json:"related_questions,omitempty"`
	Shopping         []ShoppingResult  `json:"shopping,omitempty"`
	News             []NewsResult      `json:"news,omitempty"`
}

// HasResults reports whether any result section carries content.
func (r *SearchResponse) HasResults() bool {
	return len(r.Organic) > 0 ||
		r.AnswerBox != nil ||
		r.KnowledgeGraph != nil ||
		len(r.Shopping) > 0 ||
		len(r.News) > 0
}

func (r *SearchResponse) OrganicCount() int {
	return len(r.Organic)
}

// OrganicResults never returns nil.
func (r *SearchResponse) OrganicResults() []OrganicResult {
	if r.Organic == nil {
		return []OrganicResult{}
	}
	return r.Organic
}

func (r *SearchResponse) FirstResult() *OrganicResult {
	if len(r.Organic) == 0 {
		return nil
	}
	return &r.Organic[0]
}

// ExtractURLs returns the organic links in result order.
func (r *SearchResponse) ExtractURLs() []string {
	urls := make([]string, 0, len(r.Organic))
	for _, res := range r.Organic {
		urls = append(urls, res.Link)
	}
	return urls
}

type Metadata struct {
	ID               string  `json:"id"`
	Status           string  `json:"status"`
	CreatedAt        string  `json:"created_at"`
	RequestTimeTaken float64 `json:"request_time_taken"`
	TotalTimeTaken   float64 `json:"total_time_taken"`
}

// OrganicResult is a standard web result. Keys the type does not model are
// kept verbatim in Extra.
type OrganicResult struct {
	Title    string                     `json:"title"`
	Link     string                     `json:"link"`
	Snippet  *string                    `json:"snippet,omitempty"`
	Position uint32                     `json:"position"`
	Extra    map[string]json.RawMessage `json:"-"`
}

var organicKeys = []string{"title", "link", "snippet", "position"}

func NewOrganicResult(title, link string, position uint32) OrganicResult {
	return OrganicResult{
		Title:    title,
		Link:     link,
		Position: position,
		Extra:    map[string]json.RawMessage{},
	}
}

func (o *OrganicResult) UnmarshalJSON(data []byte) error {
	type plain OrganicResult
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := collectExtra(data, organicKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*o = OrganicResult(p)
	return nil
}

func (o OrganicResult) MarshalJSON() ([]byte, error) {
	type plain OrganicResult
	return marshalWithExtra(plain(o), o.Extra)
}

func (o OrganicResult) HasSnippet() bool {
	return o.Snippet != nil
}

func (o OrganicResult) SnippetOrDefault() string {
	if o.Snippet == nil {
		return defaultSnippet
	}
	return *o.Snippet
}

// Domain returns the host of Link, if it parses.
func (o OrganicResult) Domain() (string, bool) {
	host, err := validation.ExtractDomain(o.Link)
	if err != nil {
		return "", false
	}
	return host, true
}

type AnswerBox struct {
	Answer  *string `json:"answer,omitempty"`
	Snippet *string `json:"snippet,omitempty"`
	Title   *string `json:"title,omitempty"`
	Link    *string `json:"link,omitempty"`
}

func (a AnswerBox) HasAnswer() bool {
	return a.Answer != nil
}

// BestText prefers the direct answer over the snippet.
func (a AnswerBox) BestText() (string, bool) {
	if a.Answer != nil {
		return *a.Answer, true
	}
	if a.Snippet != nil {
		return *a.Snippet, true
	}
	return "", false
}

// KnowledgeGraph is the entity panel. Unmodelled keys land in Attributes.
type KnowledgeGraph struct {
	Title       *string                    `json:"title,omitempty"`
	Description *string                    `json:"description,omitempty"`
	EntityType  *string                    `json:"type,omitempty"`
	Website     *string                    `json:"website,omitempty"`
	Attributes  map[string]json.RawMessage `json:"-"`
}

var knowledgeGraphKeys = []string{"title", "description", "type", "website"}

func (k *KnowledgeGraph) UnmarshalJSON(data []byte) error {
	type plain KnowledgeGraph
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	attrs, err := collectExtra(data, knowledgeGraphKeys)
	if err != nil {
		return err
	}
	p.Attributes = attrs
	*k = KnowledgeGraph(p)
	return nil
}

func (k KnowledgeGraph) MarshalJSON() ([]byte, error) {
	type plain KnowledgeGraph
	return marshalWithExtra(plain(k), k.Attributes)
}

type RelatedQuestion struct {
	Question string  `json:"question"`
	Snippet  *string `json:"snippet,omitempty"`
	Title    *string `json:"title,omitempty"`
	Link     *string `json:"link,omitempty"`
}

type ShoppingResult struct {
	Title    string  `json:"title"`
	Link     string  `json:"link"`
	Price    *string `json:"price,omitempty"`
	Source   *string `json:"source,omitempty"`
	Image    *string `json:"image,omitempty"`
	Position uint32  `json:"position"`
}

type NewsResult struct {
	Title    string  `json:"title"`
	Link     string  `json:"link"`
	Snippet  *string `json:"snippet,omitempty"`
	Source   *string `json:"source,omitempty"`
	Date     *string `json:"date,omitempty"`
	Position uint32  `json:"position"`
}

// collectExtra returns every top-level key of the object in data that is
// not listed in known.
func collectExtra(data []byte, known []string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for _, key := range known {
		delete(raw, key)
	}
	if raw == nil {
		raw = map[string]json.RawMessage{}
	}
	return raw, nil
}

// marshalWithExtra encodes v and merges extra into the resulting object.
// Modelled fields win over extra keys of the same name.
func marshalWithExtra(v interface{}, extra map[string]json.RawMessage) ([]byte, error) {
	base, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return base, err
	}

	fields := make(map[string]json.RawMessage, len(extra)+4)
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, val := range extra {
		if _, modelled := fields[k]; !modelled {
			fields[k] = val
		}
	}
	return json.Marshal(fields)
}
