package main

import (
	"encoding/json"
	"fmt"
	"io"

	"serper-client/pkg/validation"
	"serper-client/pkg/search"
)

const snippetWidth = 160

type queryResult struct {
	Query    search.SearchQuery     `json:"query"`
	Response *search.SearchResponse `json:"response"`
}

func render(w io.Writer, queries []search.SearchQuery, results []*search.SearchResponse, asJSON bool) error {
	if asJSON {
		out := make([]queryResult, len(results))
		for i, resp := range results {
			out[i] = queryResult{Query: queries[i], Response: resp}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for i, resp := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeText(w, queries[i], resp)
	}
	return nil
}

func writeText(w io.Writer, q search.SearchQuery, resp *search.SearchResponse) {
	fmt.Fprintf(w, "=== %s ===\n", q.Text())

	if !resp.HasResults() {
		fmt.Fprintln(w, "No results.")
		return
	}

	if resp.AnswerBox != nil {
		if text, ok := resp.AnswerBox.BestText(); ok {
			fmt.Fprintf(w, "Answer: %s\n", clean(text))
		}
	}

	if kg := resp.KnowledgeGraph; kg != nil && kg.Title != nil {
		line := *kg.Title
		if kg.EntityType != nil {
			line += " (" + *kg.EntityType + ")"
		}
		fmt.Fprintf(w, "Entity: %s\n", clean(line))
	}

	for _, r := range resp.OrganicResults() {
		domain, ok := r.Domain()
		if !ok {
			domain = "-"
		}
		fmt.Fprintf(w, "%2d. %s [%s]\n    %s\n    %s\n",
			r.Position, clean(r.Title), domain, r.Link, clean(r.SnippetOrDefault()))
	}

	for _, n := range resp.News {
		fmt.Fprintf(w, "News: %s - %s\n", clean(n.Title), n.Link)
	}
}

func clean(s string) string {
	return validation.Truncate(validation.Sanitize(s), snippetWidth)
}
