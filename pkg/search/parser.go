package search

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"serper-client/internal/common/validation"
	serrors "serper-client/pkg/errors"
)

// shapeSchema lists the fields a raw body must carry. A section may be
// absent or null, but an entry that is present needs every non-optional
// field with the right JSON type.
const shapeSchema = `{
	"type": "object",
	"definitions": {
		"text": {"type": "string"},
		"position": {"type": "integer", "minimum": 0, "maximum": 4294967295},
		"listing": {
			"type": "object",
			"required": ["title", "link", "position"],
			"properties": {
				"title": {"$ref": "#/definitions/text"},
				"link": {"$ref": "#/definitions/text"},
				"position": {"$ref": "#/definitions/position"}
			}
		}
	},
	"properties": {
		"search_metadata": {
			"type": ["object", "null"],
			"required": ["id", "status", "created_at", "request_time_taken", "total_time_taken"],
			"properties": {
				"id": {"$ref": "#/definitions/text"},
				"status": {"$ref": "#/definitions/text"},
				"created_at": {"$ref": "#/definitions/text"},
				"request_time_taken": {"type": "number"},
				"total_time_taken": {"type": "number"}
			}
		},
		"organic": {"type": ["array", "null"], "items": {"$ref": "#/definitions/listing"}},
		"related_questions": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["question"],
				"properties": {"question": {"$ref": "#/definitions/text"}}
			}
		},
		"shopping": {"type": ["array", "null"], "items": {"$ref": "#/definitions/listing"}},
		"news": {"type": ["array", "null"], "items": {"$ref": "#/definitions/listing"}}
	}
}`

// contentSchema encodes the checks applied to a decoded response: a present
// metadata block needs an id, and every organic result needs a title and a
// link.
const contentSchema = `{
	"type": "object",
	"properties": {
		"search_metadata": {
			"type": "object",
			"properties": {
				"id": {"type": "string", "minLength": 1}
			}
		},
		"organic": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"title": {"type": "string", "minLength": 1},
					"link": {"type": "string", "minLength": 1}
				}
			}
		}
	}
}`

var (
	bodySchema      = validation.MustCompileSchema(shapeSchema)
	structureSchema = validation.MustCompileSchema(contentSchema)
	organicField    = regexp.MustCompile(`^organic\.(\d+)\.(title|link)$`)
)

// ParseResponse decodes a raw response body. A body that is not JSON, or
// that lacks a required field of an entry it carries, is a parse error.
func ParseResponse(data []byte) (*SearchResponse, error) {
	var resp SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, serrors.NewParseError(err)
	}

	result, err := bodySchema.ValidateBytes(data)
	if err != nil {
		return nil, serrors.NewParseError(err)
	}
	if !result.Valid {
		return nil, serrors.NewParseError(fmt.Errorf("unexpected response shape: %s",
			strings.Join(result.GetErrorMessages(), "; ")))
	}
	return &resp, nil
}

// ValidateResponse runs the structural checks over a decoded response. When
// several checks fail, the metadata check is reported first, then organic
// results in order, title before link.
func ValidateResponse(resp *SearchResponse) error {
	if resp == nil {
		return serrors.NewValidationError("Response is empty")
	}

	result, err := structureSchema.Validate(resp)
	if err != nil {
		return serrors.NewValidationError(err.Error())
	}
	if result.Valid {
		return nil
	}

	best, bestRank := "", -1
	for _, v := range result.Errors {
		msg, rank := describeViolation(v)
		if bestRank == -1 || rank < bestRank {
			best, bestRank = msg, rank
		}
	}
	return serrors.NewValidationError(best)
}

// describeViolation turns a schema violation into a message and a sort
// rank.
func describeViolation(v validation.ValidationError) (string, int) {
	if v.Field == "search_metadata.id" {
		return "Response metadata has empty ID", 0
	}
	if m := organicField.FindStringSubmatch(v.Field); m != nil {
		idx, _ := strconv.Atoi(m[1])
		rank := 1 + idx*2
		if m[2] == "link" {
			rank++
		}
		return fmt.Sprintf("Organic result %d has empty %s", idx, m[2]), rank
	}
	return fmt.Sprintf("Response structure invalid at %s: %s",
		strings.TrimSpace(v.Field), v.Message), int(^uint(0) >> 1)
}
