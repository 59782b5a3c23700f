package docstore

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type document = map[string]any

// toDocument normalizes any JSON-encodable value to a generic document so that
// structs, maps and filters compare on the same representation.
func toDocument(v any) (document, error) {
	if v == nil {
		return document{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	doc := document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("document must be a JSON object: %w", err)
	}
	if doc == nil {
		doc = document{}
	}
	return doc, nil
}

// toFilter normalizes a filter and rejects non-scalar values.
func toFilter(f Filter) (document, error) {
	doc, err := toDocument(f)
	if err != nil {
		return nil, err
	}
	for k, v := range doc {
		switch v.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("%w: field %q", ErrInvalidFilter, k)
		}
	}
	return doc, nil
}

// prepareInsert assigns an _id when the document has none.
func prepareInsert(v any) (document, string, error) {
	doc, err := toDocument(v)
	if err != nil {
		return nil, "", err
	}
	id, _ := doc[IDField].(string)
	if id == "" {
		id = uuid.NewString()
		doc[IDField] = id
	}
	return doc, id, nil
}

// prepareSet normalizes an update and strips the immutable _id.
func prepareSet(v any) (document, error) {
	doc, err := toDocument(v)
	if err != nil {
		return nil, err
	}
	delete(doc, IDField)
	return doc, nil
}

func decode(raw []byte, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func decodeDocuments(docs []document, out any) error {
	if docs == nil {
		docs = []document{}
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode documents: %w", err)
	}
	return decode(raw, out)
}
