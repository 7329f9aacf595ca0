package types

import (
	"bytes"
	"encoding/json"
)

// InferenceKind discriminates the shapes a provider may answer with.
type InferenceKind int

const (
	KindTags InferenceKind = iota
	KindProviderError
	KindUnexpected
)

func (k InferenceKind) String() string {
	switch k {
	case KindTags:
		return "tags"
	case KindProviderError:
		return "provider_error"
	default:
		return "unexpected"
	}
}

// InferenceResult is the parsed provider answer. Exactly one of Tags,
// ErrorText or Raw is meaningful, selected by Kind.
type InferenceResult struct {
	Kind      InferenceKind
	Tags      []EntityTag
	ErrorText string
	Raw       string
}

func TagsResult(tags []EntityTag) InferenceResult {
	return InferenceResult{Kind: KindTags, Tags: tags}
}

func ProviderErrorResult(text string) InferenceResult {
	return InferenceResult{Kind: KindProviderError, ErrorText: text}
}

func UnexpectedResult(raw string) InferenceResult {
	return InferenceResult{Kind: KindUnexpected, Raw: raw}
}

// ParseInference turns a provider body into an InferenceResult.
// It never fails: anything that is neither a tag array nor an
// {"error": ...} object becomes KindUnexpected with the body kept as Raw.
func ParseInference(body []byte) InferenceResult {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return UnexpectedResult(string(body))
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return UnexpectedResult(string(trimmed))
		}
		tags := make([]EntityTag, 0, len(items))
		for _, item := range items {
			item = bytes.TrimSpace(item)
			if len(item) == 0 || item[0] != '{' {
				return UnexpectedResult(string(trimmed))
			}
			var tag EntityTag
			if err := json.Unmarshal(item, &tag); err != nil {
				return UnexpectedResult(string(trimmed))
			}
			tags = append(tags, tag)
		}
		return TagsResult(tags)

	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return UnexpectedResult(string(trimmed))
		}
		errValue, ok := obj["error"]
		if !ok {
			return UnexpectedResult(string(trimmed))
		}
		return ProviderErrorResult(rawToText(errValue))

	default:
		return UnexpectedResult(rawToText(trimmed))
	}
}

// rawToText unquotes JSON strings and returns any other value as JSON text.
func rawToText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
