package types

import "testing"

func TestParseInference(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantKind  InferenceKind
		wantTags  int
		wantError string
		wantRaw   string
	}{
		{
			name:     "tag array",
			body:     `[{"entity_group":"PER","word":"Alice","score":0.99,"start":0,"end":5},{"entity":"I-LOC","word":"Paris"}]`,
			wantKind: KindTags,
			wantTags: 2,
		},
		{
			name:     "empty array",
			body:     `[]`,
			wantKind: KindTags,
			wantTags: 0,
		},
		{
			name:      "model loading",
			body:      `{"error":"Model is currently loading","estimated_time":20.0}`,
			wantKind:  KindProviderError,
			wantError: "Model is currently loading",
		},
		{
			name:      "non-string error value",
			body:      `{"error":["bad token"]}`,
			wantKind:  KindProviderError,
			wantError: `["bad token"]`,
		},
		{
			name:     "object without error",
			body:     `{"foo":"bar"}`,
			wantKind: KindUnexpected,
			wantRaw:  `{"foo":"bar"}`,
		},
		{
			name:     "number",
			body:     `42`,
			wantKind: KindUnexpected,
			wantRaw:  "42",
		},
		{
			name:     "bare string",
			body:     `"oops"`,
			wantKind: KindUnexpected,
			wantRaw:  "oops",
		},
		{
			name:     "array of non-objects",
			body:     `[1,2]`,
			wantKind: KindUnexpected,
			wantRaw:  "[1,2]",
		},
		{
			name:     "not json",
			body:     `<html>Service Unavailable</html>`,
			wantKind: KindUnexpected,
			wantRaw:  `<html>Service Unavailable</html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInference([]byte(tt.body))
			if got.Kind != tt.wantKind {
				t.Fatalf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if len(got.Tags) != tt.wantTags {
				t.Errorf("len(Tags) = %d, want %d", len(got.Tags), tt.wantTags)
			}
			if got.ErrorText != tt.wantError {
				t.Errorf("ErrorText = %q, want %q", got.ErrorText, tt.wantError)
			}
			if got.Raw != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", got.Raw, tt.wantRaw)
			}
		})
	}
}

func TestEntityTagLabel(t *testing.T) {
	if got := (EntityTag{EntityGroup: "PER", Entity: "B-LOC"}).Label(); got != "PER" {
		t.Errorf("Label() = %q, want entity_group to win", got)
	}
	if got := (EntityTag{Entity: "PERSON"}).Label(); got != "PERSON" {
		t.Errorf("Label() = %q, want fallback to entity", got)
	}
	if got := (EntityTag{}).Label(); got != "" {
		t.Errorf("Label() = %q, want empty", got)
	}
}

func TestErrorKindHTTPStatus(t *testing.T) {
	cases := map[ErrorKind]int{
		InvalidInput:              400,
		MisconfiguredCredential:   500,
		ProviderUnavailable:       502,
		ProviderError:             502,
		MalformedProviderResponse: 500,
		InternalFault:             500,
	}
	for kind, want := range cases {
		if got := kind.HTTPStatus(); got != want {
			t.Errorf("%s.HTTPStatus() = %d, want %d", kind, got, want)
		}
	}
}
