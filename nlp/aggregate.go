package nlp

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"go-ner-proxy/types"

	"golang.org/x/text/unicode/norm"
)

// DefaultPersonLabels covers both CoNLL-style ("PER") and OntoNotes-style ("PERSON") models.
var DefaultPersonLabels = []string{"PER", "PERSON"}

// DefaultMinNameRunes drops single-character fragments.
const DefaultMinNameRunes = 2

// AggregatorOptions configures NewAggregator. An empty PersonLabels means
// DefaultPersonLabels. MinNameRunes is taken as given: 0 keeps every
// non-empty name, so callers wanting the usual policy pass DefaultMinNameRunes.
type AggregatorOptions struct {
	PersonLabels []string
	MinNameRunes int
}

// Aggregator folds provider tags into per-name person counts.
// It holds no per-request state and is safe for concurrent use.
type Aggregator struct {
	personLabels map[string]struct{}
	minNameRunes int
}

func NewAggregator(opts AggregatorOptions) *Aggregator {
	labels := opts.PersonLabels
	if len(labels) == 0 {
		labels = DefaultPersonLabels
	}
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			set[l] = struct{}{}
		}
	}
	return &Aggregator{personLabels: set, minNameRunes: opts.MinNameRunes}
}

// IsPerson reports whether a resolved tag label designates a person.
func (a *Aggregator) IsPerson(label string) bool {
	_, ok := a.personLabels[label]
	return ok
}

// Aggregate converts a provider answer into an AnalysisResult.
// Provider error payloads and unexpected shapes come back as *types.AnalysisError.
func (a *Aggregator) Aggregate(documentID string, res types.InferenceResult) (types.AnalysisResult, error) {
	switch res.Kind {
	case types.KindProviderError:
		return types.AnalysisResult{}, &types.AnalysisError{
			Kind:    types.ProviderError,
			Message: types.MsgProviderError,
			Details: res.ErrorText,
		}
	case types.KindTags:
	default:
		return types.AnalysisResult{}, &types.AnalysisError{
			Kind:    types.MalformedProviderResponse,
			Message: types.MsgMalformedResponse,
			Raw:     res.Raw,
		}
	}

	counts := make(map[string]int)
	var order []string
	for _, tag := range res.Tags {
		if tag.Word == nil || !a.IsPerson(tag.Label()) {
			continue
		}
		name := NormalizeName(*tag.Word)
		if utf8.RuneCountInString(name) < a.minNameRunes || name == "" {
			continue
		}
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	entities := make([]types.AggregatedEntity, 0, len(order))
	for _, name := range order {
		entities = append(entities, types.AggregatedEntity{
			Name:            name,
			EntityType:      types.PersonEntityType,
			Count:           counts[name],
			ImportanceScore: ImportanceScore(counts[name], total),
		})
	}

	return types.AnalysisResult{
		DocumentID:       documentID,
		NamedEntities:    entities,
		TotalPersonCount: total,
		AnalysisStatus:   types.StatusCompleted,
	}, nil
}

// NormalizeName removes all whitespace and wordpiece "#" markers, then
// applies NFC. Stripping happens first so the result is a fixed point.
func NormalizeName(word string) string {
	stripped := strings.Map(func(r rune) rune {
		if r == '#' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, word)
	return norm.NFC.String(stripped)
}

// ImportanceScore is count/total rounded to two decimals, 0 when total is 0.
// Exact ties round to even (1/8 is 0.12).
func ImportanceScore(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	share := float64(count) / float64(total)
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(share, 'f', 2, 64), 64)
	if err != nil {
		return share
	}
	return rounded
}
