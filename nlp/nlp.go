package nlp

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	language "cloud.google.com/go/language/apiv2"
	"cloud.google.com/go/language/apiv2/languagepb"
	"google.golang.org/api/option"

	"go-ner-proxy/types"
)

const GoogleProviderName = "google"

const analyzeTimeout = 30 * time.Second

// GoogleTagger tags text with the Cloud Natural Language entity API.
type GoogleTagger struct {
	client *language.Client
}

// NewGoogleTagger builds a tagger from base64 encoded service account JSON.
// An empty credential yields a tagger that reports MisconfiguredCredential
// on every call instead of failing at startup.
func NewGoogleTagger(ctx context.Context, encodedCreds string) (*GoogleTagger, error) {
	if encodedCreds == "" {
		log.Println("NATURAL_LANGUAGE_CREDENTIALS not set, google tagger disabled")
		return &GoogleTagger{}, nil
	}

	creds, err := base64.StdEncoding.DecodeString(encodedCreds)
	if err != nil {
		return nil, fmt.Errorf("decode natural language credentials: %w", err)
	}

	client, err := language.NewClient(ctx, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, fmt.Errorf("create natural language client: %w", err)
	}
	return &GoogleTagger{client: client}, nil
}

func (g *GoogleTagger) Name() string {
	return GoogleProviderName
}

// Tag sends text to AnalyzeEntities and flattens every PERSON mention into a tag.
func (g *GoogleTagger) Tag(ctx context.Context, text string) (types.InferenceResult, error) {
	if g.client == nil {
		return types.InferenceResult{}, types.NewMisconfiguredCredential(GoogleProviderName)
	}

	req := &languagepb.AnalyzeEntitiesRequest{
		Document: &languagepb.Document{
			Source: &languagepb.Document_Content{
				Content: text,
			},
			Type: languagepb.Document_PLAIN_TEXT,
		},
		EncodingType: languagepb.EncodingType_UTF8,
	}

	ctx, cancel := context.WithTimeout(ctx, analyzeTimeout)
	defer cancel()

	resp, err := g.client.AnalyzeEntities(ctx, req)
	if err != nil {
		return types.InferenceResult{}, types.NewProviderUnavailable(fmt.Errorf("AnalyzeEntities error: %w", err))
	}

	return types.TagsResult(tagsFromEntities(resp.GetEntities())), nil
}

// tagsFromEntities emits one tag per mention so repeated mentions are counted.
func tagsFromEntities(entities []*languagepb.Entity) []types.EntityTag {
	tags := make([]types.EntityTag, 0, len(entities))
	for _, e := range entities {
		if e.GetType() != languagepb.Entity_PERSON {
			continue
		}
		mentions := e.GetMentions()
		if len(mentions) == 0 {
			name := e.GetName()
			tags = append(tags, types.EntityTag{Word: &name, EntityGroup: "PERSON"})
			continue
		}
		for _, m := range mentions {
			word := m.GetText().GetContent()
			start := int(m.GetText().GetBeginOffset())
			tags = append(tags, types.EntityTag{
				Word:        &word,
				EntityGroup: "PERSON",
				Score:       float64(m.GetProbability()),
				Start:       &start,
			})
		}
	}
	return tags
}

func (g *GoogleTagger) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
