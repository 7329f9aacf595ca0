package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-ner-proxy/nlp"
	"go-ner-proxy/types"
)

// Tagger is an external NER provider.
type Tagger interface {
	Name() string
	// Tag returns the provider's parsed answer. A non-nil error is a
	// *types.AnalysisError (missing credential, transport failure).
	Tag(ctx context.Context, text string) (types.InferenceResult, error)
}

// AnalyzeText handles POST /analyze-text.
func AnalyzeText(c *gin.Context, tagger Tagger, aggregator *nlp.Aggregator) {
	req, err := bindAnalysisRequest(c)
	if err != nil {
		WriteAnalysisError(c, err)
		return
	}

	// default only when the key is absent; an explicit "" is kept
	documentID := types.DefaultChapterID
	if req.ChapterID != nil {
		documentID = *req.ChapterID
	}

	// client disconnects do not abort the provider call; its own timeout bounds it
	ctx := context.WithoutCancel(c.Request.Context())

	inference, err := tagger.Tag(ctx, *req.ChapterName)
	if err != nil {
		WriteAnalysisError(c, err)
		return
	}

	result, err := aggregator.Aggregate(documentID, inference)
	if err != nil {
		WriteAnalysisError(c, err)
		return
	}

	log.Printf("[%s] document %s: %d person mentions, %d unique names via %s",
		requestID(c), documentID, result.TotalPersonCount, len(result.NamedEntities), tagger.Name())
	c.JSON(http.StatusOK, result)
}

// bindAnalysisRequest reads the first element of the posted array.
// Later elements are neither decoded nor validated.
func bindAnalysisRequest(c *gin.Context) (*types.AnalysisRequest, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, types.NewInvalidInput()
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil || len(items) == 0 {
		return nil, types.NewInvalidInput()
	}

	first := bytes.TrimSpace(items[0])
	if len(first) == 0 || first[0] != '{' {
		return nil, types.NewInvalidInput()
	}

	var req types.AnalysisRequest
	if err := json.Unmarshal(first, &req); err != nil || req.ChapterName == nil {
		return nil, types.NewInvalidInput()
	}
	return &req, nil
}

// WriteAnalysisError renders err as one of the documented error bodies.
// Anything that is not a *types.AnalysisError is an internal fault.
func WriteAnalysisError(c *gin.Context, err error) {
	var aerr *types.AnalysisError
	if !errors.As(err, &aerr) {
		aerr = types.NewInternalFault(err)
	}

	body := gin.H{"error": aerr.Message}
	switch aerr.Kind {
	case types.ProviderError, types.ProviderUnavailable:
		body["details"] = aerr.Details
	case types.MalformedProviderResponse:
		body["raw"] = aerr.Raw
	case types.InternalFault:
		message := ""
		if aerr.Err != nil {
			message = aerr.Err.Error()
		}
		body["message"] = message
	}

	log.Printf("[%s] %s %s -> %d: %v", requestID(c), c.Request.Method, c.Request.URL.Path, aerr.Kind.HTTPStatus(), aerr)
	c.AbortWithStatusJSON(aerr.Kind.HTTPStatus(), body)
}

func requestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
