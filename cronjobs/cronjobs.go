package cronjobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"go-ner-proxy/types"
)

// warmupText is short enough to cost nothing and still forces a model load.
const warmupText = "Alice"

const warmupTimeout = 2 * time.Minute

type Tagger interface {
	Name() string
	Tag(ctx context.Context, text string) (types.InferenceResult, error)
}

// pingModel sends one tiny inference so the hosted model stays loaded.
// Failures are logged; nothing is retried.
func pingModel(tagger Tagger) {
	ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
	defer cancel()

	start := time.Now()
	result, err := tagger.Tag(ctx, warmupText)
	if err != nil {
		log.Printf("CronJob: keep-warm for %s failed: %v", tagger.Name(), err)
		return
	}
	switch result.Kind {
	case types.KindTags:
		log.Printf("CronJob: keep-warm for %s ok in %v", tagger.Name(), time.Since(start).Round(time.Millisecond))
	case types.KindProviderError:
		log.Printf("CronJob: keep-warm for %s got provider error: %s", tagger.Name(), result.ErrorText)
	default:
		log.Printf("CronJob: keep-warm for %s got unexpected response: %s", tagger.Name(), result.Raw)
	}
}

// StartKeepWarm schedules pingModel on a standard five-field cron spec.
// An empty schedule disables the job and returns a nil scheduler.
func StartKeepWarm(schedule string, tagger Tagger) (*cron.Cron, error) {
	if schedule == "" {
		return nil, nil
	}

	log.Println("\nStarting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		log.Printf("\nCronJob: keep-warm for %s running", tagger.Name())
		pingModel(tagger)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule keep-warm %q: %w", schedule, err)
	}

	c.Start()
	return c, nil
}
