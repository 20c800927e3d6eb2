package domain

import (
	"errors"
	"fmt"
)

// ErrNoArticle reports that the site search returned no usable article
// for a topic. The pipeline turns it into a notice, not a failure.
var ErrNoArticle = errors.New("no matching article found")

// FetchError wraps a failure to retrieve a page from the news site.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError reports that a required figure could not be parsed
// out of the article body.
type ExtractionError struct {
	Topic   Topic
	Missing string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: missing %s", e.Topic, e.Missing)
}

// SummarizationError wraps a failure of the analysis model, either the
// request itself or an unusable response.
type SummarizationError struct {
	Topic Topic
	Err   error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarize %s: %v", e.Topic, e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }

// MissingFieldError reports a template placeholder with no value. The
// formatter never invents data for an empty slot.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing template field %s", e.Field)
}

// DeliveryError wraps a failure to hand a finished script to the
// delivery channel.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver via %s: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
