package mentor

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandeepkv93/mentord/internal/model"
)

var (
	ErrMissingAPIKey = errors.New("mentor: api key not configured")
	ErrEmptyPrompt   = errors.New("mentor: empty prompt")
)

// Client is the language model behind the mentor persona.
type Client interface {
	// SendMessage answers text given the earlier turns of the same conversation.
	SendMessage(ctx context.Context, history []model.Message, text string) (string, error)
	// GenerateOutline returns "" with a nil error when the model produced nothing.
	GenerateOutline(ctx context.Context, topic string) (string, error)
}

// APIError is a non-2xx answer from the model endpoint.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mentor: api error %d: %s", e.Status, e.Body)
}
