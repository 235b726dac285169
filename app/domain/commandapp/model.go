package commandapp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/essentialsgg/relay/app/sdk/errs"
	"github.com/essentialsgg/relay/business/types/commandkind"
)

// =============================================================================
// Accepted (Output)
// =============================================================================

// Accepted acknowledges a submitted command with the entry id the mailbox
// slot now carries.
type Accepted struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// Encode implements the web.Encoder interface.
func (app Accepted) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

// =============================================================================
// Inputs, one per command kind
// =============================================================================

// NewBroadcast defines the data needed to post an announcement.
type NewBroadcast struct {
	Type    string `json:"type" validate:"required,oneof=hint message"`
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Validate checks the data in the model is considered clean.
func (app NewBroadcast) Validate() error {
	if err := errs.Check(app); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// NewRemoval defines the data needed to remove a participant. It covers the
// kick, serverBan and permBan kinds, which share a wire shape.
type NewRemoval struct {
	TargetUser string `json:"targetUser" validate:"required"`
	Reason     string `json:"reason"`
}

// Validate checks the data in the model is considered clean.
func (app NewRemoval) Validate() error {
	if err := errs.Check(app); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// NewShutdown defines the data needed to disable a machine.
type NewShutdown struct {
	JobID  string `json:"jobId" validate:"required"`
	Reason string `json:"reason"`
}

// Validate checks the data in the model is considered clean.
func (app NewShutdown) Validate() error {
	if err := errs.Check(app); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// =============================================================================

// decodePayload decodes the request body with the kind's model and flattens
// it to the payload field map the mailbox stores.
func decodePayload(r *http.Request, kind commandkind.CommandKind) (map[string]string, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	switch {
	case kind.Equal(commandkind.Broadcast):
		var app NewBroadcast
		if err := decode(data, &app); err != nil {
			return nil, err
		}
		return map[string]string{
			"type":    app.Type,
			"title":   app.Title,
			"message": app.Message,
		}, nil

	case kind.Equal(commandkind.Shutdown):
		var app NewShutdown
		if err := decode(data, &app); err != nil {
			return nil, err
		}
		return map[string]string{
			"jobId":  app.JobID,
			"reason": app.Reason,
		}, nil

	default:
		var app NewRemoval
		if err := decode(data, &app); err != nil {
			return nil, err
		}
		return map[string]string{
			"targetUser": app.TargetUser,
			"reason":     app.Reason,
		}, nil
	}
}

type validator interface {
	Validate() error
}

func decode(data []byte, v validator) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	return v.Validate()
}
