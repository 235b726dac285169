package web

import (
	"context"
	"net/http"
)

// Encoder defines behavior that can encode a data model and provide
// the content type for that encoding.
type Encoder interface {
	Encode() (data []byte, contentType string, err error)
}

// httpStatus is checked by Respond for a status code override.
type httpStatus interface {
	HTTPStatus() int
}

// NoResponse tells the Respond function to not respond to the request. In
// these cases the app layer code has already done so, or an empty 204 is the
// contract, as with an empty mailbox slot.
type NoResponse struct{}

// NewNoResponse constructs a no response value.
func NewNoResponse() NoResponse {
	return NoResponse{}
}

// Encode implements the Encoder interface.
func (NoResponse) Encode() ([]byte, string, error) {
	return nil, "", nil
}

// HTTPStatus implements the httpStatus interface.
func (NoResponse) HTTPStatus() int {
	return http.StatusNoContent
}

// StatusOf returns the HTTP status code the encoder will be sent with.
func StatusOf(resp Encoder) int {
	switch v := resp.(type) {
	case httpStatus:
		return v.HTTPStatus()

	case error:
		return http.StatusInternalServerError

	case nil:
		return http.StatusNoContent
	}

	return http.StatusOK
}

// Respond sends a response to the client.
func Respond(ctx context.Context, w http.ResponseWriter, resp Encoder) error {

	// If the context has been canceled, it means the client is no longer
	// waiting for a response.
	if err := ctx.Err(); err != nil {
		if err == context.Canceled {
			return nil
		}
	}

	statusCode := StatusOf(resp)

	setStatusCode(ctx, statusCode)

	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return nil
	}

	data, contentType, err := resp.Encode()
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(statusCode)

	if _, err := w.Write(data); err != nil {
		return err
	}

	return nil
}
