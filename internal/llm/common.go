package llm

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

type errorBody struct {
	Message string `json:"message"`
}

// HandleHTTPError builds a KindStatus error from a non-2xx response.
// The service puts its explanation into the "message" field.
func HandleHTTPError(statusCode int, body []byte, logger *zap.Logger, provider string) error {
	logger.Error(provider+" request failed",
		zap.Int("status", statusCode),
		zap.String("body", string(body)),
	)
	return StatusErrorFromBody(statusCode, body)
}

func StatusErrorFromBody(statusCode int, body []byte) *Error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	return NewStatusError(statusCode, eb.Message)
}

// DecodeJSON unmarshals a response body, reporting failures as malformed responses.
func DecodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return NewMalformedResponseError("unmarshal response", err)
	}
	return nil
}

func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

func DoRequest(client *http.Client, req *http.Request) ([]byte, int, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, NewConnectionError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, NewConnectionError(fmt.Errorf("read response: %w", err))
	}

	return body, resp.StatusCode, nil
}
