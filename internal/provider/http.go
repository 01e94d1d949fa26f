package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxResponseBytes = 64 << 20

// Do sends req and returns the response body of a 2xx response. Every other
// outcome is returned as an *Error.
func Do(client *http.Client, provider, op string, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, FromTransport(provider, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, FromTransport(provider, op, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, FromStatus(provider, op, resp.StatusCode, body)
	}
	return body, nil
}

// DoJSON sends req and decodes a JSON response body into out.
func DoJSON(client *http.Client, provider, op string, req *http.Request, out any) error {
	body, err := Do(client, provider, op, req)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return Malformed(provider, op, errors.New("empty response body"))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return Malformed(provider, op, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}
