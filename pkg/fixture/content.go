package fixture

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ContentBytes reads and closes the body of resp.
func ContentBytes(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// ContentString reads and closes the body of resp as text.
func ContentString(resp *http.Response) (string, error) {
	data, err := ContentBytes(resp)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeContent reads and closes the body of resp and decodes it as JSON
// into a T.
func DecodeContent[T any](resp *http.Response) (T, error) {
	var v T
	data, err := ContentBytes(resp)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("failed to decode %s content: %w", resp.Header.Get("Content-Type"), err)
	}
	return v, nil
}
