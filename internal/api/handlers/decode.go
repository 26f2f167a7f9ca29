package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxBodySize ограничивает размер тела запроса (1 MB)
const maxBodySize = 1 << 20

// DecodeJSON декодирует JSON тело запроса в dst
// Неизвестные поля запрещены
func DecodeJSON(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}

	return nil
}
