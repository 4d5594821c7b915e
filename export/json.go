package export

import (
	"encoding/json"

	"autolist/models"
)

// EncodeJSON serializes the listing verbatim, including extension
// fields, as pretty-printed UTF-8 JSON with 2-space indentation.
func EncodeJSON(l *models.Listing) ([]byte, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
