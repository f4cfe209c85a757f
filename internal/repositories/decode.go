package repositories

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// decodeFields copies a stored document map into out. Numbers and strings are
// converted weakly since documents written by different clients disagree on
// representation (e.g. prices stored as "12.5" or 12.5).
func decodeFields(data map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}
