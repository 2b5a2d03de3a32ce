package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/huangsam/steptrack/schema"
)

// Required keys of each stored record. A missing or null key makes the record invalid.
var (
	vaultKeys   = []string{"therapistName", "notes", "dateCreated"}
	patientKeys = []string{"id", "name", "surname", "diagnosis", "notes", "dateCreated", "birthDate"}
	sessionKeys = []string{"id", "patientId", "notes", "date", "duration", "name", "datasets", "comments"}
	datasetKeys = []string{"label", "color", "data"}
	pointKeys   = []string{"x", "y"}
	commentKeys = []string{"x", "y", "text"}
)

var errNotObject = errors.New("not a JSON object")

// readRecord reads a JSON file and decodes it into v after checking its keys.
func readRecord(path string, v any, keys []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return decodeRecord(data, v, keys)
}

// decodeRecord checks the shape of data and decodes it into v.
// Extra checks run on the raw object before decoding.
func decodeRecord(data []byte, v any, keys []string, checks ...func(map[string]json.RawMessage) error) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errNotObject
	}
	if err := checkKeys(raw, keys); err != nil {
		return err
	}
	for _, check := range checks {
		if err := check(raw); err != nil {
			return err
		}
	}
	return json.Unmarshal(data, v)
}

func checkKeys(raw map[string]json.RawMessage, keys []string) error {
	for _, key := range keys {
		value, ok := raw[key]
		if !ok || string(value) == "null" {
			return fmt.Errorf("missing field %q", key)
		}
	}
	return nil
}

// checkSessionShape checks the keys of nested datasets, points and comments.
func checkSessionShape(raw map[string]json.RawMessage) error {
	var datasets []map[string]json.RawMessage
	if err := json.Unmarshal(raw["datasets"], &datasets); err != nil {
		return fmt.Errorf("datasets: %w", err)
	}
	for i, dataset := range datasets {
		if err := checkKeys(dataset, datasetKeys); err != nil {
			return fmt.Errorf("datasets[%d]: %w", i, err)
		}
		var points []map[string]json.RawMessage
		if err := json.Unmarshal(dataset["data"], &points); err != nil {
			return fmt.Errorf("datasets[%d].data: %w", i, err)
		}
		for j, point := range points {
			if err := checkKeys(point, pointKeys); err != nil {
				return fmt.Errorf("datasets[%d].data[%d]: %w", i, j, err)
			}
		}
	}

	var comments []map[string]json.RawMessage
	if err := json.Unmarshal(raw["comments"], &comments); err != nil {
		return fmt.Errorf("comments: %w", err)
	}
	for i, comment := range comments {
		if err := checkKeys(comment, commentKeys); err != nil {
			return fmt.Errorf("comments[%d]: %w", i, err)
		}
	}
	return nil
}

// validateSession checks the values of a decoded session record.
func validateSession(record schema.SessionRecord) error {
	if math.IsNaN(record.Duration) || math.IsInf(record.Duration, 0) {
		return fmt.Errorf("duration is not a finite number")
	}
	seen := make(map[schema.ScaleID]bool, len(record.Datasets))
	for i, dataset := range record.Datasets {
		if !dataset.Label.Valid() {
			return fmt.Errorf("datasets[%d]: unknown scale %q", i, dataset.Label)
		}
		if seen[dataset.Label] {
			return fmt.Errorf("datasets[%d]: duplicate scale %q", i, dataset.Label)
		}
		seen[dataset.Label] = true
		for j, p := range dataset.Data {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) {
				return fmt.Errorf("datasets[%d].data[%d]: NaN coordinate", i, j)
			}
		}
	}
	return nil
}
