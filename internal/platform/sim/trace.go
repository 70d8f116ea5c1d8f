package sim

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/luki/sensores/internal/sensor"
)

// LoadTrace reads recorded samples from a CSV file with the format:
//
//	kind,v0,v1,v2
//
// A header row starting with "kind" is skipped, as are rows that do not
// parse. Only rows of the given kind are returned.
func LoadTrace(path string, kind sensor.Kind) ([]sensor.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read trace %s: %w", path, err)
	}

	var samples []sensor.Sample
	for i, row := range records {
		if i == 0 && len(row) > 0 && strings.EqualFold(row[0], "kind") {
			continue
		}
		if len(row) < 2 {
			continue
		}
		k, err := sensor.ParseKind(row[0])
		if err != nil || k != kind {
			continue
		}

		values := make([]float64, 0, len(row)-1)
		ok := true
		for _, cell := range row[1:] {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				ok = false
				break
			}
			values = append(values, v)
		}
		if !ok {
			continue
		}
		samples = append(samples, sensor.Sample{Kind: k, Values: values})
	}
	return samples, nil
}
