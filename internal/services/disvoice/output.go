package disvoice

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"voxtract/internal/features"
)

type bridgeResult struct {
	Shape []int    `json:"shape"`
	Data  []sample `json:"data"`
}

// sample decodes bridge numbers; null is NaN and "inf"/"-inf" are infinities.
type sample float64

func (s *sample) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*s = sample(math.NaN())
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		switch strings.ToLower(text) {
		case "inf", "+inf":
			*s = sample(math.Inf(1))
		case "-inf":
			*s = sample(math.Inf(-1))
		case "nan":
			*s = sample(math.NaN())
		default:
			return fmt.Errorf("unexpected sample %q", text)
		}
		return nil
	}
	var value float64
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return err
	}
	*s = sample(value)
	return nil
}

// parseOutput finds the last result line in stdout and decodes it.
func parseOutput(stdout []byte) (features.Array, error) {
	var line string
	scanner := bufio.NewScanner(bytes.NewReader(stdout))
	scanner.Buffer(make([]byte, 64*1024), 256*1024*1024)
	for scanner.Scan() {
		if text := scanner.Text(); strings.HasPrefix(text, ResultPrefix) {
			line = strings.TrimPrefix(text, ResultPrefix)
		}
	}
	if err := scanner.Err(); err != nil {
		return features.Array{}, fmt.Errorf("read engine output: %w", err)
	}
	if line == "" {
		return features.Array{}, errors.New("engine produced no result")
	}

	var result bridgeResult
	if err := json.Unmarshal([]byte(line), &result); err != nil {
		return features.Array{}, fmt.Errorf("decode engine result: %w", err)
	}
	data := make([]float64, len(result.Data))
	for i, v := range result.Data {
		data[i] = float64(v)
	}
	arr := features.Array{Shape: result.Shape, Data: data}
	if err := arr.Validate(); err != nil {
		return features.Array{}, err
	}
	return arr, nil
}
