package service

import (
	"bytes"
	"slices"

	"yolodash/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DecodeString classifies the result of a string-valued bridge call.
// callErr is the error returned by the bridge, if any.
func DecodeString(raw []byte, callErr error) entity.StringOutcome {
	if callErr != nil {
		return entity.StringOutcome{Kind: entity.OutcomeFailed, Err: callErr}
	}
	if s, ok := decodeJSONString(raw); ok {
		return entity.StringOutcome{Kind: entity.OutcomeValue, Value: s}
	}
	return entity.StringOutcome{Kind: entity.OutcomeNotString}
}

// DecodeBatch decodes a batch price response into per-symbol entries sorted by
// symbol. ok is false when the response is not a JSON object; in that case no
// entries are returned.
func DecodeBatch(raw []byte) (entries []entity.BatchEntry, ok bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}

	var obj map[string]jsoniter.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}

	entries = make([]entity.BatchEntry, 0, len(obj))
	for symbol, value := range obj {
		s, isString := decodeJSONString(value)
		entries = append(entries, entity.BatchEntry{Symbol: symbol, Value: s, OK: isString})
	}
	slices.SortFunc(entries, func(a, b entity.BatchEntry) int {
		switch {
		case a.Symbol < b.Symbol:
			return -1
		case a.Symbol > b.Symbol:
			return 1
		default:
			return 0
		}
	})
	return entries, true
}

func decodeJSONString(raw []byte) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}
