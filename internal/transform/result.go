package transform

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/genpare/genpare/internal/ir"
)

// Result is the output of one transformer. It encodes with a resultOf tag
// naming the transformer that produced it.
type Result interface {
	ResultOf() Kind
}

// AverageResult holds the mean salary overall and per gender. A nil field
// means the partition was empty.
type AverageResult struct {
	AverageTotal   *int64 `json:"averageTotal"`
	AverageMale    *int64 `json:"averageMale"`
	AverageFemale  *int64 `json:"averageFemale"`
	AverageDiverse *int64 `json:"averageDiverse"`
}

func (AverageResult) ResultOf() Kind { return KindAverage }

func (r AverageResult) MarshalJSON() ([]byte, error) {
	type fields AverageResult
	return json.Marshal(struct {
		ResultOf Kind `json:"resultOf"`
		fields
	}{KindAverage, fields(r)})
}

// AnonymizedSalary is one salary with age and salary replaced by ranges.
type AnonymizedSalary struct {
	Age              ir.IntRange         `json:"age"`
	Salary           ir.IntRange         `json:"salary"`
	Gender           ir.Gender           `json:"gender"`
	JobTitle         string              `json:"jobTitle"`
	State            ir.State            `json:"state"`
	LevelOfEducation ir.LevelOfEducation `json:"levelOfEducation"`
}

// ListResult lists every matching salary, anonymized.
type ListResult struct {
	Results []AnonymizedSalary `json:"results"`
}

func (ListResult) ResultOf() Kind { return KindList }

func (r ListResult) MarshalJSON() ([]byte, error) {
	type fields ListResult
	if r.Results == nil {
		r.Results = []AnonymizedSalary{}
	}
	return json.Marshal(struct {
		ResultOf Kind `json:"resultOf"`
		fields
	}{KindList, fields(r)})
}

// Response is the envelope returned for a query.
type Response struct {
	Results []Result `json:"results"`
}

func (r Response) MarshalJSON() ([]byte, error) {
	results := r.Results
	if results == nil {
		results = []Result{}
	}
	return json.Marshal(struct {
		Results []Result `json:"results"`
	}{results})
}

// ErrUnknownResult is returned when a response carries a result whose
// resultOf tag is not a known transformer.
var ErrUnknownResult = errors.New("unknown result")

// DecodeResponse decodes a response envelope back into typed results,
// dispatching on each result's resultOf tag.
func DecodeResponse(data []byte) (Response, error) {
	if !gjson.ValidBytes(data) {
		return Response{}, fmt.Errorf("response is not valid JSON")
	}

	results := gjson.GetBytes(data, "results")
	if !results.IsArray() {
		return Response{}, fmt.Errorf("response has no results array")
	}

	out := Response{Results: []Result{}}
	var decodeErr error
	results.ForEach(func(key, value gjson.Result) bool {
		res, err := decodeResult(value)
		if err != nil {
			decodeErr = fmt.Errorf("result %d: %w", key.Int(), err)
			return false
		}
		out.Results = append(out.Results, res)
		return true
	})
	if decodeErr != nil {
		return Response{}, decodeErr
	}
	return out, nil
}

func decodeResult(value gjson.Result) (Result, error) {
	tag := value.Get("resultOf")
	if tag.Type != gjson.String {
		return nil, fmt.Errorf("%w: missing resultOf", ErrUnknownResult)
	}

	switch Kind(tag.Str) {
	case KindAverage:
		var r AverageResult
		if err := json.Unmarshal([]byte(value.Raw), &r); err != nil {
			return nil, fmt.Errorf("decode average result: %w", err)
		}
		return r, nil
	case KindList:
		var r ListResult
		if err := json.Unmarshal([]byte(value.Raw), &r); err != nil {
			return nil, fmt.Errorf("decode list result: %w", err)
		}
		if r.Results == nil {
			r.Results = []AnonymizedSalary{}
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownResult, tag.Str)
	}
}
