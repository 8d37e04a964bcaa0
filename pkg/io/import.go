package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/hydronet/pkg/errors"
	"github.com/matzehuels/hydronet/pkg/records"
)

// ReadJSON decodes a JSON record set from r.
//
// The input must be a JSON object with "barriers", "flowlines",
// "catchments" and "tributaries" tables, each holding "fields" and "rows".
//
// ReadJSON returns an INVALID_INPUT error if the JSON is malformed, and
// an INVALID_RECORD error if a table misses a required field or a row is
// shorter than the declared columns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*records.Set, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var set records.Set
	if err := dec.Decode(&set); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode records")
	}
	for name, t := range set.Tables() {
		if t.Fields == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "missing table %q", name)
		}
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// ImportJSON reads a JSON file at path and returns the decoded records.
//
// ImportJSON returns a FILE_NOT_FOUND error if path does not exist, and
// the same validation errors as [ReadJSON] otherwise.
func ImportJSON(path string) (*records.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
