// Package params decodes and encodes the task parameters stored in
// t_ds_task_definition.task_params. Each modeled task type has one
// variant; anything else decodes to Unknown.
package params

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/caesium-cloud/dolphin/pkg/code"
	"github.com/caesium-cloud/dolphin/pkg/log"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

// ErrMissingField is wrapped by DecodeError when a required key is absent.
var ErrMissingField = errors.New("missing field")

// TaskParams is implemented by exactly the variants of this package.
type TaskParams interface {
	TaskType() code.TaskType
	json.Marshaler
	sealed()
}

// DecodeError reports stored parameters that cannot be decoded into the
// variant of TaskType. Field is empty when the payload itself is invalid.
type DecodeError struct {
	TaskType code.TaskType
	Field    string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode %s params: %v", e.TaskType, e.Err)
	}
	return fmt.Sprintf("decode %s params: %s: %v", e.TaskType, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type decoder func(*fields) TaskParams

var registry = map[code.TaskType]decoder{
	code.TaskTypeConditions: decodeConditions,
	code.TaskTypeShell:      decodeShell,
	code.TaskTypeDependent:  decodeDependent,
	code.TaskTypeSpark:      decodeSpark,
	code.TaskTypeSQL:        decodeSQL,
	code.TaskTypeFlink:      decodeFlink,
}

// Decode parses stored as the parameters of taskType. Unmodeled task
// types are logged and returned as *Unknown without error.
func Decode(taskType, stored string) (TaskParams, error) {
	tt, err := code.TaskTypeFromStorage(taskType)
	if err != nil {
		log.Warn("unmodeled task type", "task_type", taskType)
		return &Unknown{Tag: taskType, Raw: datatypes.JSON(stored)}, nil
	}

	dec, ok := registry[tt]
	if !ok {
		log.Warn("no decoder registered", "task_type", taskType)
		return &Unknown{Tag: taskType, Raw: datatypes.JSON(stored)}, nil
	}

	f := &fields{taskType: tt}
	if err := json.Unmarshal([]byte(stored), &f.raw); err != nil {
		return nil, &DecodeError{TaskType: tt, Err: err}
	}
	if f.raw == nil {
		return nil, &DecodeError{TaskType: tt, Err: errors.New("parameters are not a JSON object")}
	}

	p := dec(f)
	if f.err != nil {
		return nil, f.err
	}
	return p, nil
}

// Encode renders p in the shape the HTTP API expects.
func Encode(p TaskParams) ([]byte, error) {
	if p == nil {
		return nil, errors.New("nil task params")
	}
	b, err := p.MarshalJSON()
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s params", p.TaskType())
	}
	return b, nil
}

// EmptyList is the JSON empty list used for unset list parameters.
func EmptyList() datatypes.JSON {
	return datatypes.JSON("[]")
}

// fields reads the keys of one parameter object, keeping the first error.
type fields struct {
	taskType code.TaskType
	raw      map[string]json.RawMessage
	err      error
}

func (f *fields) required(key string, dst any) {
	if f.err != nil {
		return
	}
	raw, ok := f.raw[key]
	if !ok {
		f.err = &DecodeError{TaskType: f.taskType, Field: key, Err: ErrMissingField}
		return
	}
	f.decode(key, raw, dst)
}

func (f *fields) optional(key string, dst any) {
	if f.err != nil {
		return
	}
	if raw, ok := f.raw[key]; ok {
		f.decode(key, raw, dst)
	}
}

func (f *fields) decode(key string, raw json.RawMessage, dst any) {
	// datatypes.JSON keeps null verbatim; collapse it to unset.
	if j, ok := dst.(*datatypes.JSON); ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		*j = nil
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		f.err = &DecodeError{TaskType: f.taskType, Field: key, Err: err}
	}
}

// Unknown holds the raw parameters of a task type with no variant.
type Unknown struct {
	Tag string
	Raw datatypes.JSON
}

func (Unknown) TaskType() code.TaskType { return code.TaskTypeUnknown }

func (u Unknown) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(u.Raw)) == 0 {
		return []byte("{}"), nil
	}
	if !json.Valid(u.Raw) {
		return nil, errors.Errorf("raw %s params are not valid JSON", u.Tag)
	}
	return []byte(u.Raw), nil
}

func (Unknown) sealed() {}
