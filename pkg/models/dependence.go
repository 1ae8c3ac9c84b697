package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/caesium-cloud/dolphin/pkg/code"
	"github.com/pkg/errors"
)

// MissingFieldError reports a required key absent from a dependence
// payload. Path locates the enclosing object, e.g. dependTaskList[1].
type MissingFieldError struct {
	Path  string
	Field string
}

func (e *MissingFieldError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("missing field %q", e.Field)
	}
	return fmt.Sprintf("%s: missing field %q", e.Path, e.Field)
}

// DependItem points a DEPENDENT task at one upstream workflow (and
// optionally one of its tasks, when DepTaskCode is non-zero).
type DependItem struct {
	ProjectCode    int64
	DefinitionCode int64
	DepTaskCode    int64
	Cycle          string
	DateValue      string
	State          *int
}

// DailyDependItem depends on the whole of process for today's run.
func DailyDependItem(project, process int64) DependItem {
	return DependItem{
		ProjectCode:    project,
		DefinitionCode: process,
		Cycle:          "day",
		DateValue:      "today",
	}
}

// Upstream returns the workflow the item depends on.
func (i DependItem) Upstream() ProcessDefinition {
	return ProcessDefinition{ProjectCode: i.ProjectCode, ProcessCode: i.DefinitionCode}
}

type dependItemWire struct {
	ProjectCode    int64  `json:"projectCode"`
	DefinitionCode int64  `json:"definitionCode"`
	DepTaskCode    int64  `json:"depTaskCode"`
	Cycle          string `json:"cycle"`
	DateValue      string `json:"dateValue"`
	State          *int   `json:"state"`
}

func (i DependItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(dependItemWire(i))
}

func (i *DependItem) UnmarshalJSON(data []byte) error {
	fields, err := object(data)
	if err != nil {
		return err
	}
	for _, key := range []string{"projectCode", "definitionCode"} {
		if _, ok := fields[key]; !ok {
			return &MissingFieldError{Field: key}
		}
	}
	var w dependItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return errors.Wrap(err, "decode depend item")
	}
	*i = DependItem(w)
	return nil
}

// DependTask is a group of items joined by Relation.
type DependTask struct {
	Relation code.DependRelation
	Items    []DependItem
}

func (t DependTask) MarshalJSON() ([]byte, error) {
	items := t.Items
	if items == nil {
		items = []DependItem{}
	}
	return json.Marshal(struct {
		Relation       code.DependRelation `json:"relation"`
		DependItemList []DependItem        `json:"dependItemList"`
	}{t.Relation, items})
}

func (t *DependTask) UnmarshalJSON(data []byte) error {
	fields, err := object(data)
	if err != nil {
		return err
	}
	relation, err := relationField(fields)
	if err != nil {
		return err
	}
	raw, ok := fields["dependItemList"]
	if !ok {
		return &MissingFieldError{Field: "dependItemList"}
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return errors.Wrap(err, "decode dependItemList")
	}

	items := make([]DependItem, 0, len(list))
	for idx, elem := range list {
		var item DependItem
		if err := item.UnmarshalJSON(elem); err != nil {
			return nest(fmt.Sprintf("dependItemList[%d]", idx), err)
		}
		items = append(items, item)
	}

	t.Relation = relation
	t.Items = items
	return nil
}

// Dependence is the dependency tree of a DEPENDENT task. The zero value
// has no relation and no groups and encodes as {}.
type Dependence struct {
	Relation code.DependRelation
	Tasks    []DependTask
}

// DailyDependence depends on the whole of process for today's run.
func DailyDependence(project, process int64) Dependence {
	return Dependence{
		Relation: code.DependRelationAnd,
		Tasks: []DependTask{{
			Relation: code.DependRelationAnd,
			Items:    []DependItem{DailyDependItem(project, process)},
		}},
	}
}

// IsEmpty reports whether d carries neither a relation nor groups.
func (d Dependence) IsEmpty() bool {
	return d.Relation == "" && len(d.Tasks) == 0
}

// Upstream lists every workflow referenced by d, in document order.
// Duplicates are kept.
func (d Dependence) Upstream() []ProcessDefinition {
	var out []ProcessDefinition
	for _, t := range d.Tasks {
		for _, item := range t.Items {
			out = append(out, item.Upstream())
		}
	}
	return out
}

func (d Dependence) MarshalJSON() ([]byte, error) {
	if d.IsEmpty() {
		return []byte("{}"), nil
	}
	tasks := d.Tasks
	if tasks == nil {
		tasks = []DependTask{}
	}
	return json.Marshal(struct {
		Relation       code.DependRelation `json:"relation"`
		DependTaskList []DependTask        `json:"dependTaskList"`
	}{d.Relation, tasks})
}

func (d *Dependence) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*d = Dependence{}
		return nil
	}
	fields, err := object(trimmed)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		*d = Dependence{}
		return nil
	}
	relation, err := relationField(fields)
	if err != nil {
		return err
	}
	raw, ok := fields["dependTaskList"]
	if !ok {
		return &MissingFieldError{Field: "dependTaskList"}
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return errors.Wrap(err, "decode dependTaskList")
	}

	tasks := make([]DependTask, 0, len(list))
	for idx, elem := range list {
		var t DependTask
		if err := t.UnmarshalJSON(elem); err != nil {
			return nest(fmt.Sprintf("dependTaskList[%d]", idx), err)
		}
		tasks = append(tasks, t)
	}

	d.Relation = relation
	d.Tasks = tasks
	return nil
}

func object(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errors.Wrap(err, "expected JSON object")
	}
	return fields, nil
}

func relationField(fields map[string]json.RawMessage) (code.DependRelation, error) {
	raw, ok := fields["relation"]
	if !ok {
		return "", &MissingFieldError{Field: "relation"}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.Wrap(err, "decode relation")
	}
	return code.DependRelationFromStorage(s)
}

// nest prefixes the path of a MissingFieldError; other errors are wrapped.
func nest(path string, err error) error {
	var missing *MissingFieldError
	if errors.As(err, &missing) {
		p := path
		if missing.Path != "" {
			p = path + "." + missing.Path
		}
		return &MissingFieldError{Path: p, Field: missing.Field}
	}
	return errors.Wrap(err, path)
}
