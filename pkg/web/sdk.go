package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/caesium-cloud/dolphin/pkg/code"
	"github.com/caesium-cloud/dolphin/pkg/form"
	"github.com/caesium-cloud/dolphin/pkg/log"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

// ErrNameInUse is returned by CreateWorkflow when the project already
// holds a workflow with the requested name.
var ErrNameInUse = errors.New("workflow name is already in use")

// SDK wraps the management API endpoints the library uses.
type SDK struct {
	client *Client
}

func New(client *Client) *SDK {
	return &SDK{client: client}
}

func projectPath(project int64, format string, args ...any) string {
	return fmt.Sprintf("/dolphinscheduler/projects/%d/", project) + fmt.Sprintf(format, args...)
}

func check(method, endpoint string, params url.Values, envelope *Envelope) error {
	if envelope.Code == 0 {
		return nil
	}
	return &APIError{
		Method:   method,
		Endpoint: endpoint,
		Params:   params,
		Status:   http.StatusOK,
		Code:     envelope.Code,
		Msg:      envelope.Msg,
		Body:     string(envelope.Data),
	}
}

func (s *SDK) get(ctx context.Context, endpoint string, query url.Values) (*Envelope, error) {
	envelope, err := s.client.Get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	return envelope, check(http.MethodGet, endpoint, query, envelope)
}

func (s *SDK) send(ctx context.Context, method, endpoint string, f form.Form) (*Envelope, error) {
	values, err := f.Values()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s %s form", method, endpoint)
	}

	send := s.client.Post
	if method == http.MethodPut {
		send = s.client.Put
	}
	envelope, err := send(ctx, endpoint, values)
	if err != nil {
		return nil, err
	}
	return envelope, check(method, endpoint, values, envelope)
}

// VerifyName reports whether name is free for a new workflow in project.
// Only transport failures and non-2xx statuses are errors; a non-zero
// code means the name is taken.
func (s *SDK) VerifyName(ctx context.Context, project int64, name string) (bool, error) {
	envelope, err := s.client.Get(ctx, projectPath(project, "process-definition/verify-name"), url.Values{"name": {name}})
	if err != nil {
		return false, err
	}
	return envelope.Code == 0, nil
}

// ProcessDefinition fetches the stored definition of a workflow as the
// API returns it.
func (s *SDK) ProcessDefinition(ctx context.Context, def models.ProcessDefinition) (datatypes.JSON, error) {
	envelope, err := s.get(ctx, projectPath(def.ProjectCode, "process-definition/%d", def.ProcessCode), nil)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(envelope.Data), nil
}

// GenTaskCodes reserves n task codes in project.
func (s *SDK) GenTaskCodes(ctx context.Context, project int64, n int) ([]int64, error) {
	if n < 1 {
		return nil, errors.Errorf("task code count must be positive, got %d", n)
	}

	envelope, err := s.get(ctx, projectPath(project, "task-definition/gen-task-codes"), url.Values{"genNum": {strconv.Itoa(n)}})
	if err != nil {
		return nil, err
	}

	var codes []int64
	if err := json.Unmarshal(envelope.Data, &codes); err != nil {
		return nil, errors.Wrap(err, "failed to decode task codes")
	}
	if len(codes) != n {
		return nil, errors.Errorf("requested %d task codes, got %d", n, len(codes))
	}
	return codes, nil
}

// CreateWorkflow submits a new workflow to project after checking that
// its name is free.
func (s *SDK) CreateWorkflow(ctx context.Context, project int64, f *form.CreateWorkflow) (models.ProcessDefinition, error) {
	if err := f.Validate(); err != nil {
		return models.ProcessDefinition{}, err
	}

	free, err := s.VerifyName(ctx, project, f.Name)
	if err != nil {
		return models.ProcessDefinition{}, err
	}
	if !free {
		return models.ProcessDefinition{}, errors.Wrapf(ErrNameInUse, "project %d, name %q", project, f.Name)
	}

	envelope, err := s.send(ctx, http.MethodPost, projectPath(project, "process-definition"), f)
	if err != nil {
		return models.ProcessDefinition{}, err
	}

	var created struct {
		Code int64 `json:"code"`
	}
	if err := json.Unmarshal(envelope.Data, &created); err != nil {
		return models.ProcessDefinition{}, errors.Wrap(err, "failed to decode created workflow")
	}

	def := models.ProcessDefinition{ProjectCode: project, ProcessCode: created.Code}
	log.Info("created workflow", "workflow", def.String(), "name", f.Name, "tasks", len(f.Tasks))
	return def, nil
}

// UpdateWorkflow replaces the definition of an existing workflow.
func (s *SDK) UpdateWorkflow(ctx context.Context, def models.ProcessDefinition, f *form.CreateWorkflow) error {
	if err := f.Validate(); err != nil {
		return err
	}
	_, err := s.send(ctx, http.MethodPut, projectPath(def.ProjectCode, "process-definition/%d", def.ProcessCode), f)
	return err
}

// ReleaseWorkflow brings a workflow online or takes it offline.
func (s *SDK) ReleaseWorkflow(ctx context.Context, def models.ProcessDefinition, name string, state code.ReleaseState) error {
	_, err := s.send(ctx, http.MethodPost, projectPath(def.ProjectCode, "process-definition/%d/release", def.ProcessCode),
		form.Release{Name: name, State: state})
	return err
}

// CreateSchedule attaches f to its workflow and returns the schedule id.
func (s *SDK) CreateSchedule(ctx context.Context, project int64, f *form.Schedule) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}

	envelope, err := s.send(ctx, http.MethodPost, projectPath(project, "schedules"), f)
	if err != nil {
		return 0, err
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(envelope.Data, &created); err != nil {
		return 0, errors.Wrap(err, "failed to decode created schedule")
	}
	return created.ID, nil
}

// ReleaseSchedule turns a schedule on or off.
func (s *SDK) ReleaseSchedule(ctx context.Context, project, scheduleID int64, state code.ReleaseState) error {
	action := "offline"
	if state == code.ReleaseStateOnline {
		action = "online"
	}
	_, err := s.send(ctx, http.MethodPost, projectPath(project, "schedules/%d/%s", scheduleID, action), emptyForm{})
	return err
}

// StartInstance runs a workflow once.
func (s *SDK) StartInstance(ctx context.Context, project int64, f *form.StartInstance) error {
	_, err := s.send(ctx, http.MethodPost, projectPath(project, "executors/start-process-instance"), f)
	return err
}

type emptyForm struct{}

func (emptyForm) Values() (url.Values, error) { return url.Values{}, nil }
