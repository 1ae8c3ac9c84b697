package workflowdef

import (
	"strings"

	"github.com/caesium-cloud/dolphin/pkg/code"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	APIVersionV1 = "v1"
	KindWorkflow = "Workflow"

	TaskShell     = "SHELL"
	TaskDependent = "DEPENDENT"
	TaskSpark     = "SPARK"
)

// Definition models the root workflow document.
type Definition struct {
	Schema     string    `yaml:"$schema,omitempty" json:"$schema,omitempty"`
	APIVersion string    `yaml:"apiVersion" json:"apiVersion"`
	Kind       string    `yaml:"kind" json:"kind"`
	Metadata   Metadata  `yaml:"metadata" json:"metadata"`
	Schedule   *Schedule `yaml:"schedule,omitempty" json:"schedule,omitempty"`
	Tasks      []Task    `yaml:"tasks" json:"tasks"`
}

// Metadata identifies the workflow and the project it lives in. A
// non-zero Code names an existing workflow to update.
type Metadata struct {
	Name          string `yaml:"name" json:"name"`
	Project       int64  `yaml:"project" json:"project"`
	Code          int64  `yaml:"code,omitempty" json:"code,omitempty"`
	Description   string `yaml:"description,omitempty" json:"description,omitempty"`
	Tenant        string `yaml:"tenant,omitempty" json:"tenant,omitempty"`
	ExecutionType string `yaml:"executionType,omitempty" json:"executionType,omitempty"`
	Timeout       int    `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// Schedule attaches a cron trigger to the workflow.
type Schedule struct {
	Crontab     string `yaml:"crontab" json:"crontab"`
	Timezone    string `yaml:"timezone,omitempty" json:"timezone,omitempty"`
	WorkerGroup string `yaml:"workerGroup,omitempty" json:"workerGroup,omitempty"`
}

// Upstream names the workflow a DEPENDENT task waits for.
type Upstream struct {
	Project  int64 `yaml:"project" json:"project"`
	Workflow int64 `yaml:"workflow" json:"workflow"`
}

// Task defines one node of the workflow.
type Task struct {
	Name          string    `yaml:"name" json:"name"`
	Type          string    `yaml:"type,omitempty" json:"type,omitempty"`
	Description   string    `yaml:"description,omitempty" json:"description,omitempty"`
	Script        string    `yaml:"script,omitempty" json:"script,omitempty"`
	DependsOn     *Upstream `yaml:"dependsOn,omitempty" json:"dependsOn,omitempty"`
	WorkerGroup   string    `yaml:"workerGroup,omitempty" json:"workerGroup,omitempty"`
	Retries       int       `yaml:"retries,omitempty" json:"retries,omitempty"`
	RetryInterval int       `yaml:"retryInterval,omitempty" json:"retryInterval,omitempty"`
	Next          Names     `yaml:"next,omitempty" json:"next,omitempty"`
}

// UnmarshalYAML sets defaults while deserialising a task.
func (t *Task) UnmarshalYAML(value *yaml.Node) error {
	type rawTask Task
	rt := rawTask{Type: TaskShell, RetryInterval: 1}
	if err := value.Decode(&rt); err != nil {
		return err
	}
	*t = Task(rt)
	t.Type = strings.ToUpper(strings.TrimSpace(t.Type))
	if t.Type == "" {
		t.Type = TaskShell
	}
	return nil
}

// Names is a list of task names that also accepts a single name.
type Names []string

func (n *Names) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*n = Names{value.Value}
		return nil
	}
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}
	*n = names
	return nil
}

// Parse parses YAML bytes into a Definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, errors.Wrap(err, "failed to parse workflow definition")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate performs semantic validation on the definition.
func (d *Definition) Validate() error {
	if d.APIVersion != APIVersionV1 {
		return errors.Errorf("unsupported apiVersion: %s", d.APIVersion)
	}
	if d.Kind != KindWorkflow {
		return errors.Errorf("unsupported kind: %s", d.Kind)
	}
	if strings.TrimSpace(d.Metadata.Name) == "" {
		return errors.New("metadata.name is required")
	}
	if d.Metadata.Project <= 0 {
		return errors.New("metadata.project is required")
	}
	if d.Metadata.ExecutionType != "" {
		if _, err := code.ParseProcessExecutionType(d.Metadata.ExecutionType); err != nil {
			return errors.Wrap(err, "metadata.executionType")
		}
	}
	if d.Schedule != nil && strings.TrimSpace(d.Schedule.Crontab) == "" {
		return errors.New("schedule.crontab is required")
	}
	if len(d.Tasks) == 0 {
		return errors.New("tasks must contain at least one entry")
	}
	if err := validateTasks(d.Tasks); err != nil {
		return err
	}
	_, err := d.layers()
	return err
}

func validateTasks(tasks []Task) error {
	names := make(map[string]int, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		if strings.TrimSpace(task.Name) == "" {
			return errors.Errorf("tasks[%d].name is required", i)
		}
		if _, exists := names[task.Name]; exists {
			return errors.Errorf("duplicate task name %q", task.Name)
		}
		names[task.Name] = i

		switch task.Type {
		case TaskShell, TaskSpark:
			if strings.TrimSpace(task.Script) == "" {
				return errors.Errorf("tasks[%d].script is required for %s tasks", i, task.Type)
			}
		case TaskDependent:
			if task.DependsOn == nil || task.DependsOn.Project <= 0 || task.DependsOn.Workflow <= 0 {
				return errors.Errorf("tasks[%d].dependsOn needs a project and a workflow", i)
			}
		default:
			return errors.Errorf("tasks[%d].type must be one of [%s,%s,%s]", i, TaskShell, TaskDependent, TaskSpark)
		}
		if task.Retries < 0 || task.RetryInterval < 0 {
			return errors.Errorf("tasks[%d] retry settings must not be negative", i)
		}
	}

	for i, task := range tasks {
		seen := make(map[string]bool, len(task.Next))
		for _, next := range task.Next {
			if seen[next] {
				return errors.Errorf("tasks[%d].next lists %q twice", i, next)
			}
			seen[next] = true
			if _, exists := names[next]; !exists {
				return errors.Errorf("tasks[%d].next references unknown task %q", i, next)
			}
			if next == task.Name {
				return errors.Errorf("tasks[%d].next references itself", i)
			}
		}
	}
	return nil
}

// layers groups task indexes by their longest distance from a root. It
// fails when the next edges contain a cycle.
func (d *Definition) layers() ([][]int, error) {
	index := make(map[string]int, len(d.Tasks))
	for i, task := range d.Tasks {
		index[task.Name] = i
	}

	indegree := make([]int, len(d.Tasks))
	for _, task := range d.Tasks {
		for _, next := range task.Next {
			indegree[index[next]]++
		}
	}

	depth := make([]int, len(d.Tasks))
	var queue []int
	for i, n := range indegree {
		if n == 0 {
			queue = append(queue, i)
		}
	}

	visited := 0
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range d.Tasks[i].Next {
			j := index[next]
			depth[j] = max(depth[j], depth[i]+1)
			if indegree[j]--; indegree[j] == 0 {
				queue = append(queue, j)
			}
		}
	}
	if visited != len(d.Tasks) {
		return nil, errors.New("tasks contain a cycle")
	}

	var layers [][]int
	for i, n := range depth {
		for len(layers) <= n {
			layers = append(layers, nil)
		}
		layers[n] = append(layers[n], i)
	}
	return layers, nil
}
