package params

import (
	"encoding/json"

	"github.com/caesium-cloud/dolphin/pkg/code"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"gorm.io/datatypes"
)

// Shell runs RawScript on a worker.
type Shell struct {
	RawScript     string         `json:"rawScript"`
	LocalParams   datatypes.JSON `json:"localParams"`
	ResourceList  datatypes.JSON `json:"resourceList"`
	ScriptVersion int            `json:"scriptVersion"`
}

// NewShell returns shell parameters with empty local params and resources.
func NewShell(rawScript string) *Shell {
	return &Shell{RawScript: rawScript, LocalParams: EmptyList(), ResourceList: EmptyList()}
}

func decodeShell(f *fields) TaskParams {
	p := &Shell{}
	f.required("rawScript", &p.RawScript)
	f.required("localParams", &p.LocalParams)
	f.required("resourceList", &p.ResourceList)
	f.optional("scriptVersion", &p.ScriptVersion)
	return p
}

func (Shell) TaskType() code.TaskType { return code.TaskTypeShell }

func (p Shell) MarshalJSON() ([]byte, error) {
	type wire Shell
	return json.Marshal(wire(p))
}

func (Shell) sealed() {}

// Conditions branches on the state of upstream tasks. Its dependence is
// kept opaque and never traversed.
type Conditions struct {
	LocalParams   datatypes.JSON `json:"localParams"`
	ResourceList  datatypes.JSON `json:"resourceList"`
	ScriptVersion int            `json:"scriptVersion"`
	Dependence    datatypes.JSON `json:"dependence"`
}

func decodeConditions(f *fields) TaskParams {
	p := &Conditions{}
	f.required("localParams", &p.LocalParams)
	f.required("resourceList", &p.ResourceList)
	f.required("scriptVersion", &p.ScriptVersion)
	f.required("dependence", &p.Dependence)
	return p
}

func (Conditions) TaskType() code.TaskType { return code.TaskTypeConditions }

func (p Conditions) MarshalJSON() ([]byte, error) {
	type wire Conditions
	return json.Marshal(wire(p))
}

func (Conditions) sealed() {}

// Dependent waits for the workflows named in Dependence.
type Dependent struct {
	LocalParams   datatypes.JSON    `json:"localParams"`
	ResourceList  datatypes.JSON    `json:"resourceList"`
	ScriptVersion int               `json:"scriptVersion"`
	Dependence    models.Dependence `json:"dependence"`
}

// DailyDependent waits for today's run of one workflow.
func DailyDependent(project, process int64) *Dependent {
	return &Dependent{
		LocalParams:  EmptyList(),
		ResourceList: EmptyList(),
		Dependence:   models.DailyDependence(project, process),
	}
}

func decodeDependent(f *fields) TaskParams {
	p := &Dependent{}
	f.optional("localParams", &p.LocalParams)
	f.optional("resourceList", &p.ResourceList)
	f.optional("scriptVersion", &p.ScriptVersion)
	f.required("dependence", &p.Dependence)
	return p
}

func (Dependent) TaskType() code.TaskType { return code.TaskTypeDependent }

func (p Dependent) MarshalJSON() ([]byte, error) {
	type wire Dependent
	return json.Marshal(wire(p))
}

func (Dependent) sealed() {}

// Spark program types.
const (
	ProgramTypeScript = "SCRIPT"
	ProgramTypeJava   = "JAVA"
	ProgramTypeScala  = "SCALA"
	ProgramTypePython = "PYTHON"
	ProgramTypeSQL    = "SQL"
)

// Spark submits a Spark application or script.
type Spark struct {
	LocalParams    datatypes.JSON
	RawScript      string
	ResourceList   datatypes.JSON
	ScriptVersion  int
	ProgramType    string
	MainClass      string
	DeployMode     string
	AppName        string
	MainArgs       string
	Others         datatypes.JSON
	SparkVersion   string
	DriverCores    int
	DriverMemory   string
	NumExecutors   int
	ExecutorMemory string
	ExecutorCores  int
	VarPool        datatypes.JSON
	MainJar        datatypes.JSON
}

// SparkScript returns script-mode Spark parameters. The resource sizing
// fields carry the platform's defaults and are ignored in script mode.
func SparkScript(rawScript string, resourceList datatypes.JSON) *Spark {
	if resourceList == nil {
		resourceList = EmptyList()
	}
	return &Spark{
		LocalParams:    EmptyList(),
		RawScript:      rawScript,
		ResourceList:   resourceList,
		ProgramType:    ProgramTypeScript,
		DeployMode:     "local",
		SparkVersion:   "SPARK2",
		DriverCores:    1,
		DriverMemory:   "512M",
		NumExecutors:   2,
		ExecutorMemory: "2G",
		ExecutorCores:  2,
	}
}

func decodeSpark(f *fields) TaskParams {
	p := &Spark{}
	f.required("localParams", &p.LocalParams)
	f.required("rawScript", &p.RawScript)
	f.required("resourceList", &p.ResourceList)
	f.optional("scriptVersion", &p.ScriptVersion)
	f.optional("programType", &p.ProgramType)
	f.optional("mainClass", &p.MainClass)
	f.optional("deployMode", &p.DeployMode)
	f.optional("appName", &p.AppName)
	f.optional("mainArgs", &p.MainArgs)
	f.optional("others", &p.Others)
	f.optional("sparkVersion", &p.SparkVersion)
	f.optional("driverCores", &p.DriverCores)
	f.optional("driverMemory", &p.DriverMemory)
	f.optional("numExecutors", &p.NumExecutors)
	f.optional("executorMemory", &p.ExecutorMemory)
	f.optional("executorCores", &p.ExecutorCores)
	f.optional("varPool", &p.VarPool)
	f.optional("mainJar", &p.MainJar)
	return p
}

func (Spark) TaskType() code.TaskType { return code.TaskTypeSpark }

// IsScript reports whether p runs an inline script.
func (p Spark) IsScript() bool { return p.ProgramType == ProgramTypeScript }

type sparkScriptWire struct {
	LocalParams    datatypes.JSON `json:"localParams"`
	RawScript      string         `json:"rawScript"`
	ResourceList   datatypes.JSON `json:"resourceList"`
	ScriptVersion  int            `json:"scriptVersion"`
	ProgramType    string         `json:"programType"`
	MainClass      string         `json:"mainClass"`
	DeployMode     string         `json:"deployMode"`
	SparkVersion   string         `json:"sparkVersion"`
	DriverCores    int            `json:"driverCores"`
	DriverMemory   string         `json:"driverMemory"`
	NumExecutors   int            `json:"numExecutors"`
	ExecutorMemory string         `json:"executorMemory"`
	ExecutorCores  int            `json:"executorCores"`
}

type sparkProgramWire struct {
	sparkScriptWire
	AppName  string         `json:"appName"`
	MainArgs string         `json:"mainArgs"`
	Others   datatypes.JSON `json:"others"`
	VarPool  datatypes.JSON `json:"varPool"`
	MainJar  datatypes.JSON `json:"mainJar"`
}

// MarshalJSON omits appName, mainArgs, others, varPool and mainJar in
// script mode.
func (p Spark) MarshalJSON() ([]byte, error) {
	base := sparkScriptWire{
		LocalParams:    p.LocalParams,
		RawScript:      p.RawScript,
		ResourceList:   p.ResourceList,
		ScriptVersion:  p.ScriptVersion,
		ProgramType:    p.ProgramType,
		MainClass:      p.MainClass,
		DeployMode:     p.DeployMode,
		SparkVersion:   p.SparkVersion,
		DriverCores:    p.DriverCores,
		DriverMemory:   p.DriverMemory,
		NumExecutors:   p.NumExecutors,
		ExecutorMemory: p.ExecutorMemory,
		ExecutorCores:  p.ExecutorCores,
	}
	if p.IsScript() {
		return json.Marshal(base)
	}
	return json.Marshal(sparkProgramWire{
		sparkScriptWire: base,
		AppName:         p.AppName,
		MainArgs:        p.MainArgs,
		Others:          p.Others,
		VarPool:         p.VarPool,
		MainJar:         p.MainJar,
	})
}

func (Spark) sealed() {}

// SQL runs a statement against a registered datasource.
type SQL struct {
	LocalParams      datatypes.JSON `json:"localParams"`
	VarPool          datatypes.JSON `json:"varPool"`
	Type             string         `json:"type"`
	DataSource       int64          `json:"datasource"`
	SQL              string         `json:"sql"`
	SQLType          int            `json:"sqlType"`
	SendEmail        datatypes.JSON `json:"sendEmail"`
	DisplayRows      int            `json:"displayRows"`
	UDFs             string         `json:"udfs"`
	ShowType         datatypes.JSON `json:"showType"`
	ConnParams       datatypes.JSON `json:"connParams"`
	PreStatements    []string       `json:"preStatements"`
	PostStatements   []string       `json:"postStatements"`
	GroupID          int64          `json:"groupId"`
	Title            string         `json:"title"`
	Limit            int            `json:"limit"`
	SegmentSeparator string         `json:"segmentSeparator"`
	ScriptVersion    int            `json:"scriptVersion"`
}

func decodeSQL(f *fields) TaskParams {
	p := &SQL{}
	f.required("localParams", &p.LocalParams)
	f.optional("varPool", &p.VarPool)
	f.required("type", &p.Type)
	f.required("datasource", &p.DataSource)
	f.required("sql", &p.SQL)
	f.required("sqlType", &p.SQLType)
	f.optional("sendEmail", &p.SendEmail)
	f.optional("displayRows", &p.DisplayRows)
	f.optional("udfs", &p.UDFs)
	f.optional("showType", &p.ShowType)
	f.optional("connParams", &p.ConnParams)
	f.optional("preStatements", &p.PreStatements)
	f.optional("postStatements", &p.PostStatements)
	f.optional("groupId", &p.GroupID)
	f.optional("title", &p.Title)
	f.optional("limit", &p.Limit)
	f.optional("segmentSeparator", &p.SegmentSeparator)
	f.optional("scriptVersion", &p.ScriptVersion)
	return p
}

func (SQL) TaskType() code.TaskType { return code.TaskTypeSQL }

func (p SQL) MarshalJSON() ([]byte, error) {
	type wire SQL
	w := wire(p)
	if w.PreStatements == nil {
		w.PreStatements = []string{}
	}
	if w.PostStatements == nil {
		w.PostStatements = []string{}
	}
	return json.Marshal(w)
}

func (SQL) sealed() {}

// Flink submits a Flink job or SQL script.
type Flink struct {
	LocalParams       datatypes.JSON `json:"localParams"`
	InitScript        string         `json:"initScript"`
	RawScript         string         `json:"rawScript"`
	ResourceList      datatypes.JSON `json:"resourceList"`
	ScriptVersion     int            `json:"scriptVersion"`
	ProgramType       string         `json:"programType"`
	MainClass         string         `json:"mainClass"`
	MainJar           datatypes.JSON `json:"mainJar"`
	DeployMode        string         `json:"deployMode"`
	AppName           string         `json:"appName"`
	MainArgs          string         `json:"mainArgs"`
	Others            string         `json:"others"`
	FlinkVersion      string         `json:"flinkVersion"`
	JobManagerMemory  string         `json:"jobManagerMemory"`
	TaskManagerMemory string         `json:"taskManagerMemory"`
	Slot              int            `json:"slot"`
	TaskManager       int            `json:"taskManager"`
	Parallelism       int            `json:"parallelism"`
}

func decodeFlink(f *fields) TaskParams {
	p := &Flink{}
	f.optional("localParams", &p.LocalParams)
	f.optional("initScript", &p.InitScript)
	f.optional("rawScript", &p.RawScript)
	f.optional("resourceList", &p.ResourceList)
	f.optional("scriptVersion", &p.ScriptVersion)
	f.optional("programType", &p.ProgramType)
	f.optional("mainClass", &p.MainClass)
	f.optional("mainJar", &p.MainJar)
	f.optional("deployMode", &p.DeployMode)
	f.optional("appName", &p.AppName)
	f.optional("mainArgs", &p.MainArgs)
	f.optional("others", &p.Others)
	f.optional("flinkVersion", &p.FlinkVersion)
	f.optional("jobManagerMemory", &p.JobManagerMemory)
	f.optional("taskManagerMemory", &p.TaskManagerMemory)
	f.optional("slot", &p.Slot)
	f.optional("taskManager", &p.TaskManager)
	f.optional("parallelism", &p.Parallelism)
	return p
}

func (Flink) TaskType() code.TaskType { return code.TaskTypeFlink }

func (p Flink) MarshalJSON() ([]byte, error) {
	type wire Flink
	return json.Marshal(wire(p))
}

func (Flink) sealed() {}
