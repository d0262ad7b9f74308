package automation

import (
	"strings"
	"time"
)

// Tags is the tag set attached to a tracked resource.
type Tags map[string]string

// Clone returns a copy of t. A nil set stays nil.
func (t Tags) Clone() Tags {
	if t == nil {
		return nil
	}

	clone := make(Tags, len(t))
	for k, v := range t {
		clone[k] = v
	}

	return clone
}

// Account represents an automation account.
type Account struct {
	ResourceGroup    string     `json:"resource_group"               yaml:"resource_group"`
	Name             string     `json:"name"                         yaml:"name"`
	Location         string     `json:"location"                     yaml:"location"`
	Plan             string     `json:"plan"                         yaml:"plan"`
	State            string     `json:"state"                        yaml:"state"`
	Tags             Tags       `json:"tags,omitempty"               yaml:"tags,omitempty"`
	CreationTime     *time.Time `json:"creation_time,omitempty"      yaml:"creation_time,omitempty"`
	LastModifiedTime *time.Time `json:"last_modified_time,omitempty" yaml:"last_modified_time,omitempty"`
}

// Scope returns the scope addressing entities owned by the account.
func (a *Account) Scope() Scope {
	return Scope{ResourceGroup: a.ResourceGroup, Account: a.Name}
}

// ContentLink references module or runbook content hosted elsewhere.
type ContentLink struct {
	URI     string `json:"uri"               yaml:"uri"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Module represents an imported module.
type Module struct {
	ResourceGroup     string     `json:"resource_group"               yaml:"resource_group"`
	AccountName       string     `json:"account_name"                 yaml:"account_name"`
	Name              string     `json:"name"                         yaml:"name"`
	IsGlobal          bool       `json:"is_global"                    yaml:"is_global"`
	Version           string     `json:"version,omitempty"            yaml:"version,omitempty"`
	SizeInBytes       int64      `json:"size_in_bytes"                yaml:"size_in_bytes"`
	ActivityCount     int        `json:"activity_count"               yaml:"activity_count"`
	ProvisioningState string     `json:"provisioning_state"           yaml:"provisioning_state"`
	Tags              Tags       `json:"tags,omitempty"               yaml:"tags,omitempty"`
	CreationTime      *time.Time `json:"creation_time,omitempty"      yaml:"creation_time,omitempty"`
	LastModifiedTime  *time.Time `json:"last_modified_time,omitempty" yaml:"last_modified_time,omitempty"`
}

// RunbookType enumerates runbook languages.
type RunbookType string

// Runbook types.
const (
	RunbookTypeScript                  RunbookType = "Script"
	RunbookTypeGraph                   RunbookType = "Graph"
	RunbookTypePowerShellWorkflow      RunbookType = "PowerShellWorkflow"
	RunbookTypePowerShell              RunbookType = "PowerShell"
	RunbookTypeGraphPowerShell         RunbookType = "GraphPowerShell"
	RunbookTypeGraphPowerShellWorkflow RunbookType = "GraphPowerShellWorkflow"
	RunbookTypePython2                 RunbookType = "Python2"
	RunbookTypePython3                 RunbookType = "Python3"
)

// IsGraph reports whether the runbook is authored graphically.
func (t RunbookType) IsGraph() bool {
	switch t {
	case RunbookTypeGraph, RunbookTypeGraphPowerShell, RunbookTypeGraphPowerShellWorkflow:
		return true
	default:
		return false
	}
}

// IsPython reports whether the runbook is a Python runbook.
func (t RunbookType) IsPython() bool {
	return t == RunbookTypePython2 || t == RunbookTypePython3
}

// FileExtension returns the extension used when the runbook is exported.
func (t RunbookType) FileExtension() string {
	switch {
	case t.IsGraph():
		return ".graphrunbook"
	case t.IsPython():
		return ".py"
	default:
		return ".ps1"
	}
}

// RunbookState enumerates the lifecycle of a runbook's content.
type RunbookState string

// Runbook states.
const (
	RunbookStateNew       RunbookState = "New"
	RunbookStateEdit      RunbookState = "Edit"
	RunbookStatePublished RunbookState = "Published"
)

// Is compares states the way the service does, ignoring case.
func (s RunbookState) Is(other RunbookState) bool {
	return strings.EqualFold(string(s), string(other))
}

// RunbookParameter describes one declared runbook input.
type RunbookParameter struct {
	Type         string `json:"type"                    yaml:"type"`
	IsMandatory  bool   `json:"is_mandatory"            yaml:"is_mandatory"`
	Position     int    `json:"position"                yaml:"position"`
	DefaultValue string `json:"default_value,omitempty" yaml:"default_value,omitempty"`
}

// Runbook represents a runbook.
type Runbook struct {
	ResourceGroup    string                      `json:"resource_group"               yaml:"resource_group"`
	AccountName      string                      `json:"account_name"                 yaml:"account_name"`
	Name             string                      `json:"name"                         yaml:"name"`
	Location         string                      `json:"location"                     yaml:"location"`
	Type             RunbookType                 `json:"type"                         yaml:"type"`
	State            RunbookState                `json:"state"                        yaml:"state"`
	Description      string                      `json:"description,omitempty"        yaml:"description,omitempty"`
	LogProgress      bool                        `json:"log_progress"                 yaml:"log_progress"`
	LogVerbose       bool                        `json:"log_verbose"                  yaml:"log_verbose"`
	JobCount         int                         `json:"job_count"                    yaml:"job_count"`
	Parameters       map[string]RunbookParameter `json:"parameters,omitempty"         yaml:"parameters,omitempty"`
	Tags             Tags                        `json:"tags,omitempty"               yaml:"tags,omitempty"`
	CreationTime     *time.Time                  `json:"creation_time,omitempty"      yaml:"creation_time,omitempty"`
	LastModifiedTime *time.Time                  `json:"last_modified_time,omitempty" yaml:"last_modified_time,omitempty"`
}

// HasPublished reports whether a published content slot can exist.
func (r *Runbook) HasPublished() bool {
	return !r.State.Is(RunbookStateNew)
}

// HasDraft reports whether a draft content slot can exist.
func (r *Runbook) HasDraft() bool {
	return !r.State.Is(RunbookStatePublished)
}

// ContentSlot selects which runbook content version to read.
type ContentSlot string

// Content slots.
const (
	SlotAny       ContentSlot = ""
	SlotDraft     ContentSlot = "Draft"
	SlotPublished ContentSlot = "Published"
)

// RunbookContent is the text of one runbook content slot.
type RunbookContent struct {
	Name    string      `json:"name"    yaml:"name"`
	Slot    ContentSlot `json:"slot"    yaml:"slot"`
	Content string      `json:"content" yaml:"content"`
}

// ScheduleFrequency enumerates schedule recurrence units.
type ScheduleFrequency string

// Schedule frequencies.
const (
	FrequencyOneTime ScheduleFrequency = "OneTime"
	FrequencyMinute  ScheduleFrequency = "Minute"
	FrequencyHour    ScheduleFrequency = "Hour"
	FrequencyDay     ScheduleFrequency = "Day"
	FrequencyWeek    ScheduleFrequency = "Week"
	FrequencyMonth   ScheduleFrequency = "Month"
)

// MonthlyOccurrence selects e.g. "the second Tuesday".
type MonthlyOccurrence struct {
	Occurrence int    `json:"occurrence" yaml:"occurrence"`
	Day        string `json:"day"        yaml:"day"`
}

// AdvancedSchedule holds the weekly/monthly recurrence rules.
type AdvancedSchedule struct {
	WeekDays           []string            `json:"week_days,omitempty"           yaml:"week_days,omitempty"`
	MonthDays          []int               `json:"month_days,omitempty"          yaml:"month_days,omitempty"`
	MonthlyOccurrences []MonthlyOccurrence `json:"monthly_occurrences,omitempty" yaml:"monthly_occurrences,omitempty"`
}

// Schedule represents a schedule.
type Schedule struct {
	ResourceGroup    string            `json:"resource_group"              yaml:"resource_group"`
	AccountName      string            `json:"account_name"                yaml:"account_name"`
	Name             string            `json:"name"                        yaml:"name"`
	Description      string            `json:"description,omitempty"       yaml:"description,omitempty"`
	StartTime        time.Time         `json:"start_time"                  yaml:"start_time"`
	ExpiryTime       *time.Time        `json:"expiry_time,omitempty"       yaml:"expiry_time,omitempty"`
	NextRun          *time.Time        `json:"next_run,omitempty"          yaml:"next_run,omitempty"`
	Interval         int               `json:"interval,omitempty"          yaml:"interval,omitempty"`
	Frequency        ScheduleFrequency `json:"frequency"                   yaml:"frequency"`
	AdvancedSchedule *AdvancedSchedule `json:"advanced_schedule,omitempty" yaml:"advanced_schedule,omitempty"`
	IsEnabled        bool              `json:"is_enabled"                  yaml:"is_enabled"`
	TimeZone         string            `json:"time_zone,omitempty"         yaml:"time_zone,omitempty"`
}

// JobStatus enumerates job states.
type JobStatus string

// Job statuses.
const (
	JobStatusNew          JobStatus = "New"
	JobStatusActivating   JobStatus = "Activating"
	JobStatusRunning      JobStatus = "Running"
	JobStatusCompleted    JobStatus = "Completed"
	JobStatusFailed       JobStatus = "Failed"
	JobStatusStopped      JobStatus = "Stopped"
	JobStatusBlocked      JobStatus = "Blocked"
	JobStatusSuspended    JobStatus = "Suspended"
	JobStatusDisconnected JobStatus = "Disconnected"
	JobStatusSuspending   JobStatus = "Suspending"
	JobStatusStopping     JobStatus = "Stopping"
	JobStatusResuming     JobStatus = "Resuming"
	JobStatusRemoving     JobStatus = "Removing"
)

// Job represents a runbook job.
type Job struct {
	ResourceGroup          string            `json:"resource_group"                      yaml:"resource_group"`
	AccountName            string            `json:"account_name"                        yaml:"account_name"`
	ID                     string            `json:"id"                                  yaml:"id"`
	RunbookName            string            `json:"runbook_name"                        yaml:"runbook_name"`
	Parameters             map[string]string `json:"parameters,omitempty"                yaml:"parameters,omitempty"`
	RunOn                  string            `json:"run_on,omitempty"                    yaml:"run_on,omitempty"`
	Status                 JobStatus         `json:"status"                              yaml:"status"`
	StatusDetails          string            `json:"status_details,omitempty"            yaml:"status_details,omitempty"`
	Exception              string            `json:"exception,omitempty"                 yaml:"exception,omitempty"`
	StartedBy              string            `json:"started_by,omitempty"                yaml:"started_by,omitempty"`
	CreationTime           *time.Time        `json:"creation_time,omitempty"             yaml:"creation_time,omitempty"`
	StartTime              *time.Time        `json:"start_time,omitempty"                yaml:"start_time,omitempty"`
	EndTime                *time.Time        `json:"end_time,omitempty"                  yaml:"end_time,omitempty"`
	LastStatusModifiedTime *time.Time        `json:"last_status_modified_time,omitempty" yaml:"last_status_modified_time,omitempty"`
}

// StreamType enumerates job stream kinds.
type StreamType string

// Stream types. StreamAny disables stream type filtering.
const (
	StreamAny      StreamType = "Any"
	StreamProgress StreamType = "Progress"
	StreamOutput   StreamType = "Output"
	StreamWarning  StreamType = "Warning"
	StreamError    StreamType = "Error"
	StreamDebug    StreamType = "Debug"
	StreamVerbose  StreamType = "Verbose"
)

// JobStream is a summary entry of a job's output streams.
type JobStream struct {
	JobID      string     `json:"job_id"            yaml:"job_id"`
	StreamID   string     `json:"stream_id"         yaml:"stream_id"`
	StreamType StreamType `json:"stream_type"       yaml:"stream_type"`
	Time       *time.Time `json:"time,omitempty"    yaml:"time,omitempty"`
	Summary    string     `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// JobStreamRecord is a full job stream entry including its value.
type JobStreamRecord struct {
	JobStream `yaml:",inline"`

	Value map[string]any `json:"value,omitempty" yaml:"value,omitempty"`
}

// JobSchedule binds a schedule to a runbook.
type JobSchedule struct {
	ResourceGroup string            `json:"resource_group"       yaml:"resource_group"`
	AccountName   string            `json:"account_name"         yaml:"account_name"`
	ID            string            `json:"id"                   yaml:"id"`
	RunbookName   string            `json:"runbook_name"         yaml:"runbook_name"`
	ScheduleName  string            `json:"schedule_name"        yaml:"schedule_name"`
	Parameters    map[string]string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RunOn         string            `json:"run_on,omitempty"     yaml:"run_on,omitempty"`
}

// Matches reports whether the job schedule binds runbook to schedule. Names
// compare case-insensitively.
func (j *JobSchedule) Matches(runbookName, scheduleName string) bool {
	return strings.EqualFold(j.RunbookName, runbookName) && strings.EqualFold(j.ScheduleName, scheduleName)
}

// Variable represents an automation variable. Value holds the JSON text of
// the stored value and is empty for encrypted variables.
type Variable struct {
	ResourceGroup    string     `json:"resource_group"               yaml:"resource_group"`
	AccountName      string     `json:"account_name"                 yaml:"account_name"`
	Name             string     `json:"name"                         yaml:"name"`
	Value            string     `json:"value,omitempty"              yaml:"value,omitempty"`
	Encrypted        bool       `json:"encrypted"                    yaml:"encrypted"`
	Description      string     `json:"description,omitempty"        yaml:"description,omitempty"`
	CreationTime     *time.Time `json:"creation_time,omitempty"      yaml:"creation_time,omitempty"`
	LastModifiedTime *time.Time `json:"last_modified_time,omitempty" yaml:"last_modified_time,omitempty"`
}

// Credential represents a stored credential. The password is never returned.
type Credential struct {
	ResourceGroup    string     `json:"resource_group"               yaml:"resource_group"`
	AccountName      string     `json:"account_name"                 yaml:"account_name"`
	Name             string     `json:"name"                         yaml:"name"`
	UserName         string     `json:"user_name"                    yaml:"user_name"`
	Description      string     `json:"description,omitempty"        yaml:"description,omitempty"`
	CreationTime     *time.Time `json:"creation_time,omitempty"      yaml:"creation_time,omitempty"`
	LastModifiedTime *time.Time `json:"last_modified_time,omitempty" yaml:"last_modified_time,omitempty"`
}

// Certificate represents an uploaded certificate.
type Certificate struct {
	ResourceGroup    string     `json:"resource_group"               yaml:"resource_group"`
	AccountName      string     `json:"account_name"                 yaml:"account_name"`
	Name             string     `json:"name"                         yaml:"name"`
	Thumbprint       string     `json:"thumbprint"                   yaml:"thumbprint"`
	ExpiryTime       *time.Time `json:"expiry_time,omitempty"        yaml:"expiry_time,omitempty"`
	IsExportable     bool       `json:"is_exportable"                yaml:"is_exportable"`
	Description      string     `json:"description,omitempty"        yaml:"description,omitempty"`
	CreationTime     *time.Time `json:"creation_time,omitempty"      yaml:"creation_time,omitempty"`
	LastModifiedTime *time.Time `json:"last_modified_time,omitempty" yaml:"last_modified_time,omitempty"`
}

// Connection represents a typed connection asset.
type Connection struct {
	ResourceGroup      string            `json:"resource_group"               yaml:"resource_group"`
	AccountName        string            `json:"account_name"                 yaml:"account_name"`
	Name               string            `json:"name"                         yaml:"name"`
	ConnectionTypeName string            `json:"connection_type_name"         yaml:"connection_type_name"`
	FieldValues        map[string]string `json:"field_values,omitempty"       yaml:"field_values,omitempty"`
	Description        string            `json:"description,omitempty"        yaml:"description,omitempty"`
	CreationTime       *time.Time        `json:"creation_time,omitempty"      yaml:"creation_time,omitempty"`
	LastModifiedTime   *time.Time        `json:"last_modified_time,omitempty" yaml:"last_modified_time,omitempty"`
}

// FieldDefinition describes one field of a connection type.
type FieldDefinition struct {
	IsEncrypted bool   `json:"is_encrypted" yaml:"is_encrypted"`
	IsOptional  bool   `json:"is_optional"  yaml:"is_optional"`
	Type        string `json:"type"         yaml:"type"`
}

// ConnectionType represents a connection type.
type ConnectionType struct {
	ResourceGroup    string                     `json:"resource_group"              yaml:"resource_group"`
	AccountName      string                     `json:"account_name"                yaml:"account_name"`
	Name             string                     `json:"name"                        yaml:"name"`
	IsGlobal         bool                       `json:"is_global"                   yaml:"is_global"`
	FieldDefinitions map[string]FieldDefinition `json:"field_definitions,omitempty" yaml:"field_definitions,omitempty"`
	CreationTime     *time.Time                 `json:"creation_time,omitempty"     yaml:"creation_time,omitempty"`
}

// HybridWorkerGroup represents a hybrid runbook worker group.
type HybridWorkerGroup struct {
	ResourceGroup  string `json:"resource_group"            yaml:"resource_group"`
	AccountName    string `json:"account_name"              yaml:"account_name"`
	Name           string `json:"name"                      yaml:"name"`
	GroupType      string `json:"group_type"                yaml:"group_type"`
	CredentialName string `json:"credential_name,omitempty" yaml:"credential_name,omitempty"`
}

// Webhook represents a runbook webhook. URI is only known on creation.
type Webhook struct {
	ResourceGroup    string            `json:"resource_group"               yaml:"resource_group"`
	AccountName      string            `json:"account_name"                 yaml:"account_name"`
	Name             string            `json:"name"                         yaml:"name"`
	RunbookName      string            `json:"runbook_name"                 yaml:"runbook_name"`
	IsEnabled        bool              `json:"is_enabled"                   yaml:"is_enabled"`
	URI              string            `json:"uri,omitempty"                yaml:"uri,omitempty"`
	ExpiryTime       *time.Time        `json:"expiry_time,omitempty"        yaml:"expiry_time,omitempty"`
	LastInvokedTime  *time.Time        `json:"last_invoked_time,omitempty"  yaml:"last_invoked_time,omitempty"`
	Parameters       map[string]string `json:"parameters,omitempty"         yaml:"parameters,omitempty"`
	RunOn            string            `json:"run_on,omitempty"             yaml:"run_on,omitempty"`
	Description      string            `json:"description,omitempty"        yaml:"description,omitempty"`
	CreationTime     *time.Time        `json:"creation_time,omitempty"      yaml:"creation_time,omitempty"`
	LastModifiedTime *time.Time        `json:"last_modified_time,omitempty" yaml:"last_modified_time,omitempty"`
}

// SourceType enumerates source control providers.
type SourceType string

// Source control types.
const (
	SourceTypeGitHub  SourceType = "GitHub"
	SourceTypeVsoGit  SourceType = "VsoGit"
	SourceTypeVsoTfvc SourceType = "VsoTfvc"
)

// RequiresBranch reports whether the provider needs a branch name.
func (s SourceType) RequiresBranch() bool {
	return s == SourceTypeGitHub || s == SourceTypeVsoGit
}

// SourceControl links an account to a repository.
type SourceControl struct {
	ResourceGroup    string     `json:"resource_group"               yaml:"resource_group"`
	AccountName      string     `json:"account_name"                 yaml:"account_name"`
	Name             string     `json:"name"                         yaml:"name"`
	RepoURL          string     `json:"repo_url"                     yaml:"repo_url"`
	Branch           string     `json:"branch,omitempty"             yaml:"branch,omitempty"`
	FolderPath       string     `json:"folder_path"                  yaml:"folder_path"`
	AutoSync         bool       `json:"auto_sync"                    yaml:"auto_sync"`
	PublishRunbook   bool       `json:"publish_runbook"              yaml:"publish_runbook"`
	SourceType       SourceType `json:"source_type"                  yaml:"source_type"`
	Description      string     `json:"description,omitempty"        yaml:"description,omitempty"`
	CreationTime     *time.Time `json:"creation_time,omitempty"      yaml:"creation_time,omitempty"`
	LastModifiedTime *time.Time `json:"last_modified_time,omitempty" yaml:"last_modified_time,omitempty"`
}

// SyncType enumerates source control sync kinds.
type SyncType string

// Sync types.
const (
	SyncTypePartial SyncType = "PartialSync"
	SyncTypeFull    SyncType = "FullSync"
)

// SourceControlSyncJob is one synchronisation run.
type SourceControlSyncJob struct {
	ResourceGroup     string     `json:"resource_group"          yaml:"resource_group"`
	AccountName       string     `json:"account_name"            yaml:"account_name"`
	SourceControlName string     `json:"source_control_name"     yaml:"source_control_name"`
	SyncJobID         string     `json:"sync_job_id"             yaml:"sync_job_id"`
	ProvisioningState string     `json:"provisioning_state"      yaml:"provisioning_state"`
	SyncType          SyncType   `json:"sync_type,omitempty"     yaml:"sync_type,omitempty"`
	Exception         string     `json:"exception,omitempty"     yaml:"exception,omitempty"`
	CreationTime      *time.Time `json:"creation_time,omitempty" yaml:"creation_time,omitempty"`
	StartTime         *time.Time `json:"start_time,omitempty"    yaml:"start_time,omitempty"`
	EndTime           *time.Time `json:"end_time,omitempty"      yaml:"end_time,omitempty"`
}

// SyncJobStream is a summary entry of a sync job's streams.
type SyncJobStream struct {
	SyncJobID  string     `json:"sync_job_id"       yaml:"sync_job_id"`
	StreamID   string     `json:"stream_id"         yaml:"stream_id"`
	StreamType StreamType `json:"stream_type"       yaml:"stream_type"`
	Time       *time.Time `json:"time,omitempty"    yaml:"time,omitempty"`
	Summary    string     `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// SyncJobStreamRecord is a full sync job stream entry including its value.
type SyncJobStreamRecord struct {
	SyncJobStream `yaml:",inline"`

	Value map[string]any `json:"value,omitempty" yaml:"value,omitempty"`
}
