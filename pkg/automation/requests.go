package automation

import "time"

// CreateAccountRequest is the input of Accounts().Create.
type CreateAccountRequest struct {
	Name     string `json:"name"           validate:"required"`
	Location string `json:"location"       validate:"required"`
	Plan     string `json:"plan,omitempty"`
	Tags     Tags   `json:"tags,omitempty"`
}

// UpdateAccountRequest is the input of Accounts().Update. Nil fields keep
// the stored value.
type UpdateAccountRequest struct {
	Plan *string `json:"plan,omitempty"`
	Tags Tags    `json:"tags,omitempty"`
}

// UpdateModuleRequest is the input of Modules().Update. When ContentLink is
// set and Version is empty a fresh version id is generated.
type UpdateModuleRequest struct {
	ContentLink string `json:"content_link,omitempty" validate:"omitempty,url"`
	Version     string `json:"version,omitempty"`
	Tags        Tags   `json:"tags,omitempty"`
}

// CreateScheduleRequest is the input of Schedules().Create.
type CreateScheduleRequest struct {
	Name             string            `json:"name"                        validate:"required"`
	StartTime        time.Time         `json:"start_time"                  validate:"required"`
	ExpiryTime       *time.Time        `json:"expiry_time,omitempty"`
	Description      string            `json:"description,omitempty"`
	Interval         int               `json:"interval,omitempty"          validate:"gte=0"`
	Frequency        ScheduleFrequency `json:"frequency"                   validate:"required,oneof=OneTime Minute Hour Day Week Month"`
	AdvancedSchedule *AdvancedSchedule `json:"advanced_schedule,omitempty"`
	TimeZone         string            `json:"time_zone,omitempty"`
}

// UpdateScheduleRequest is the input of Schedules().Update. Start time and
// recurrence are immutable.
type UpdateScheduleRequest struct {
	IsEnabled   *bool   `json:"is_enabled,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CreateRunbookRequest is the input of Runbooks().Create.
type CreateRunbookRequest struct {
	Name        string      `json:"name"                   validate:"required"`
	Type        RunbookType `json:"type,omitempty"`
	Description string      `json:"description,omitempty"`
	Tags        Tags        `json:"tags,omitempty"`
	LogProgress *bool       `json:"log_progress,omitempty"`
	LogVerbose  *bool       `json:"log_verbose,omitempty"`
	// Overwrite replaces an existing runbook instead of failing.
	Overwrite bool `json:"overwrite,omitempty"`
}

// UpdateRunbookRequest is the input of Runbooks().Update. Nil fields keep
// the stored value.
type UpdateRunbookRequest struct {
	Description *string `json:"description,omitempty"`
	Tags        Tags    `json:"tags,omitempty"`
	LogProgress *bool   `json:"log_progress,omitempty"`
	LogVerbose  *bool   `json:"log_verbose,omitempty"`
}

// ImportRunbookRequest is the input of Runbooks().Import.
type ImportRunbookRequest struct {
	// Path of a .ps1, .graphrunbook or .py file.
	Path string `json:"path" validate:"required"`
	// Name defaults to the file's base name.
	Name        string      `json:"name,omitempty"`
	Type        RunbookType `json:"type,omitempty"`
	Description string      `json:"description,omitempty"`
	Tags        Tags        `json:"tags,omitempty"`
	LogProgress *bool       `json:"log_progress,omitempty"`
	LogVerbose  *bool       `json:"log_verbose,omitempty"`
	Published   bool        `json:"published,omitempty"`
	Overwrite   bool        `json:"overwrite,omitempty"`
}

// ExportRunbookRequest is the input of Runbooks().Export.
type ExportRunbookRequest struct {
	Slot         ContentSlot `json:"slot,omitempty"`
	OutputFolder string      `json:"output_folder"  validate:"required"`
	Overwrite    bool        `json:"overwrite,omitempty"`
}

// StartRunbookRequest is the input of Runbooks().Start.
type StartRunbookRequest struct {
	Parameters map[string]any `json:"parameters,omitempty"`
	RunOn      string         `json:"run_on,omitempty"`
}

// ListJobsOptions filters Jobs().List.
type ListJobsOptions struct {
	RunbookName string     `json:"runbook_name,omitempty"`
	Status      JobStatus  `json:"status,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}

// ListJobStreamsOptions filters Jobs().ListStreams.
type ListJobStreamsOptions struct {
	Time       *time.Time `json:"time,omitempty"`
	StreamType StreamType `json:"stream_type,omitempty"`
}

// CreateVariableRequest is the input of Variables().Create. Value is stored
// as its JSON serialization.
type CreateVariableRequest struct {
	Name        string `json:"name"                  validate:"required"`
	Value       any    `json:"value,omitempty"`
	Encrypted   bool   `json:"encrypted"`
	Description string `json:"description,omitempty"`
}

// VariableUpdateMode selects which half of a variable an update touches.
type VariableUpdateMode string

// Variable update modes.
const (
	VariableUpdateValue       VariableUpdateMode = "OnlyValue"
	VariableUpdateDescription VariableUpdateMode = "OnlyDescription"
)

// UpdateVariableRequest is the input of Variables().Update.
type UpdateVariableRequest struct {
	Name        string             `json:"name"                  validate:"required"`
	Mode        VariableUpdateMode `json:"mode"                  validate:"required,oneof=OnlyValue OnlyDescription"`
	Value       any                `json:"value,omitempty"`
	Encrypted   bool               `json:"encrypted"`
	Description string             `json:"description,omitempty"`
}

// CreateCredentialRequest is the input of Credentials().Create.
type CreateCredentialRequest struct {
	Name        string `json:"name"                  validate:"required"`
	UserName    string `json:"user_name"             validate:"required"`
	Password    string `json:"-"                     validate:"required"`
	Description string `json:"description,omitempty"`
}

// UpdateCredentialRequest is the input of Credentials().Update. Nil fields
// keep the stored value.
type UpdateCredentialRequest struct {
	UserName    *string `json:"user_name,omitempty"`
	Password    *string `json:"-"`
	Description *string `json:"description,omitempty"`
}

// CreateCertificateRequest is the input of Certificates().Create.
type CreateCertificateRequest struct {
	Name string `json:"name" validate:"required"`
	// Path of a .pfx/.p12, .cer/.der or PEM certificate file.
	Path        string `json:"path"                  validate:"required"`
	Password    string `json:"-"`
	Description string `json:"description,omitempty"`
	Exportable  bool   `json:"exportable"`
}

// UpdateCertificateRequest is the input of Certificates().Update. Password and
// Exportable only apply together with Path, which replaces the certificate.
type UpdateCertificateRequest struct {
	Path        string  `json:"path,omitempty"`
	Password    *string `json:"-"`
	Description *string `json:"description,omitempty"`
	Exportable  *bool   `json:"exportable,omitempty"`
}

// CreateConnectionRequest is the input of Connections().Create.
type CreateConnectionRequest struct {
	Name               string            `json:"name"                   validate:"required"`
	ConnectionTypeName string            `json:"connection_type_name"   validate:"required"`
	FieldValues        map[string]string `json:"field_values,omitempty"`
	Description        string            `json:"description,omitempty"`
}

// CreateConnectionTypeRequest is the input of ConnectionTypes().Create.
type CreateConnectionTypeRequest struct {
	Name             string                     `json:"name"              validate:"required"`
	IsGlobal         bool                       `json:"is_global"`
	FieldDefinitions map[string]FieldDefinition `json:"field_definitions" validate:"required,min=1"`
}

// RegisterJobScheduleRequest is the input of JobSchedules().Register.
type RegisterJobScheduleRequest struct {
	RunbookName  string         `json:"runbook_name"         validate:"required"`
	ScheduleName string         `json:"schedule_name"        validate:"required"`
	Parameters   map[string]any `json:"parameters,omitempty"`
	RunOn        string         `json:"run_on,omitempty"`
}

// CreateWebhookRequest is the input of Webhooks().Create. Parameters are
// validated against the runbook when non-nil.
type CreateWebhookRequest struct {
	Name        string         `json:"name"                 validate:"required"`
	RunbookName string         `json:"runbook_name"         validate:"required"`
	IsEnabled   bool           `json:"is_enabled"`
	ExpiryTime  time.Time      `json:"expiry_time"          validate:"required"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	RunOn       string         `json:"run_on,omitempty"`
}

// UpdateWebhookRequest is the input of Webhooks().Update. Nil fields keep
// the stored value.
type UpdateWebhookRequest struct {
	Parameters map[string]any `json:"parameters,omitempty"`
	IsEnabled  *bool          `json:"is_enabled,omitempty"`
}

// CreateSourceControlRequest is the input of SourceControls().Create.
type CreateSourceControlRequest struct {
	Name           string     `json:"name"                  validate:"required"`
	RepoURL        string     `json:"repo_url"              validate:"required,url"`
	Branch         string     `json:"branch,omitempty"`
	FolderPath     string     `json:"folder_path"           validate:"required"`
	AccessToken    string     `json:"-"                     validate:"required"`
	SourceType     SourceType `json:"source_type"           validate:"required,oneof=GitHub VsoGit VsoTfvc"`
	AutoSync       bool       `json:"auto_sync"`
	PublishRunbook bool       `json:"publish_runbook"`
	Description    string     `json:"description,omitempty"`
}

// UpdateSourceControlRequest is the input of SourceControls().Update. Empty
// and nil fields keep the stored value.
type UpdateSourceControlRequest struct {
	Branch         string `json:"branch,omitempty"`
	FolderPath     string `json:"folder_path,omitempty"`
	AccessToken    string `json:"-"`
	AutoSync       *bool  `json:"auto_sync,omitempty"`
	PublishRunbook *bool  `json:"publish_runbook,omitempty"`
	Description    string `json:"description,omitempty"`
}
