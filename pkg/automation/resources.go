package automation

import (
	"context"
	"io"
)

// AccountsClient manages automation accounts.
type AccountsClient interface {
	Create(ctx context.Context, resourceGroup string, req *CreateAccountRequest) (*Account, error)
	Get(ctx context.Context, resourceGroup, name string) (*Account, error)
	TryGet(ctx context.Context, resourceGroup, name string) (*Account, bool, error)
	// List lists the accounts of resourceGroup, or of the whole subscription
	// when resourceGroup is empty.
	List(ctx context.Context, resourceGroup, cursor string) (*Page[Account], error)
	Update(ctx context.Context, resourceGroup, name string, req *UpdateAccountRequest) (*Account, error)
	Delete(ctx context.Context, resourceGroup, name string) error
}

// ModulesClient manages imported modules.
type ModulesClient interface {
	Create(ctx context.Context, scope Scope, name, contentLink string) (*Module, error)
	Get(ctx context.Context, scope Scope, name string) (*Module, error)
	TryGet(ctx context.Context, scope Scope, name string) (*Module, bool, error)
	List(ctx context.Context, scope Scope, cursor string) (*Page[Module], error)
	Update(ctx context.Context, scope Scope, name string, req *UpdateModuleRequest) (*Module, error)
	Delete(ctx context.Context, scope Scope, name string) error
}

// SchedulesClient manages schedules.
type SchedulesClient interface {
	Create(ctx context.Context, scope Scope, req *CreateScheduleRequest) (*Schedule, error)
	Get(ctx context.Context, scope Scope, name string) (*Schedule, error)
	TryGet(ctx context.Context, scope Scope, name string) (*Schedule, bool, error)
	List(ctx context.Context, scope Scope, cursor string) (*Page[Schedule], error)
	Update(ctx context.Context, scope Scope, name string, req *UpdateScheduleRequest) (*Schedule, error)
	Delete(ctx context.Context, scope Scope, name string) error
}

// RunbooksClient manages runbooks and their content.
type RunbooksClient interface {
	Create(ctx context.Context, scope Scope, req *CreateRunbookRequest) (*Runbook, error)
	Get(ctx context.Context, scope Scope, name string) (*Runbook, error)
	TryGet(ctx context.Context, scope Scope, name string) (*Runbook, bool, error)
	List(ctx context.Context, scope Scope, cursor string) (*Page[Runbook], error)
	Update(ctx context.Context, scope Scope, name string, req *UpdateRunbookRequest) (*Runbook, error)
	Delete(ctx context.Context, scope Scope, name string) error
	Publish(ctx context.Context, scope Scope, name string) (*Runbook, error)
	GetContent(ctx context.Context, scope Scope, name string, slot ContentSlot) (*RunbookContent, error)
	SetDraftContent(ctx context.Context, scope Scope, name string, content io.Reader) error
	Import(ctx context.Context, scope Scope, req *ImportRunbookRequest) (*Runbook, error)
	// Export writes the selected content slot to OutputFolder and returns the
	// path of the written file.
	Export(ctx context.Context, scope Scope, name string, req *ExportRunbookRequest) (string, error)
	Start(ctx context.Context, scope Scope, name string, req *StartRunbookRequest) (*Job, error)
}

// JobsClient inspects and controls jobs.
type JobsClient interface {
	Get(ctx context.Context, scope Scope, id string) (*Job, error)
	List(ctx context.Context, scope Scope, opts *ListJobsOptions, cursor string) (*Page[Job], error)
	Stop(ctx context.Context, scope Scope, id string) error
	Suspend(ctx context.Context, scope Scope, id string) error
	Resume(ctx context.Context, scope Scope, id string) error
	GetOutput(ctx context.Context, scope Scope, id string) (string, error)
	ListStreams(ctx context.Context, scope Scope, id string, opts *ListJobStreamsOptions, cursor string) (*Page[JobStream], error)
	GetStreamRecord(ctx context.Context, scope Scope, id, streamID string) (*JobStreamRecord, error)
	// GetStreamRecordValue returns the record value without the remoting
	// bookkeeping keys. A value holding only "value" collapses to that scalar.
	GetStreamRecordValue(ctx context.Context, scope Scope, id, streamID string) (any, error)
}

// JobSchedulesClient manages schedule-to-runbook bindings.
type JobSchedulesClient interface {
	Get(ctx context.Context, scope Scope, id string) (*JobSchedule, error)
	GetByPair(ctx context.Context, scope Scope, runbookName, scheduleName string) (*JobSchedule, error)
	List(ctx context.Context, scope Scope, cursor string) (*Page[JobSchedule], error)
	ListByRunbook(ctx context.Context, scope Scope, runbookName string) ([]JobSchedule, error)
	ListBySchedule(ctx context.Context, scope Scope, scheduleName string) ([]JobSchedule, error)
	Register(ctx context.Context, scope Scope, req *RegisterJobScheduleRequest) (*JobSchedule, error)
	Unregister(ctx context.Context, scope Scope, id string) error
	UnregisterByPair(ctx context.Context, scope Scope, runbookName, scheduleName string) error
}

// WebhooksClient manages runbook webhooks.
type WebhooksClient interface {
	Create(ctx context.Context, scope Scope, req *CreateWebhookRequest) (*Webhook, error)
	Get(ctx context.Context, scope Scope, name string) (*Webhook, error)
	TryGet(ctx context.Context, scope Scope, name string) (*Webhook, bool, error)
	// List lists webhooks, restricted to runbookName when it is not empty.
	List(ctx context.Context, scope Scope, runbookName, cursor string) (*Page[Webhook], error)
	Update(ctx context.Context, scope Scope, name string, req *UpdateWebhookRequest) (*Webhook, error)
	Delete(ctx context.Context, scope Scope, name string) error
}

// HybridWorkerGroupsClient reads hybrid runbook worker groups.
type HybridWorkerGroupsClient interface {
	Get(ctx context.Context, scope Scope, name string) (*HybridWorkerGroup, error)
	TryGet(ctx context.Context, scope Scope, name string) (*HybridWorkerGroup, bool, error)
	List(ctx context.Context, scope Scope, cursor string) (*Page[HybridWorkerGroup], error)
}

// VariablesClient manages variables.
type VariablesClient interface {
	Create(ctx context.Context, scope Scope, req *CreateVariableRequest) (*Variable, error)
	Get(ctx context.Context, scope Scope, name string) (*Variable, error)
	TryGet(ctx context.Context, scope Scope, name string) (*Variable, bool, error)
	List(ctx context.Context, scope Scope, cursor string) (*Page[Variable], error)
	Update(ctx context.Context, scope Scope, req *UpdateVariableRequest) (*Variable, error)
	Delete(ctx context.Context, scope Scope, name string) error
}

// CredentialsClient manages credentials.
type CredentialsClient interface {
	Create(ctx context.Context, scope Scope, req *CreateCredentialRequest) (*Credential, error)
	Get(ctx context.Context, scope Scope, name string) (*Credential, error)
	TryGet(ctx context.Context, scope Scope, name string) (*Credential, bool, error)
	List(ctx context.Context, scope Scope, cursor string) (*Page[Credential], error)
	Update(ctx context.Context, scope Scope, name string, req *UpdateCredentialRequest) (*Credential, error)
	Delete(ctx context.Context, scope Scope, name string) error
}

// CertificatesClient manages certificates.
type CertificatesClient interface {
	Create(ctx context.Context, scope Scope, req *CreateCertificateRequest) (*Certificate, error)
	Get(ctx context.Context, scope Scope, name string) (*Certificate, error)
	TryGet(ctx context.Context, scope Scope, name string) (*Certificate, bool, error)
	List(ctx context.Context, scope Scope, cursor string) (*Page[Certificate], error)
	Update(ctx context.Context, scope Scope, name string, req *UpdateCertificateRequest) (*Certificate, error)
	Delete(ctx context.Context, scope Scope, name string) error
}

// ConnectionsClient manages connections.
type ConnectionsClient interface {
	Create(ctx context.Context, scope Scope, req *CreateConnectionRequest) (*Connection, error)
	Get(ctx context.Context, scope Scope, name string) (*Connection, error)
	TryGet(ctx context.Context, scope Scope, name string) (*Connection, bool, error)
	List(ctx context.Context, scope Scope, cursor string) (*Page[Connection], error)
	ListByType(ctx context.Context, scope Scope, typeName string) ([]Connection, error)
	UpdateFieldValue(ctx context.Context, scope Scope, name, field string, value any) (*Connection, error)
	Delete(ctx context.Context, scope Scope, name string) error
}

// ConnectionTypesClient manages connection types.
type ConnectionTypesClient interface {
	Create(ctx context.Context, scope Scope, req *CreateConnectionTypeRequest) (*ConnectionType, error)
	Get(ctx context.Context, scope Scope, name string) (*ConnectionType, error)
	TryGet(ctx context.Context, scope Scope, name string) (*ConnectionType, bool, error)
	List(ctx context.Context, scope Scope, cursor string) (*Page[ConnectionType], error)
	Delete(ctx context.Context, scope Scope, name string) error
}

// SourceControlsClient manages source control links.
type SourceControlsClient interface {
	Create(ctx context.Context, scope Scope, req *CreateSourceControlRequest) (*SourceControl, error)
	Get(ctx context.Context, scope Scope, name string) (*SourceControl, error)
	TryGet(ctx context.Context, scope Scope, name string) (*SourceControl, bool, error)
	// List lists source controls, restricted to sourceType when it is not empty.
	List(ctx context.Context, scope Scope, sourceType SourceType, cursor string) (*Page[SourceControl], error)
	Update(ctx context.Context, scope Scope, name string, req *UpdateSourceControlRequest) (*SourceControl, error)
	Delete(ctx context.Context, scope Scope, name string) error
}

// SourceControlSyncJobsClient manages source control sync runs.
type SourceControlSyncJobsClient interface {
	// Start starts a sync job. An empty syncJobID is replaced by a new GUID.
	Start(ctx context.Context, scope Scope, sourceControl, syncJobID string) (*SourceControlSyncJob, error)
	Get(ctx context.Context, scope Scope, sourceControl, syncJobID string) (*SourceControlSyncJob, error)
	List(ctx context.Context, scope Scope, sourceControl, cursor string) (*Page[SourceControlSyncJob], error)
	ListStreams(ctx context.Context, scope Scope, sourceControl, syncJobID string, streamType StreamType, cursor string) (*Page[SyncJobStream], error)
	GetStreamRecord(ctx context.Context, scope Scope, sourceControl, syncJobID, streamID string) (*SyncJobStreamRecord, error)
}
