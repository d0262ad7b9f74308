package client

import (
	"encoding/json"
	"strconv"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// Mapper converts Resource Manager wire shapes into automation models. It is
// stateless; one instance is shared by every resource client.
type Mapper struct{}

// NewMapper creates a new mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Account maps an automation account.
func (m *Mapper) Account(resourceGroup string, wire *armAccount) automation.Account {
	account := automation.Account{
		ResourceGroup:    resourceGroup,
		Name:             wire.Name,
		Location:         wire.Location,
		State:            wire.Properties.State,
		Tags:             automation.Tags(wire.Tags).Clone(),
		CreationTime:     wire.Properties.CreationTime,
		LastModifiedTime: wire.Properties.LastModifiedTime,
	}

	if wire.Properties.Sku != nil {
		account.Plan = wire.Properties.Sku.Name
	}

	if account.ResourceGroup == "" {
		account.ResourceGroup = resourceGroupFromID(wire.ID)
	}

	return account
}

// Module maps an imported module.
func (m *Mapper) Module(scope automation.Scope, wire *armModule) automation.Module {
	return automation.Module{
		ResourceGroup:     scope.ResourceGroup,
		AccountName:       scope.Account,
		Name:              wire.Name,
		IsGlobal:          wire.Properties.IsGlobal,
		Version:           wire.Properties.Version,
		SizeInBytes:       wire.Properties.SizeInBytes,
		ActivityCount:     wire.Properties.ActivityCount,
		ProvisioningState: wire.Properties.ProvisioningState,
		Tags:              automation.Tags(wire.Tags).Clone(),
		CreationTime:      wire.Properties.CreationTime,
		LastModifiedTime:  wire.Properties.LastModifiedTime,
	}
}

// Runbook maps a runbook including its declared parameters.
func (m *Mapper) Runbook(scope automation.Scope, wire *armRunbook) automation.Runbook {
	runbook := automation.Runbook{
		ResourceGroup:    scope.ResourceGroup,
		AccountName:      scope.Account,
		Name:             wire.Name,
		Location:         wire.Location,
		Type:             automation.RunbookType(wire.Properties.RunbookType),
		State:            automation.RunbookState(wire.Properties.State),
		Description:      wire.Properties.Description,
		LogProgress:      boolValue(wire.Properties.LogProgress),
		LogVerbose:       boolValue(wire.Properties.LogVerbose),
		JobCount:         wire.Properties.JobCount,
		Tags:             automation.Tags(wire.Tags).Clone(),
		CreationTime:     wire.Properties.CreationTime,
		LastModifiedTime: wire.Properties.LastModifiedTime,
	}

	if len(wire.Properties.Parameters) > 0 {
		runbook.Parameters = make(map[string]automation.RunbookParameter, len(wire.Properties.Parameters))
		for name, param := range wire.Properties.Parameters {
			runbook.Parameters[name] = automation.RunbookParameter{
				Type:         param.Type,
				IsMandatory:  param.IsMandatory,
				Position:     param.Position,
				DefaultValue: param.DefaultValue,
			}
		}
	}

	return runbook
}

// Schedule maps a schedule.
func (m *Mapper) Schedule(scope automation.Scope, wire *armSchedule) automation.Schedule {
	schedule := automation.Schedule{
		ResourceGroup: scope.ResourceGroup,
		AccountName:   scope.Account,
		Name:          wire.Name,
		Description:   wire.Properties.Description,
		ExpiryTime:    wire.Properties.ExpiryTime,
		NextRun:       wire.Properties.NextRun,
		Interval:      intervalValue(wire.Properties.Interval),
		Frequency:     automation.ScheduleFrequency(wire.Properties.Frequency),
		IsEnabled:     boolValue(wire.Properties.IsEnabled),
		TimeZone:      wire.Properties.TimeZone,
	}

	if wire.Properties.StartTime != nil {
		schedule.StartTime = *wire.Properties.StartTime
	}

	if advanced := wire.Properties.AdvancedSchedule; advanced != nil {
		schedule.AdvancedSchedule = &automation.AdvancedSchedule{
			WeekDays:  advanced.WeekDays,
			MonthDays: advanced.MonthDays,
		}

		for _, occurrence := range advanced.MonthlyOccurrences {
			schedule.AdvancedSchedule.MonthlyOccurrences = append(schedule.AdvancedSchedule.MonthlyOccurrences,
				automation.MonthlyOccurrence{Occurrence: occurrence.Occurrence, Day: occurrence.Day})
		}
	}

	return schedule
}

// Job maps a job. The job id falls back to the resource name.
func (m *Mapper) Job(scope automation.Scope, wire *armJob) automation.Job {
	job := automation.Job{
		ResourceGroup:          scope.ResourceGroup,
		AccountName:            scope.Account,
		ID:                     wire.Properties.JobID,
		Parameters:             wire.Properties.Parameters,
		RunOn:                  wire.Properties.RunOn,
		Status:                 automation.JobStatus(wire.Properties.Status),
		StatusDetails:          wire.Properties.StatusDetails,
		Exception:              wire.Properties.Exception,
		StartedBy:              wire.Properties.StartedBy,
		CreationTime:           wire.Properties.CreationTime,
		StartTime:              wire.Properties.StartTime,
		EndTime:                wire.Properties.EndTime,
		LastStatusModifiedTime: wire.Properties.LastStatusModifiedTime,
	}

	if job.ID == "" {
		job.ID = wire.Name
	}

	if wire.Properties.Runbook != nil {
		job.RunbookName = wire.Properties.Runbook.Name
	}

	return job
}

// JobStream maps a job stream summary.
func (m *Mapper) JobStream(jobID string, wire *armJobStream) automation.JobStream {
	summary := wire.Properties.Summary
	if summary == "" {
		summary = wire.Properties.StreamText
	}

	return automation.JobStream{
		JobID:      jobID,
		StreamID:   wire.Properties.JobStreamID,
		StreamType: automation.StreamType(wire.Properties.StreamType),
		Time:       wire.Properties.Time,
		Summary:    summary,
	}
}

// JobStreamRecord maps a full job stream entry.
func (m *Mapper) JobStreamRecord(jobID string, wire *armJobStream) automation.JobStreamRecord {
	return automation.JobStreamRecord{
		JobStream: m.JobStream(jobID, wire),
		Value:     wire.Properties.Value,
	}
}

// JobSchedule maps a job schedule.
func (m *Mapper) JobSchedule(scope automation.Scope, wire *armJobSchedule) automation.JobSchedule {
	jobSchedule := automation.JobSchedule{
		ResourceGroup: scope.ResourceGroup,
		AccountName:   scope.Account,
		ID:            wire.Properties.JobScheduleID,
		Parameters:    wire.Properties.Parameters,
		RunOn:         wire.Properties.RunOn,
	}

	if jobSchedule.ID == "" {
		jobSchedule.ID = wire.Name
	}

	if wire.Properties.Runbook != nil {
		jobSchedule.RunbookName = wire.Properties.Runbook.Name
	}

	if wire.Properties.Schedule != nil {
		jobSchedule.ScheduleName = wire.Properties.Schedule.Name
	}

	return jobSchedule
}

// Variable maps a variable. Encrypted variables carry no value.
func (m *Mapper) Variable(scope automation.Scope, wire *armVariable) automation.Variable {
	variable := automation.Variable{
		ResourceGroup:    scope.ResourceGroup,
		AccountName:      scope.Account,
		Name:             wire.Name,
		Encrypted:        boolValue(wire.Properties.IsEncrypted),
		Description:      stringValue(wire.Properties.Description),
		CreationTime:     wire.Properties.CreationTime,
		LastModifiedTime: wire.Properties.LastModifiedTime,
	}

	if !variable.Encrypted {
		variable.Value = stringValue(wire.Properties.Value)
	}

	return variable
}

// Credential maps a credential.
func (m *Mapper) Credential(scope automation.Scope, wire *armCredential) automation.Credential {
	return automation.Credential{
		ResourceGroup:    scope.ResourceGroup,
		AccountName:      scope.Account,
		Name:             wire.Name,
		UserName:         wire.Properties.UserName,
		Description:      stringValue(wire.Properties.Description),
		CreationTime:     wire.Properties.CreationTime,
		LastModifiedTime: wire.Properties.LastModifiedTime,
	}
}

// Certificate maps a certificate.
func (m *Mapper) Certificate(scope automation.Scope, wire *armCertificate) automation.Certificate {
	return automation.Certificate{
		ResourceGroup:    scope.ResourceGroup,
		AccountName:      scope.Account,
		Name:             wire.Name,
		Thumbprint:       wire.Properties.Thumbprint,
		ExpiryTime:       wire.Properties.ExpiryTime,
		IsExportable:     boolValue(wire.Properties.IsExportable),
		Description:      stringValue(wire.Properties.Description),
		CreationTime:     wire.Properties.CreationTime,
		LastModifiedTime: wire.Properties.LastModifiedTime,
	}
}

// Connection maps a connection.
func (m *Mapper) Connection(scope automation.Scope, wire *armConnection) automation.Connection {
	connection := automation.Connection{
		ResourceGroup:    scope.ResourceGroup,
		AccountName:      scope.Account,
		Name:             wire.Name,
		FieldValues:      wire.Properties.FieldDefinitionValues,
		Description:      stringValue(wire.Properties.Description),
		CreationTime:     wire.Properties.CreationTime,
		LastModifiedTime: wire.Properties.LastModifiedTime,
	}

	if wire.Properties.ConnectionType != nil {
		connection.ConnectionTypeName = wire.Properties.ConnectionType.Name
	}

	return connection
}

// ConnectionType maps a connection type.
func (m *Mapper) ConnectionType(scope automation.Scope, wire *armConnectionType) automation.ConnectionType {
	connectionType := automation.ConnectionType{
		ResourceGroup: scope.ResourceGroup,
		AccountName:   scope.Account,
		Name:          wire.Name,
		IsGlobal:      wire.Properties.IsGlobal,
		CreationTime:  wire.Properties.CreationTime,
	}

	if len(wire.Properties.FieldDefinitions) > 0 {
		connectionType.FieldDefinitions = make(map[string]automation.FieldDefinition, len(wire.Properties.FieldDefinitions))
		for name, field := range wire.Properties.FieldDefinitions {
			connectionType.FieldDefinitions[name] = automation.FieldDefinition{
				IsEncrypted: field.IsEncrypted,
				IsOptional:  field.IsOptional,
				Type:        field.Type,
			}
		}
	}

	return connectionType
}

// HybridWorkerGroup maps a hybrid runbook worker group.
func (m *Mapper) HybridWorkerGroup(scope automation.Scope, wire *armHybridWorkerGroup) automation.HybridWorkerGroup {
	group := automation.HybridWorkerGroup{
		ResourceGroup: scope.ResourceGroup,
		AccountName:   scope.Account,
		Name:          wire.Name,
		GroupType:     wire.Properties.GroupType,
	}

	if wire.Properties.Credential != nil {
		group.CredentialName = wire.Properties.Credential.Name
	}

	return group
}

// Webhook maps a webhook.
func (m *Mapper) Webhook(scope automation.Scope, wire *armWebhook) automation.Webhook {
	webhook := automation.Webhook{
		ResourceGroup:    scope.ResourceGroup,
		AccountName:      scope.Account,
		Name:             wire.Name,
		IsEnabled:        boolValue(wire.Properties.IsEnabled),
		URI:              wire.Properties.URI,
		ExpiryTime:       wire.Properties.ExpiryTime,
		LastInvokedTime:  wire.Properties.LastInvokedTime,
		Parameters:       wire.Properties.Parameters,
		RunOn:            wire.Properties.RunOn,
		Description:      wire.Properties.Description,
		CreationTime:     wire.Properties.CreationTime,
		LastModifiedTime: wire.Properties.LastModifiedTime,
	}

	if wire.Properties.Runbook != nil {
		webhook.RunbookName = wire.Properties.Runbook.Name
	}

	return webhook
}

// SourceControl maps a source control. The security token is write-only.
func (m *Mapper) SourceControl(scope automation.Scope, wire *armSourceControl) automation.SourceControl {
	return automation.SourceControl{
		ResourceGroup:    scope.ResourceGroup,
		AccountName:      scope.Account,
		Name:             wire.Name,
		RepoURL:          wire.Properties.RepoURL,
		Branch:           wire.Properties.Branch,
		FolderPath:       wire.Properties.FolderPath,
		AutoSync:         boolValue(wire.Properties.AutoSync),
		PublishRunbook:   boolValue(wire.Properties.PublishRunbook),
		SourceType:       automation.SourceType(wire.Properties.SourceType),
		Description:      wire.Properties.Description,
		CreationTime:     wire.Properties.CreationTime,
		LastModifiedTime: wire.Properties.LastModifiedTime,
	}
}

// SyncJob maps a source control sync job.
func (m *Mapper) SyncJob(scope automation.Scope, sourceControl string, wire *armSyncJob) automation.SourceControlSyncJob {
	syncJob := automation.SourceControlSyncJob{
		ResourceGroup:     scope.ResourceGroup,
		AccountName:       scope.Account,
		SourceControlName: sourceControl,
		SyncJobID:         wire.Properties.SourceControlSyncJobID,
		ProvisioningState: wire.Properties.ProvisioningState,
		SyncType:          automation.SyncType(wire.Properties.SyncType),
		Exception:         wire.Properties.Exception,
		CreationTime:      wire.Properties.CreationTime,
		StartTime:         wire.Properties.StartTime,
		EndTime:           wire.Properties.EndTime,
	}

	if syncJob.SyncJobID == "" {
		syncJob.SyncJobID = wire.Name
	}

	return syncJob
}

// SyncJobStream maps a sync job stream summary.
func (m *Mapper) SyncJobStream(syncJobID string, wire *armSyncJobStream) automation.SyncJobStream {
	summary := wire.Properties.Summary
	if summary == "" {
		summary = wire.Properties.StreamText
	}

	return automation.SyncJobStream{
		SyncJobID:  syncJobID,
		StreamID:   wire.Properties.SourceControlSyncJobStreamID,
		StreamType: automation.StreamType(wire.Properties.StreamType),
		Time:       wire.Properties.Time,
		Summary:    summary,
	}
}

// SyncJobStreamRecord maps a full sync job stream entry.
func (m *Mapper) SyncJobStreamRecord(syncJobID string, wire *armSyncJobStream) automation.SyncJobStreamRecord {
	return automation.SyncJobStreamRecord{
		SyncJobStream: m.SyncJobStream(syncJobID, wire),
		Value:         wire.Properties.Value,
	}
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// intervalValue accepts the interval as a JSON number or numeric string.
func intervalValue(raw any) int {
	switch value := raw.(type) {
	case float64:
		return int(value)
	case json.Number:
		n, _ := value.Int64()

		return int(n)
	case string:
		n, _ := strconv.Atoi(value)

		return n
	default:
		return 0
	}
}
