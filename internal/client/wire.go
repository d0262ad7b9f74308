package client

import (
	"time"
)

// Resource Manager wire shapes. Only the fields the facade reads or writes
// are declared.

type armList[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"nextLink,omitempty"`
}

type armNameRef struct {
	Name string `json:"name"`
}

type armSku struct {
	Name string `json:"name"`
}

type armAccount struct {
	ID         string               `json:"id,omitempty"`
	Name       string               `json:"name"`
	Location   string               `json:"location,omitempty"`
	Tags       map[string]string    `json:"tags,omitempty"`
	Properties armAccountProperties `json:"properties"`
}

type armAccountProperties struct {
	Sku              *armSku    `json:"sku,omitempty"`
	State            string     `json:"state,omitempty"`
	CreationTime     *time.Time `json:"creationTime,omitempty"`
	LastModifiedTime *time.Time `json:"lastModifiedTime,omitempty"`
}

type armContentLink struct {
	URI         string          `json:"uri"`
	Version     string          `json:"version,omitempty"`
	ContentHash *armContentHash `json:"contentHash,omitempty"`
}

type armContentHash struct {
	Algorithm string `json:"algorithm"`
	Value     string `json:"value"`
}

type armModule struct {
	Name       string              `json:"name"`
	Location   string              `json:"location,omitempty"`
	Tags       map[string]string   `json:"tags,omitempty"`
	Properties armModuleProperties `json:"properties"`
}

type armModuleProperties struct {
	ContentLink       *armContentLink `json:"contentLink,omitempty"`
	IsGlobal          bool            `json:"isGlobal,omitempty"`
	Version           string          `json:"version,omitempty"`
	SizeInBytes       int64           `json:"sizeInBytes,omitempty"`
	ActivityCount     int             `json:"activityCount,omitempty"`
	ProvisioningState string          `json:"provisioningState,omitempty"`
	CreationTime      *time.Time      `json:"creationTime,omitempty"`
	LastModifiedTime  *time.Time      `json:"lastModifiedTime,omitempty"`
}

type armRunbookParameter struct {
	Type         string `json:"type"`
	IsMandatory  bool   `json:"isMandatory"`
	Position     int    `json:"position"`
	DefaultValue string `json:"defaultValue,omitempty"`
}

type armRunbook struct {
	Name       string               `json:"name"`
	Location   string               `json:"location,omitempty"`
	Tags       map[string]string    `json:"tags,omitempty"`
	Properties armRunbookProperties `json:"properties"`
}

type armRunbookProperties struct {
	RunbookType      string                         `json:"runbookType,omitempty"`
	State            string                         `json:"state,omitempty"`
	Description      string                         `json:"description,omitempty"`
	LogProgress      *bool                          `json:"logProgress,omitempty"`
	LogVerbose       *bool                          `json:"logVerbose,omitempty"`
	JobCount         int                            `json:"jobCount,omitempty"`
	Parameters       map[string]armRunbookParameter `json:"parameters,omitempty"`
	Draft            *struct{}                      `json:"draft,omitempty"`
	CreationTime     *time.Time                     `json:"creationTime,omitempty"`
	LastModifiedTime *time.Time                     `json:"lastModifiedTime,omitempty"`
}

type armMonthlyOccurrence struct {
	Occurrence int    `json:"occurrence"`
	Day        string `json:"day"`
}

type armAdvancedSchedule struct {
	WeekDays           []string               `json:"weekDays,omitempty"`
	MonthDays          []int                  `json:"monthDays,omitempty"`
	MonthlyOccurrences []armMonthlyOccurrence `json:"monthlyOccurrences,omitempty"`
}

type armSchedule struct {
	Name       string                `json:"name"`
	Properties armScheduleProperties `json:"properties"`
}

type armScheduleProperties struct {
	StartTime        *time.Time           `json:"startTime,omitempty"`
	ExpiryTime       *time.Time           `json:"expiryTime,omitempty"`
	NextRun          *time.Time           `json:"nextRun,omitempty"`
	Interval         any                  `json:"interval,omitempty"`
	Frequency        string               `json:"frequency,omitempty"`
	IsEnabled        *bool                `json:"isEnabled,omitempty"`
	Description      string               `json:"description,omitempty"`
	TimeZone         string               `json:"timeZone,omitempty"`
	AdvancedSchedule *armAdvancedSchedule `json:"advancedSchedule,omitempty"`
}

type armJob struct {
	Name       string           `json:"name"`
	Properties armJobProperties `json:"properties"`
}

type armJobProperties struct {
	JobID                  string            `json:"jobId,omitempty"`
	Runbook                *armNameRef       `json:"runbook,omitempty"`
	Parameters             map[string]string `json:"parameters,omitempty"`
	RunOn                  string            `json:"runOn,omitempty"`
	Status                 string            `json:"status,omitempty"`
	StatusDetails          string            `json:"statusDetails,omitempty"`
	Exception              string            `json:"exception,omitempty"`
	StartedBy              string            `json:"startedBy,omitempty"`
	CreationTime           *time.Time        `json:"creationTime,omitempty"`
	StartTime              *time.Time        `json:"startTime,omitempty"`
	EndTime                *time.Time        `json:"endTime,omitempty"`
	LastStatusModifiedTime *time.Time        `json:"lastStatusModifiedTime,omitempty"`
}

type armJobStream struct {
	ID         string                 `json:"id,omitempty"`
	Properties armJobStreamProperties `json:"properties"`
}

type armJobStreamProperties struct {
	JobStreamID string         `json:"jobStreamId"`
	Time        *time.Time     `json:"time,omitempty"`
	StreamType  string         `json:"streamType"`
	StreamText  string         `json:"streamText,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	Value       map[string]any `json:"value,omitempty"`
}

type armJobSchedule struct {
	Name       string                   `json:"name,omitempty"`
	Properties armJobScheduleProperties `json:"properties"`
}

type armJobScheduleProperties struct {
	JobScheduleID string            `json:"jobScheduleId,omitempty"`
	Schedule      *armNameRef       `json:"schedule,omitempty"`
	Runbook       *armNameRef       `json:"runbook,omitempty"`
	RunOn         string            `json:"runOn,omitempty"`
	Parameters    map[string]string `json:"parameters,omitempty"`
}

type armVariable struct {
	Name       string                `json:"name"`
	Properties armVariableProperties `json:"properties"`
}

type armVariableProperties struct {
	Value            *string    `json:"value,omitempty"`
	IsEncrypted      *bool      `json:"isEncrypted,omitempty"`
	Description      *string    `json:"description,omitempty"`
	CreationTime     *time.Time `json:"creationTime,omitempty"`
	LastModifiedTime *time.Time `json:"lastModifiedTime,omitempty"`
}

type armCredential struct {
	Name       string                  `json:"name"`
	Properties armCredentialProperties `json:"properties"`
}

type armCredentialProperties struct {
	UserName         string     `json:"userName,omitempty"`
	Password         string     `json:"password,omitempty"`
	Description      *string    `json:"description,omitempty"`
	CreationTime     *time.Time `json:"creationTime,omitempty"`
	LastModifiedTime *time.Time `json:"lastModifiedTime,omitempty"`
}

type armCertificate struct {
	Name       string                   `json:"name"`
	Properties armCertificateProperties `json:"properties"`
}

type armCertificateProperties struct {
	Base64Value      string     `json:"base64Value,omitempty"`
	Thumbprint       string     `json:"thumbprint,omitempty"`
	ExpiryTime       *time.Time `json:"expiryTime,omitempty"`
	IsExportable     *bool      `json:"isExportable,omitempty"`
	Description      *string    `json:"description,omitempty"`
	CreationTime     *time.Time `json:"creationTime,omitempty"`
	LastModifiedTime *time.Time `json:"lastModifiedTime,omitempty"`
}

type armConnection struct {
	Name       string                  `json:"name"`
	Properties armConnectionProperties `json:"properties"`
}

type armConnectionProperties struct {
	ConnectionType        *armNameRef       `json:"connectionType,omitempty"`
	FieldDefinitionValues map[string]string `json:"fieldDefinitionValues,omitempty"`
	Description           *string           `json:"description,omitempty"`
	CreationTime          *time.Time        `json:"creationTime,omitempty"`
	LastModifiedTime      *time.Time        `json:"lastModifiedTime,omitempty"`
}

type armFieldDefinition struct {
	IsEncrypted bool   `json:"isEncrypted"`
	IsOptional  bool   `json:"isOptional"`
	Type        string `json:"type"`
}

type armConnectionType struct {
	Name       string                      `json:"name"`
	Properties armConnectionTypeProperties `json:"properties"`
}

type armConnectionTypeProperties struct {
	IsGlobal         bool                          `json:"isGlobal"`
	FieldDefinitions map[string]armFieldDefinition `json:"fieldDefinitions,omitempty"`
	CreationTime     *time.Time                    `json:"creationTime,omitempty"`
}

type armHybridWorkerGroup struct {
	Name       string                         `json:"name"`
	Properties armHybridWorkerGroupProperties `json:"properties"`
}

type armHybridWorkerGroupProperties struct {
	GroupType  string      `json:"groupType,omitempty"`
	Credential *armNameRef `json:"credential,omitempty"`
}

type armWebhook struct {
	Name       string               `json:"name"`
	Properties armWebhookProperties `json:"properties"`
}

type armWebhookProperties struct {
	IsEnabled        *bool             `json:"isEnabled,omitempty"`
	URI              string            `json:"uri,omitempty"`
	ExpiryTime       *time.Time        `json:"expiryTime,omitempty"`
	LastInvokedTime  *time.Time        `json:"lastInvokedTime,omitempty"`
	Parameters       map[string]string `json:"parameters,omitempty"`
	Runbook          *armNameRef       `json:"runbook,omitempty"`
	RunOn            string            `json:"runOn,omitempty"`
	Description      string            `json:"description,omitempty"`
	CreationTime     *time.Time        `json:"creationTime,omitempty"`
	LastModifiedTime *time.Time        `json:"lastModifiedTime,omitempty"`
}

type armSecurityToken struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

type armSourceControl struct {
	Name       string                     `json:"name"`
	Properties armSourceControlProperties `json:"properties"`
}

type armSourceControlProperties struct {
	RepoURL          string            `json:"repoUrl,omitempty"`
	Branch           string            `json:"branch,omitempty"`
	FolderPath       string            `json:"folderPath,omitempty"`
	AutoSync         *bool             `json:"autoSync,omitempty"`
	PublishRunbook   *bool             `json:"publishRunbook,omitempty"`
	SourceType       string            `json:"sourceType,omitempty"`
	SecurityToken    *armSecurityToken `json:"securityToken,omitempty"`
	Description      string            `json:"description,omitempty"`
	CreationTime     *time.Time        `json:"creationTime,omitempty"`
	LastModifiedTime *time.Time        `json:"lastModifiedTime,omitempty"`
}

type armSyncJob struct {
	Name       string               `json:"name,omitempty"`
	Properties armSyncJobProperties `json:"properties"`
}

type armSyncJobProperties struct {
	SourceControlSyncJobID string     `json:"sourceControlSyncJobId,omitempty"`
	CommitID               *string    `json:"commitId,omitempty"`
	ProvisioningState      string     `json:"provisioningState,omitempty"`
	SyncType               string     `json:"syncType,omitempty"`
	Exception              string     `json:"exception,omitempty"`
	CreationTime           *time.Time `json:"creationTime,omitempty"`
	StartTime              *time.Time `json:"startTime,omitempty"`
	EndTime                *time.Time `json:"endTime,omitempty"`
}

type armSyncJobStream struct {
	ID         string                     `json:"id,omitempty"`
	Properties armSyncJobStreamProperties `json:"properties"`
}

type armSyncJobStreamProperties struct {
	SourceControlSyncJobStreamID string         `json:"sourceControlSyncJobStreamId"`
	Summary                      string         `json:"summary,omitempty"`
	Time                         *time.Time     `json:"time,omitempty"`
	StreamType                   string         `json:"streamType"`
	StreamText                   string         `json:"streamText,omitempty"`
	Value                        map[string]any `json:"value,omitempty"`
}
