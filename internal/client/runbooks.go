package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/fivetwenty-io/automation-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/automation-client/internal/http"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// RunbooksClient implements automation.RunbooksClient.
type RunbooksClient struct {
	deps *Deps
}

// NewRunbooksClient creates a new runbooks client.
func NewRunbooksClient(deps *Deps) *RunbooksClient {
	return &RunbooksClient{deps: deps}
}

type runbookBody struct {
	Name       string               `json:"name"`
	Location   string               `json:"location,omitempty"`
	Tags       map[string]string    `json:"tags,omitempty"`
	Properties armRunbookProperties `json:"properties"`
}

type jobBody struct {
	Properties armJobProperties `json:"properties"`
}

// Create implements automation.RunbooksClient.Create. An existing runbook is
// only replaced when Overwrite is set.
func (c *RunbooksClient) Create(ctx context.Context, scope automation.Scope, req *automation.CreateRunbookRequest) (*automation.Runbook, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	err = c.deps.validateRequest(req)
	if err != nil {
		return nil, err
	}

	ctx, done := c.deps.begin(ctx, "runbooks.create")
	defer done()

	return c.create(ctx, scope, req)
}

func (c *RunbooksClient) create(ctx context.Context, scope automation.Scope, req *automation.CreateRunbookRequest) (*automation.Runbook, error) {
	_, found, err := tryGet(c.get(ctx, scope, req.Name))
	if err != nil {
		return nil, err
	}

	if found && !req.Overwrite {
		return nil, &automation.AlreadyExistsError{Kind: automation.KindRunbook, Name: req.Name}
	}

	location, err := c.deps.accountLocation(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("creating runbook: %w", err)
	}

	runbookType := req.Type
	if runbookType == "" {
		runbookType = automation.RunbookTypeScript
	}

	body := runbookBody{
		Name:     req.Name,
		Location: location,
		Tags:     req.Tags,
		Properties: armRunbookProperties{
			RunbookType: string(runbookType),
			LogProgress: req.LogProgress,
			LogVerbose:  req.LogVerbose,
			Description: req.Description,
			Draft:       &struct{}{},
		},
	}

	err = c.deps.put(ctx, c.deps.paths.scoped(scope, segmentRunbooks, req.Name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("creating runbook: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindRunbook, automation.ActionCreated, req.Name)

	return c.get(ctx, scope, req.Name)
}

// Get implements automation.RunbooksClient.Get.
func (c *RunbooksClient) Get(ctx context.Context, scope automation.Scope, name string) (*automation.Runbook, error) {
	ctx, done := c.deps.begin(ctx, "runbooks.get")
	defer done()

	return c.get(ctx, scope, name)
}

func (c *RunbooksClient) get(ctx context.Context, scope automation.Scope, name string) (*automation.Runbook, error) {
	var wire armRunbook

	err := c.deps.get(ctx, c.deps.paths.scoped(scope, segmentRunbooks, name), &wire)
	if err != nil {
		return nil, fmt.Errorf("getting runbook: %w", c.deps.translator.Translate(err, automation.KindRunbook, name))
	}

	runbook := c.deps.mapper.Runbook(scope, &wire)

	return &runbook, nil
}

// TryGet implements automation.RunbooksClient.TryGet.
func (c *RunbooksClient) TryGet(ctx context.Context, scope automation.Scope, name string) (*automation.Runbook, bool, error) {
	return tryGet(c.Get(ctx, scope, name))
}

// List implements automation.RunbooksClient.List.
func (c *RunbooksClient) List(ctx context.Context, scope automation.Scope, cursor string) (*automation.Page[automation.Runbook], error) {
	ctx, done := c.deps.begin(ctx, "runbooks.list")
	defer done()

	page, err := listPage(ctx, c.deps, c.deps.paths.scoped(scope, segmentRunbooks), nil, cursor,
		func(wire *armRunbook) automation.Runbook { return c.deps.mapper.Runbook(scope, wire) })
	if err != nil {
		return nil, fmt.Errorf("listing runbooks: %w", c.deps.translator.Translate(err, automation.KindAccount, scope.Account))
	}

	return page, nil
}

// Update implements automation.RunbooksClient.Update.
func (c *RunbooksClient) Update(ctx context.Context, scope automation.Scope, name string, req *automation.UpdateRunbookRequest) (*automation.Runbook, error) {
	if req == nil {
		req = &automation.UpdateRunbookRequest{}
	}

	ctx, done := c.deps.begin(ctx, "runbooks.update")
	defer done()

	existing, err := c.get(ctx, scope, name)
	if err != nil {
		return nil, err
	}

	description := existing.Description
	if req.Description != nil {
		description = *req.Description
	}

	logProgress := existing.LogProgress
	if req.LogProgress != nil {
		logProgress = *req.LogProgress
	}

	logVerbose := existing.LogVerbose
	if req.LogVerbose != nil {
		logVerbose = *req.LogVerbose
	}

	tags := existing.Tags
	if req.Tags != nil {
		tags = req.Tags
	}

	body := runbookBody{
		Name: name,
		Tags: tags,
		Properties: armRunbookProperties{
			Description: description,
			LogProgress: &logProgress,
			LogVerbose:  &logVerbose,
		},
	}

	err = c.deps.patch(ctx, c.deps.paths.scoped(scope, segmentRunbooks, name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("updating runbook: %w", c.deps.translator.Translate(err, automation.KindRunbook, name))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindRunbook, automation.ActionUpdated, name)

	return c.get(ctx, scope, name)
}

// Delete implements automation.RunbooksClient.Delete.
func (c *RunbooksClient) Delete(ctx context.Context, scope automation.Scope, name string) error {
	ctx, done := c.deps.begin(ctx, "runbooks.delete")
	defer done()

	err := c.deps.delete(ctx, c.deps.paths.scoped(scope, segmentRunbooks, name), automation.KindRunbook, name)
	if err != nil {
		return fmt.Errorf("deleting runbook: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindRunbook, automation.ActionDeleted, name)

	return nil
}

// Publish implements automation.RunbooksClient.Publish.
func (c *RunbooksClient) Publish(ctx context.Context, scope automation.Scope, name string) (*automation.Runbook, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	ctx, done := c.deps.begin(ctx, "runbooks.publish")
	defer done()

	return c.publish(ctx, scope, name)
}

func (c *RunbooksClient) publish(ctx context.Context, scope automation.Scope, name string) (*automation.Runbook, error) {
	err := c.deps.post(ctx, c.deps.paths.scoped(scope, segmentRunbooks, name, "publish"), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("publishing runbook: %w", c.deps.translator.Translate(err, automation.KindRunbook, name))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindRunbook, automation.ActionPublished, name)

	return c.get(ctx, scope, name)
}

// GetContent implements automation.RunbooksClient.GetContent.
func (c *RunbooksClient) GetContent(ctx context.Context, scope automation.Scope, name string, slot automation.ContentSlot) (*automation.RunbookContent, error) {
	ctx, done := c.deps.begin(ctx, "runbooks.content")
	defer done()

	runbook, err := c.get(ctx, scope, name)
	if err != nil {
		return nil, err
	}

	return c.content(ctx, scope, runbook, slot)
}

// content reads the slot of runbook. SlotAny prefers published content and
// falls back to the draft.
func (c *RunbooksClient) content(ctx context.Context, scope automation.Scope, runbook *automation.Runbook, slot automation.ContentSlot) (*automation.RunbookContent, error) {
	switch slot {
	case automation.SlotAny:
		for _, candidate := range []automation.ContentSlot{automation.SlotPublished, automation.SlotDraft} {
			content, err := c.slotContent(ctx, scope, runbook, candidate)
			if err == nil {
				return content, nil
			}

			if !automation.IsNotFound(err) {
				return nil, err
			}
		}

		return nil, &automation.NotFoundError{
			Kind:    automation.KindRunbook,
			Name:    runbook.Name,
			Message: fmt.Sprintf("runbook '%s' has neither published nor draft content", runbook.Name),
		}
	case automation.SlotDraft, automation.SlotPublished:
		return c.slotContent(ctx, scope, runbook, slot)
	default:
		return nil, &automation.InvalidArgumentError{
			Argument: "slot",
			Reason:   fmt.Sprintf("unknown content slot '%s'", slot),
		}
	}
}

func (c *RunbooksClient) slotContent(ctx context.Context, scope automation.Scope, runbook *automation.Runbook, slot automation.ContentSlot) (*automation.RunbookContent, error) {
	missing := &automation.NotFoundError{
		Kind:    automation.KindRunbook,
		Name:    runbook.Name,
		Message: fmt.Sprintf("runbook '%s' has no %s content", runbook.Name, strings.ToLower(string(slot))),
	}

	var path string

	switch slot {
	case automation.SlotPublished:
		if !runbook.HasPublished() {
			return nil, missing
		}

		path = c.deps.paths.scoped(scope, segmentRunbooks, runbook.Name, "content")
	default:
		if !runbook.HasDraft() {
			return nil, missing
		}

		path = c.deps.paths.scoped(scope, segmentRunbooks, runbook.Name, "draft", "content")
	}

	text, err := c.deps.getText(ctx, path)
	if err != nil {
		translated := c.deps.translator.Translate(err, automation.KindRunbook, runbook.Name)
		if automation.IsNotFound(translated) {
			return nil, missing
		}

		return nil, fmt.Errorf("getting runbook content: %w", translated)
	}

	if text == "" {
		return nil, missing
	}

	return &automation.RunbookContent{Name: runbook.Name, Slot: slot, Content: text}, nil
}

// SetDraftContent implements automation.RunbooksClient.SetDraftContent.
func (c *RunbooksClient) SetDraftContent(ctx context.Context, scope automation.Scope, name string, content io.Reader) error {
	err := c.deps.validateScope(scope)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return fmt.Errorf("reading runbook content: %w", err)
	}

	ctx, done := c.deps.begin(ctx, "runbooks.draft")
	defer done()

	return c.setDraft(ctx, scope, name, data)
}

func (c *RunbooksClient) setDraft(ctx context.Context, scope automation.Scope, name string, data []byte) error {
	_, err := c.deps.do(ctx, &internalhttp.Request{
		Method:      http.MethodPut,
		Path:        c.deps.paths.scoped(scope, segmentRunbooks, name, "draft", "content"),
		RawBody:     data,
		ContentType: constants.RunbookContentType,
	}, nil)
	if err != nil {
		return fmt.Errorf("uploading runbook draft: %w", c.deps.translator.Translate(err, automation.KindRunbook, name))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindRunbook, automation.ActionUpdated, name)

	return nil
}

// Import implements automation.RunbooksClient.Import. The file is checked
// and read before any request is sent.
func (c *RunbooksClient) Import(ctx context.Context, scope automation.Scope, req *automation.ImportRunbookRequest) (*automation.Runbook, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	err = c.deps.validateRequest(req)
	if err != nil {
		return nil, err
	}

	name, err := importName(req)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, fmt.Errorf("reading runbook file: %w", err)
	}

	ctx, done := c.deps.begin(ctx, "runbooks.import")
	defer done()

	_, err = c.create(ctx, scope, &automation.CreateRunbookRequest{
		Name:        name,
		Type:        req.Type,
		Description: req.Description,
		Tags:        req.Tags,
		LogProgress: req.LogProgress,
		LogVerbose:  req.LogVerbose,
		Overwrite:   req.Overwrite,
	})
	if err != nil {
		return nil, err
	}

	err = c.setDraft(ctx, scope, name, data)
	if err != nil {
		return nil, err
	}

	if req.Published {
		return c.publish(ctx, scope, name)
	}

	return c.get(ctx, scope, name)
}

// importName checks the file extension against the runbook type and returns
// the runbook name.
func importName(req *automation.ImportRunbookRequest) (string, error) {
	ext := filepath.Ext(req.Path)

	switch strings.ToLower(ext) {
	case constants.PowerShellExtension:
	case constants.GraphRunbookExtension:
		if !req.Type.IsGraph() {
			return "", &automation.InvalidArgumentError{
				Argument: "Type",
				Reason:   fmt.Sprintf("runbook type '%s' cannot be imported from a %s file", req.Type, ext),
			}
		}
	case constants.PythonExtension:
		if !req.Type.IsPython() {
			return "", &automation.InvalidArgumentError{
				Argument: "Type",
				Reason:   fmt.Sprintf("runbook type '%s' cannot be imported from a %s file", req.Type, ext),
			}
		}
	default:
		return "", &automation.InvalidArgumentError{
			Argument: "Path",
			Reason:   fmt.Sprintf("unsupported runbook file '%s', expected .ps1, .graphrunbook or .py", req.Path),
		}
	}

	fileName := strings.TrimSuffix(filepath.Base(req.Path), ext)
	if req.Name == "" {
		return fileName, nil
	}

	if req.Type == automation.RunbookTypePowerShellWorkflow && !strings.EqualFold(fileName, req.Name) {
		return "", &automation.InvalidArgumentError{
			Argument: "Name",
			Reason:   fmt.Sprintf("a PowerShell workflow runbook must be named after its file '%s'", fileName),
		}
	}

	return req.Name, nil
}

// Export implements automation.RunbooksClient.Export.
func (c *RunbooksClient) Export(ctx context.Context, scope automation.Scope, name string, req *automation.ExportRunbookRequest) (string, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return "", err
	}

	err = c.deps.validateRequest(req)
	if err != nil {
		return "", err
	}

	ctx, done := c.deps.begin(ctx, "runbooks.export")
	defer done()

	runbook, err := c.get(ctx, scope, name)
	if err != nil {
		return "", err
	}

	target := filepath.Join(req.OutputFolder, runbook.Name+runbook.Type.FileExtension())

	if !req.Overwrite {
		_, statErr := os.Stat(target)
		if statErr == nil {
			return "", &automation.OperationFailedError{
				Op:     "export runbook",
				Reason: fmt.Sprintf("file '%s' already exists", target),
			}
		}
	}

	content, err := c.content(ctx, scope, runbook, req.Slot)
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(req.OutputFolder, constants.ExportDirPerm)
	if err != nil {
		return "", fmt.Errorf("creating output folder: %w", err)
	}

	err = os.WriteFile(target, []byte(content.Content), constants.ExportFilePerm)
	if err != nil {
		return "", fmt.Errorf("writing runbook file: %w", err)
	}

	return target, nil
}

// Start implements automation.RunbooksClient.Start.
func (c *RunbooksClient) Start(ctx context.Context, scope automation.Scope, name string, req *automation.StartRunbookRequest) (*automation.Job, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	if req == nil {
		req = &automation.StartRunbookRequest{}
	}

	ctx, done := c.deps.begin(ctx, "runbooks.start")
	defer done()

	runbook, err := c.get(ctx, scope, name)
	if err != nil {
		return nil, err
	}

	parameters, err := processRunbookParameters(runbook, req.Parameters)
	if err != nil {
		return nil, err
	}

	jobID := uuid.NewString()
	body := jobBody{
		Properties: armJobProperties{
			Runbook:    &armNameRef{Name: runbook.Name},
			Parameters: parameters,
			RunOn:      strings.TrimSpace(req.RunOn),
		},
	}

	var wire armJob

	err = c.deps.put(ctx, c.deps.paths.scoped(scope, segmentJobs, jobID), body, &wire)
	if err != nil {
		return nil, fmt.Errorf("starting runbook: %w", c.deps.translator.Translate(err, automation.KindRunbook, name))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindJob, automation.ActionStarted, jobID)

	job := c.deps.mapper.Job(scope, &wire)
	if job.ID == "" {
		job.ID = jobID
	}

	if job.RunbookName == "" {
		job.RunbookName = runbook.Name
	}

	return &job, nil
}
