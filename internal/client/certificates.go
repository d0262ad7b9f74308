package client

import (
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // certificate thumbprints are SHA-1 by definition
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pkcs12"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// Static errors for err113 compliance.
var (
	ErrNoCertificateInFile = errors.New("no certificate found in file")
)

// CertificatesClient implements automation.CertificatesClient.
type CertificatesClient struct {
	deps *Deps
}

// NewCertificatesClient creates a new certificates client.
func NewCertificatesClient(deps *Deps) *CertificatesClient {
	return &CertificatesClient{deps: deps}
}

type certificateBody struct {
	Name       string                   `json:"name"`
	Properties armCertificateProperties `json:"properties"`
}

// certificateFile is a certificate read from disk.
type certificateFile struct {
	base64Value string
	thumbprint  string
}

// Create implements automation.CertificatesClient.Create.
func (c *CertificatesClient) Create(ctx context.Context, scope automation.Scope, req *automation.CreateCertificateRequest) (*automation.Certificate, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	err = c.deps.validateRequest(req)
	if err != nil {
		return nil, err
	}

	file, err := readCertificateFile(req.Path, req.Password)
	if err != nil {
		return nil, err
	}

	ctx, done := c.deps.begin(ctx, "certificates.create")
	defer done()

	_, found, err := tryGet(c.get(ctx, scope, req.Name))
	if err != nil {
		return nil, err
	}

	if found {
		return nil, &automation.AlreadyExistsError{Kind: automation.KindCertificate, Name: req.Name}
	}

	err = c.upload(ctx, scope, req.Name, file, req.Description, req.Exportable)
	if err != nil {
		return nil, fmt.Errorf("creating certificate: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindCertificate, automation.ActionCreated, req.Name)

	return c.get(ctx, scope, req.Name)
}

func (c *CertificatesClient) upload(ctx context.Context, scope automation.Scope, name string, file *certificateFile, description string, exportable bool) error {
	body := certificateBody{
		Name: name,
		Properties: armCertificateProperties{
			Base64Value:  file.base64Value,
			Thumbprint:   file.thumbprint,
			IsExportable: &exportable,
			Description:  &description,
		},
	}

	return c.deps.put(ctx, c.deps.paths.scoped(scope, segmentCertificates, name), body, nil)
}

// Get implements automation.CertificatesClient.Get.
func (c *CertificatesClient) Get(ctx context.Context, scope automation.Scope, name string) (*automation.Certificate, error) {
	ctx, done := c.deps.begin(ctx, "certificates.get")
	defer done()

	return c.get(ctx, scope, name)
}

func (c *CertificatesClient) get(ctx context.Context, scope automation.Scope, name string) (*automation.Certificate, error) {
	var wire armCertificate

	err := c.deps.get(ctx, c.deps.paths.scoped(scope, segmentCertificates, name), &wire)
	if err != nil {
		return nil, fmt.Errorf("getting certificate: %w", c.deps.translator.Translate(err, automation.KindCertificate, name))
	}

	certificate := c.deps.mapper.Certificate(scope, &wire)

	return &certificate, nil
}

// TryGet implements automation.CertificatesClient.TryGet.
func (c *CertificatesClient) TryGet(ctx context.Context, scope automation.Scope, name string) (*automation.Certificate, bool, error) {
	return tryGet(c.Get(ctx, scope, name))
}

// List implements automation.CertificatesClient.List.
func (c *CertificatesClient) List(ctx context.Context, scope automation.Scope, cursor string) (*automation.Page[automation.Certificate], error) {
	ctx, done := c.deps.begin(ctx, "certificates.list")
	defer done()

	page, err := listPage(ctx, c.deps, c.deps.paths.scoped(scope, segmentCertificates), nil, cursor,
		func(wire *armCertificate) automation.Certificate { return c.deps.mapper.Certificate(scope, wire) })
	if err != nil {
		return nil, fmt.Errorf("listing certificates: %w", c.deps.translator.Translate(err, automation.KindAccount, scope.Account))
	}

	return page, nil
}

// Update implements automation.CertificatesClient.Update. A new Path
// replaces the certificate; otherwise only the description changes.
func (c *CertificatesClient) Update(ctx context.Context, scope automation.Scope, name string, req *automation.UpdateCertificateRequest) (*automation.Certificate, error) {
	if req == nil {
		req = &automation.UpdateCertificateRequest{}
	}

	if req.Path == "" && (req.Password != nil || req.Exportable != nil) {
		return nil, &automation.InvalidArgumentError{
			Argument: "Path",
			Reason:   "password and exportable can only be changed together with a new certificate file",
		}
	}

	var file *certificateFile

	if req.Path != "" {
		password := ""
		if req.Password != nil {
			password = *req.Password
		}

		var err error

		file, err = readCertificateFile(req.Path, password)
		if err != nil {
			return nil, err
		}
	}

	ctx, done := c.deps.begin(ctx, "certificates.update")
	defer done()

	existing, err := c.get(ctx, scope, name)
	if err != nil {
		return nil, err
	}

	description := existing.Description
	if req.Description != nil {
		description = *req.Description
	}

	if file != nil {
		exportable := existing.IsExportable
		if req.Exportable != nil {
			exportable = *req.Exportable
		}

		err = c.upload(ctx, scope, name, file, description, exportable)
	} else {
		err = c.deps.patch(ctx, c.deps.paths.scoped(scope, segmentCertificates, name), certificateBody{
			Name:       name,
			Properties: armCertificateProperties{Description: &description},
		}, nil)
	}

	if err != nil {
		return nil, fmt.Errorf("updating certificate: %w", c.deps.translator.Translate(err, automation.KindCertificate, name))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindCertificate, automation.ActionUpdated, name)

	return c.get(ctx, scope, name)
}

// Delete implements automation.CertificatesClient.Delete.
func (c *CertificatesClient) Delete(ctx context.Context, scope automation.Scope, name string) error {
	ctx, done := c.deps.begin(ctx, "certificates.delete")
	defer done()

	err := c.deps.delete(ctx, c.deps.paths.scoped(scope, segmentCertificates, name), automation.KindCertificate, name)
	if err != nil {
		return fmt.Errorf("deleting certificate: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindCertificate, automation.ActionDeleted, name)

	return nil
}

// readCertificateFile loads a PKCS#12 (.pfx/.p12) or DER/PEM certificate and
// computes its thumbprint. The upload carries the file as read.
func readCertificateFile(path, password string) (*certificateFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &automation.InvalidArgumentError{Argument: "Path", Reason: err.Error()}
	}

	var raw []byte

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pfx", ".p12":
		raw, err = pkcs12Leaf(data, password)
	default:
		raw, err = x509Leaf(data)
	}

	if err != nil {
		return nil, &automation.InvalidArgumentError{
			Argument: "Path",
			Reason:   fmt.Sprintf("reading certificate '%s': %v", path, err),
		}
	}

	return &certificateFile{
		base64Value: base64.StdEncoding.EncodeToString(data),
		thumbprint:  thumbprint(raw),
	}, nil
}

// pkcs12Leaf returns the DER bytes of the first certificate in a PKCS#12
// bundle. Bundles carrying a chain are walked through their PEM form.
func pkcs12Leaf(data []byte, password string) ([]byte, error) {
	_, cert, err := pkcs12.Decode(data, password)
	if err == nil {
		return cert.Raw, nil
	}

	blocks, pemErr := pkcs12.ToPEM(data, password)
	if pemErr != nil {
		return nil, fmt.Errorf("decoding PKCS#12: %w", err)
	}

	for _, block := range blocks {
		if block.Type == "CERTIFICATE" {
			return block.Bytes, nil
		}
	}

	return nil, ErrNoCertificateInFile
}

// x509Leaf returns the DER bytes of a DER or PEM encoded certificate.
func x509Leaf(data []byte) ([]byte, error) {
	if bytes.Contains(data, []byte("-----BEGIN")) {
		rest := data

		for {
			var block *pem.Block

			block, rest = pem.Decode(rest)
			if block == nil {
				return nil, ErrNoCertificateInFile
			}

			if block.Type == "CERTIFICATE" {
				data = block.Bytes

				break
			}
		}
	}

	cert, err := x509.ParseCertificate(data)
	if err != nil {
		return nil, fmt.Errorf("parsing certificate: %w", err)
	}

	return cert.Raw, nil
}

// thumbprint is the uppercase hex SHA-1 of the certificate's DER encoding.
func thumbprint(raw []byte) string {
	sum := sha1.Sum(raw) //nolint:gosec // see import

	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
