package client

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // thumbprints are SHA-1
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// selfSignedDER returns a throwaway certificate in DER form.
func selfSignedDER(t *testing.T) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "automation-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	return der
}

func expectedThumbprint(der []byte) string {
	sum := sha1.Sum(der) //nolint:gosec // thumbprints are SHA-1

	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

func TestReadCertificateFile(t *testing.T) {
	t.Parallel()

	der := selfSignedDER(t)
	dir := t.TempDir()

	derPath := filepath.Join(dir, "server.cer")
	require.NoError(t, os.WriteFile(derPath, der, 0o600))

	pemData := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	pemPath := filepath.Join(dir, "server.pem")
	require.NoError(t, os.WriteFile(pemPath, pemData, 0o600))

	for _, path := range []string{derPath, pemPath} {
		file, err := readCertificateFile(path, "")
		require.NoError(t, err, path)
		assert.Equal(t, expectedThumbprint(der), file.thumbprint, path)
	}

	file, err := readCertificateFile(pemPath, "")
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(pemData), file.base64Value)

	garbage := filepath.Join(dir, "garbage.cer")
	require.NoError(t, os.WriteFile(garbage, []byte("not a certificate"), 0o600))

	_, err = readCertificateFile(garbage, "")
	require.Error(t, err)

	var invalid *automation.InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Path", invalid.Argument)

	_, err = readCertificateFile(filepath.Join(dir, "missing.cer"), "")
	assert.True(t, automation.IsInvalidArgument(err))

	keyOnly := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(keyOnly, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte{1}}), 0o600))

	_, err = readCertificateFile(keyOnly, "")
	require.ErrorIs(t, err, ErrNoCertificateInFile)
}

//nolint:funlen
func TestCertificatesClient_CreateAndUpdate(t *testing.T) {
	t.Parallel()

	der := selfSignedDER(t)
	path := filepath.Join(t.TempDir(), "server.cer")
	require.NoError(t, os.WriteFile(path, der, 0o600))

	certificatePath := accountPath("certificates", "server")

	t.Run("create uploads file and thumbprint", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		fake.createOnPut(certificatePath, map[string]any{
			"name":       "server",
			"properties": map[string]any{"thumbprint": expectedThumbprint(der), "isExportable": true},
		})
		client := fake.client(nil)

		certificate, err := client.Certificates().Create(context.Background(), testScope, &automation.CreateCertificateRequest{
			Name:       "server",
			Path:       path,
			Exportable: true,
		})
		require.NoError(t, err)
		assert.Equal(t, expectedThumbprint(der), certificate.Thumbprint)

		properties := fake.requests(http.MethodPut, certificatePath)[0].decode(t)["properties"].(map[string]any)
		assert.Equal(t, base64.StdEncoding.EncodeToString(der), properties["base64Value"])
		assert.Equal(t, expectedThumbprint(der), properties["thumbprint"])
		assert.Equal(t, true, properties["isExportable"])
	})

	t.Run("unreadable file fails before any request", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		client := fake.client(nil)

		_, err := client.Certificates().Create(context.Background(), testScope, &automation.CreateCertificateRequest{
			Name: "server",
			Path: filepath.Join(t.TempDir(), "nope.pfx"),
		})
		require.Error(t, err)
		assert.True(t, automation.IsInvalidArgument(err))
		assert.Empty(t, fake.all())
	})

	t.Run("update without file patches description", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		fake.reply(http.MethodGet, certificatePath, http.StatusOK, map[string]any{
			"name":       "server",
			"properties": map[string]any{"description": "old", "isExportable": false},
		})
		fake.reply(http.MethodPatch, certificatePath, http.StatusOK, nil)
		client := fake.client(nil)

		description := "new"

		_, err := client.Certificates().Update(context.Background(), testScope, "server", &automation.UpdateCertificateRequest{
			Description: &description,
		})
		require.NoError(t, err)

		properties := fake.requests(http.MethodPatch, certificatePath)[0].decode(t)["properties"].(map[string]any)
		assert.Equal(t, map[string]any{"description": "new"}, properties)
		assert.Empty(t, fake.requests(http.MethodPut, certificatePath))
	})

	t.Run("update with file re-uploads", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		fake.reply(http.MethodGet, certificatePath, http.StatusOK, map[string]any{
			"name":       "server",
			"properties": map[string]any{"description": "old", "isExportable": true},
		})
		fake.reply(http.MethodPut, certificatePath, http.StatusOK, nil)
		client := fake.client(nil)

		_, err := client.Certificates().Update(context.Background(), testScope, "server", &automation.UpdateCertificateRequest{Path: path})
		require.NoError(t, err)

		properties := fake.requests(http.MethodPut, certificatePath)[0].decode(t)["properties"].(map[string]any)
		assert.Equal(t, "old", properties["description"])
		assert.Equal(t, true, properties["isExportable"])
	})

	t.Run("exportable without file", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		client := fake.client(nil)

		exportable := true

		_, err := client.Certificates().Update(context.Background(), testScope, "server", &automation.UpdateCertificateRequest{
			Exportable: &exportable,
		})
		require.Error(t, err)
		assert.True(t, automation.IsInvalidArgument(err))
		assert.Empty(t, fake.all())
	})
}
