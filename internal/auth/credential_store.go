// Package auth persists session credentials on the client device.
package auth

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

const credentialsFile = "credentials.json"

//go:embed credentials.schema.json
var credentialsSchema []byte

// FileStore implements sdk.CredentialStore with a JSON file under the
// given directory. Saves go through a temp file and rename, so the
// token and identity land together or not at all; loads validate the
// document against an embedded schema and report anything malformed as
// absent rather than failing.
type FileStore struct {
	path   string
	schema *jsonschema.Schema
}

var _ sdk.CredentialStore = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create credentials directory: %w", err)
	}
	schema, err := compileCredentialsSchema()
	if err != nil {
		return nil, err
	}
	return &FileStore{
		path:   filepath.Join(dir, credentialsFile),
		schema: schema,
	}, nil
}

// Save writes the credentials atomically: the record becomes visible
// only once the rename lands, so a reader never observes a token
// without its identity.
func (s *FileStore) Save(creds *sdk.Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), credentialsFile+".*")
	if err != nil {
		return fmt.Errorf("create temp credentials file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("flush credentials: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("restrict credentials permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit credentials: %w", err)
	}
	return nil
}

// Load returns the stored credentials, or (nil, nil) when there are
// none. A record that fails to parse or fails schema validation is
// treated as absent: a half-written or corrupted session must never
// wedge startup.
func (s *FileStore) Load() (*sdk.Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, nil
	}
	if err := s.schema.Validate(instance); err != nil {
		return nil, nil
	}

	var creds sdk.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, nil
	}
	return &creds, nil
}

// Clear removes the stored credentials. Clearing an empty store is a
// no-op.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

func compileCredentialsSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(credentialsSchema))
	if err != nil {
		return nil, fmt.Errorf("parse embedded credentials schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(credentialsFile, doc); err != nil {
		return nil, fmt.Errorf("register credentials schema: %w", err)
	}
	schema, err := compiler.Compile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("compile credentials schema: %w", err)
	}
	return schema, nil
}
