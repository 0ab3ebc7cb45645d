package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCommandStructure(t *testing.T) {
	assert.NotNil(t, validateCmd)
	assert.Equal(t, "validate", validateCmd.Use)
	assert.NotEmpty(t, validateCmd.Short)
	assert.NotEmpty(t, validateCmd.Long)
	assert.NotNil(t, validateCmd.RunE)
}

func TestValidateCommandDocumentation(t *testing.T) {
	doc := validateCmd.Long
	assert.Contains(t, doc, "Database connectivity")
	assert.Contains(t, doc, "Target table existence")
	assert.Contains(t, doc, "Example:")
}

func TestValidateMissingConfigFile(t *testing.T) {
	origCfgFile := cfgFile
	defer func() { cfgFile = origCfgFile }()

	cfgFile = filepath.Join(t.TempDir(), "missing.yaml")

	err := runValidate(validateCmd, nil)
	assert.Error(t, err)
}
