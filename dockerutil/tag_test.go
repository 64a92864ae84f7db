package dockerutil

import (
	"testing"

	"github.com/bundlekit/bundlekit/bundle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTag(t *testing.T) {
	assert.NoError(t, ValidateTag("irisclassifier:20210618124154_b42f09"))
	assert.NoError(t, ValidateTag("123456789012.dkr.ecr.us-west-2.amazonaws.com/irisclassifier:latest"))
	assert.Error(t, ValidateTag("IrisClassifier:1")) // repository must be lower case
	assert.Error(t, ValidateTag("irisclassifier:one two"))
}

func TestDefaultImageTag(t *testing.T) {
	tag := DefaultImageTag(bundle.Tag{
		Name:    "IrisClassifier",
		Version: "20210618124154_B42F09",
	})
	assert.Equal(t, "irisclassifier:20210618124154_b42f09", tag)
	assert.NoError(t, ValidateTag(tag))
}

func TestParseBuildArgs(t *testing.T) {
	args, err := ParseBuildArgs([]string{"PYTHON_VERSION=3.11", "EXTRA=a=b"})
	require.NoError(t, err)
	require.Len(t, args, 2)
	assert.Equal(t, "3.11", *args["PYTHON_VERSION"])
	assert.Equal(t, "a=b", *args["EXTRA"])
	assert.NotSame(t, args["PYTHON_VERSION"], args["EXTRA"]) // each arg gets its own copy

	_, err = ParseBuildArgs([]string{"MISSING"})
	assert.Error(t, err)
	_, err = ParseBuildArgs([]string{"=value"})
	assert.Error(t, err)
}

func TestIgnored(t *testing.T) {
	patterns := []string{".git", "__pycache__", "*.pyc", "*.tar.gz", "# comment", ""}
	assert.True(t, ignored(".git", patterns))
	assert.True(t, ignored("pkg/__pycache__", patterns))
	assert.True(t, ignored("app.pyc", patterns))
	assert.True(t, ignored("dist/bundle-1.tar.gz", patterns))
	assert.False(t, ignored("app.py", patterns))
	assert.False(t, ignored("Dockerfile", patterns))
}
