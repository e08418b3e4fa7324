package specfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/specgrowth/specgrowth/pkg/specfile"
)

const specDocument = `description: "retryable reads"
schemaVersion: "1.4"
tests:
  - description: "find succeeds"
    operations: []
`

func TestIsSpecContent_AllMarkersPresent(t *testing.T) {
	t.Parallel()

	assert.True(t, specfile.IsSpecContent([]byte(specDocument)))
}

func TestIsSpecContent_MissingSchemaVersion(t *testing.T) {
	t.Parallel()

	doc := "description: d\ntests:\n  - {}\n"
	assert.False(t, specfile.IsSpecContent([]byte(doc)))
}

func TestIsSpecContent_MissingTests(t *testing.T) {
	t.Parallel()

	doc := "description: d\nschemaVersion: \"1.0\"\n"
	assert.False(t, specfile.IsSpecContent([]byte(doc)))
}

func TestIsSpecContent_MissingDescription(t *testing.T) {
	t.Parallel()

	doc := "schemaVersion: \"1.0\"\ntests: []\n"
	assert.False(t, specfile.IsSpecContent([]byte(doc)))
}

func TestIsSpecContent_MalformedVersion(t *testing.T) {
	t.Parallel()

	doc := "description: d\nschemaVersion: latest\ntests: []\n"
	assert.False(t, specfile.IsSpecContent([]byte(doc)))

	doc = "description: d\nschemaVersion: \"1\"\ntests: []\n"
	assert.False(t, specfile.IsSpecContent([]byte(doc)))
}

func TestIsSpecContent_ThreePartVersion(t *testing.T) {
	t.Parallel()

	doc := "description: d\nschemaVersion: 1.22.3\ntests: []\n"
	assert.True(t, specfile.IsSpecContent([]byte(doc)))
}

func TestIsSpecContent_NestedFieldsDoNotQualify(t *testing.T) {
	t.Parallel()

	// Indented fields are not root-level markers.
	doc := "outer:\n  description: d\n  schemaVersion: \"1.0\"\n  tests: []\n"
	assert.False(t, specfile.IsSpecContent([]byte(doc)))
}

func TestIsSpecContent_SurvivesMalformedYAML(t *testing.T) {
	t.Parallel()

	// Broken indentation that a strict parser would reject.
	doc := "description: d\nschemaVersion: \"1.0\"\ntests:\n   - bad\n  worse: [unclosed\n"
	assert.True(t, specfile.IsSpecContent([]byte(doc)))
}

func TestSchemaVersion_Extraction(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.4", specfile.SchemaVersion([]byte(specDocument)))
	assert.Equal(t, "1.22.3", specfile.SchemaVersion([]byte("schemaVersion: 1.22.3\n")))
	assert.Equal(t, "", specfile.SchemaVersion([]byte("schemaVersion: latest\n")))
	assert.Equal(t, "", specfile.SchemaVersion([]byte("nope: 1.0\n")))
}

func TestEligible_Extensions(t *testing.T) {
	t.Parallel()

	c := specfile.DefaultClassifier()

	assert.True(t, c.Eligible("crud/find.yml"))
	assert.True(t, c.Eligible("crud/find.yaml"))
	assert.True(t, c.Eligible("FIND.YML"))
	assert.False(t, c.Eligible("crud/find.json"))
	assert.False(t, c.Eligible("README.md"))
}

func TestEligible_SkipDirs(t *testing.T) {
	t.Parallel()

	c := specfile.DefaultClassifier()

	assert.False(t, c.Eligible("source/unified-test-format/tests/valid-pass/poc.yml"))
	assert.True(t, c.Eligible("source/crud/tests/unified/find.yml"))
}

func TestEligible_CustomSkipDirs(t *testing.T) {
	t.Parallel()

	c := specfile.NewClassifier(nil, []string{"vendor"})

	assert.False(t, c.Eligible("vendor/fixture.yml"))
	assert.True(t, c.Eligible("unified-test-format/fixture.yml"))
}

func TestClassify(t *testing.T) {
	t.Parallel()

	c := specfile.DefaultClassifier()

	assert.True(t, c.Classify("crud/find.yml", []byte(specDocument)))
	assert.False(t, c.Classify("crud/find.txt", []byte(specDocument)))
	assert.False(t, c.Classify("crud/find.yml", []byte("just: yaml\n")))
}
