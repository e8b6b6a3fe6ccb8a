package cmd

import (
	"bytes"
	"testing"

	"github.com/jmylchreest/yasem/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteProfiles(t *testing.T) {
	var buf bytes.Buffer
	err := writeProfiles(&buf, []*models.Profile{
		{ID: "p1", Name: "Living room", ClassID: "mag", Submodel: "MAG254", Portal: "http://portal.example.test/c/"},
	})
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "FAMILY")
	assert.Contains(t, string(lines[1]), "Living room")
	assert.Contains(t, string(lines[1]), "MAG254")
	assert.Contains(t, string(lines[1]), "http://portal.example.test/c/")
}
