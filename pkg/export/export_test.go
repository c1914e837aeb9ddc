package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRendersHeadersAndRows(t *testing.T) {
	out, err := CSV(Dataset{
		Headers: []string{"Code", "Title"},
		Rows: [][]string{
			{"CS101", "Intro to Computing"},
			{"CS102", "Programming, Part 2"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Code,Title\nCS101,Intro to Computing\nCS102,\"Programming, Part 2\"\n", string(out))
}

func TestCSVRequiresHeaders(t *testing.T) {
	_, err := CSV(Dataset{})
	assert.Error(t, err)
}

func TestCSVRejectsRaggedRows(t *testing.T) {
	_, err := CSV(Dataset{
		Headers: []string{"Code", "Title"},
		Rows:    [][]string{{"CS101"}},
	})
	assert.Error(t, err)
}

func TestPDFRendersDocument(t *testing.T) {
	out, err := PDF(Dataset{
		Title:   "Course Catalog",
		Headers: []string{"Code", "Title", "Units"},
		Rows:    [][]string{{"CS101", "Intro to Computing", "3"}},
	}, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
	assert.Equal(t, "%PDF", string(out[:4]))
}
