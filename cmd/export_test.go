package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportExported(t *testing.T) {
	testCases := []struct {
		name  string
		files []string
		want  string
	}{
		{
			name:  "written files",
			files: []string{"charts/commits-per-repo.svg", "charts/prs-per-repo.svg"},
			want:  "charts/commits-per-repo.svg\ncharts/prs-per-repo.svg\n",
		},
		{
			name:  "no repositories",
			files: nil,
			want:  "no repositories found for octocat; no charts written\n",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, reportExported(&buf, "octocat", tc.files))
			assert.Equal(t, tc.want, buf.String())
		})
	}
}
