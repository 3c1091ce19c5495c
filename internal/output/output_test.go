package output_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-cli/internal/api"
	"catalog-cli/internal/output"
)

func sample() output.Result {
	return output.Result{
		Query:    "smith",
		Total:    2,
		Complete: true,
		Records: []api.Character{
			{ID: 2, Name: "Morty Smith", Status: "Alive", Species: "Human", Gender: "Male",
				Origin: api.Place{Name: "unknown"}, Location: api.Place{Name: "Citadel of Ricks"}},
			{ID: 5, Name: "Jerry Smith", Status: "Alive", Species: "Human", Gender: "Male",
				Origin: api.Place{Name: "Earth (Replacement Dimension)"}, Location: api.Place{Name: "Earth (Replacement Dimension)"}},
		},
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{
			format: "json",
			check: func(t *testing.T, out string) {
				t.Helper()
				var got output.Result
				require.NoError(t, json.Unmarshal([]byte(out), &got))
				assert.Equal(t, sample(), got)
			},
		},
		{
			format: "toml",
			check: func(t *testing.T, out string) {
				t.Helper()
				var got output.Result
				require.NoError(t, toml.Unmarshal([]byte(out), &got))
				assert.Equal(t, "smith", got.Query)
				require.Len(t, got.Records, 2)
				assert.Equal(t, "Jerry Smith", got.Records[1].Name)
			},
		},
		{
			format: "csv",
			check: func(t *testing.T, out string) {
				t.Helper()
				assert.Equal(t, "ID,Name,Status,Species,Gender,Origin,Location\n"+
					"2,Morty Smith,Alive,Human,Male,unknown,Citadel of Ricks\n"+
					"5,Jerry Smith,Alive,Human,Male,Earth (Replacement Dimension),Earth (Replacement Dimension)\n", out)
			},
		},
		{
			format: "TEXT",
			check: func(t *testing.T, out string) {
				t.Helper()
				assert.Contains(t, out, "2\tMorty Smith\tAlive - Human\tCitadel of Ricks\n")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, output.Write(&buf, sample(), tt.format))
			tt.check(t, buf.String())
		})
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()
	err := output.Write(&bytes.Buffer{}, sample(), "xml")
	assert.ErrorContains(t, err, "unknown format")

	assert.NoError(t, output.CheckFormat("TOML"))
	assert.Error(t, output.CheckFormat("yaml"))
}

func TestColumn(t *testing.T) {
	t.Parallel()

	values, err := output.Column(sample().Records, "location")
	require.NoError(t, err)
	assert.Equal(t, []string{"Citadel of Ricks", "Earth (Replacement Dimension)"}, values)

	values, err = output.Column(sample().Records, "species")
	require.NoError(t, err)
	assert.Equal(t, []string{"Human"}, values)

	_, err = output.Column(sample().Records, "episode")
	assert.Error(t, err)
}

func TestSaveToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "smith.csv")
	abs, err := output.SaveToFile(path, sample(), "csv")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Jerry Smith")
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "rick_morty", output.SanitizeFilename("rick/morty"))
	assert.Equal(t, "a_b_c", output.SanitizeFilename(" a:b?c. "))
	assert.Equal(t, "characters", output.SanitizeFilename("  "))
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("result", "x.json"), output.ResolvePath("x.json"))
	assert.Equal(t, "result/x.json", output.ResolvePath("result/x.json"))
	assert.Equal(t, "/tmp/x.json", output.ResolvePath("/tmp/x.json"))
	assert.Equal(t, ".txt", output.Extension("text"))
	assert.Equal(t, ".toml", output.Extension("TOML"))
}
