package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("JP_TEST_SET", "hello")
	t.Setenv("JP_TEST_EMPTY", "")

	tests := []struct {
		name    string
		in      string
		want    string
		missing []string
	}{
		{"plain", `ua = "${JP_TEST_SET}"`, `ua = "hello"`, nil},
		{"empty but set", `ua = "${JP_TEST_EMPTY}"`, `ua = ""`, nil},
		{"unset", `ua = "${JP_TEST_NEVER_SET_4821}"`, `ua = "${JP_TEST_NEVER_SET_4821}"`, []string{"JP_TEST_NEVER_SET_4821"}},
		{"default used", `dir = "${JP_TEST_EMPTY:-/tmp/jp}"`, `dir = "/tmp/jp"`, nil},
		{"default ignored", `dir = "${JP_TEST_SET:-/tmp/jp}"`, `dir = "hello"`, nil},
		{"required present", `x = "${JP_TEST_SET:?needed}"`, `x = "hello"`, nil},
		{
			"required missing",
			`x = "${JP_TEST_EMPTY:? scratch dir is required }"`,
			`x = "${JP_TEST_EMPTY:? scratch dir is required }"`,
			[]string{"JP_TEST_EMPTY: scratch dir is required"},
		},
		{
			"several",
			`${JP_TEST_SET} ${JP_TEST_NEVER_SET_4822} ${JP_TEST_EMPTY:-three}`,
			`hello ${JP_TEST_NEVER_SET_4822} three`,
			[]string{"JP_TEST_NEVER_SET_4822"},
		},
		{"not a reference", `port = 5000 # $HOME`, `port = 5000 # $HOME`, nil},
		{"comment line", `# use ${JP_TEST_NEVER_SET_4823} or ${X:?why}`, `# use ${JP_TEST_NEVER_SET_4823} or ${X:?why}`, nil},
		{"indented comment", "  # ${JP_TEST_SET}", "  # ${JP_TEST_SET}", nil},
		{
			"comment then value",
			"# ${JP_TEST_NEVER_SET_4824}\nua = \"${JP_TEST_SET}\"",
			"# ${JP_TEST_NEVER_SET_4824}\nua = \"hello\"",
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, missing := substituteEnvVars(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.missing, missing)
		})
	}
}
