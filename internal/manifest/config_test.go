package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	apperrors "modelfetch/internal/errors"
)

func TestBaseConfig(t *testing.T) {
	c := qt.New(t)

	cfg, err := BaseConfig()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Validate(), qt.IsNil)
	c.Assert(cfg.Timeout, qt.Equals, time.Duration(0))
	c.Assert(cfg.Names(), qt.DeepEquals, []string{"whisper-tiny-en"})

	m, ok := cfg.Model("whisper-tiny-en")
	c.Assert(ok, qt.IsTrue)
	c.Assert(m.SourceRoot, qt.Equals, "https://huggingface.co/Xenova/whisper-tiny.en/resolve/main/")
	c.Assert(m.DestinationRoot, qt.Equals, "public/models/whisper-tiny-en")
	c.Assert(m.Files, qt.DeepEquals, []string{
		"config.json",
		"generation_config.json",
		"tokenizer_config.json",
		"tokenizer.json",
		"preprocessor_config.json",
		"onnx/encoder_model_quantized.onnx",
		"onnx/decoder_model_merged_quantized.onnx",
	})
}

func TestParseConfig(t *testing.T) {
	c := qt.New(t)

	cfg, err := ParseConfig([]byte(`
timeout: 90s
models:
  - name: tiny
    source_root: http://localhost/files/
    destination_root: out
    files: [a.json, nested/b.bin]
`))
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Timeout, qt.Equals, 90*time.Second)
	c.Assert(cfg.Models, qt.DeepEquals, []Model{{
		Name:            "tiny",
		SourceRoot:      "http://localhost/files/",
		DestinationRoot: "out",
		Files:           []string{"a.json", "nested/b.bin"},
	}})

	empty, err := ParseConfig(nil)
	c.Assert(err, qt.IsNil)
	c.Assert(empty.Models, qt.HasLen, 0)

	_, err = ParseConfig([]byte("models: [unterminated"))
	c.Assert(err, qt.ErrorMatches, "failed to parse manifest configuration: .*")
}

func TestLoadConfig(t *testing.T) {
	c := qt.New(t)

	path := filepath.Join(t.TempDir(), "models.yaml")
	c.Assert(os.WriteFile(path, []byte("models:\n  - name: x\n"), 0o644), qt.IsNil)

	cfg, err := LoadConfig(path)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Names(), qt.DeepEquals, []string{"x"})

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	c.Assert(err, qt.ErrorMatches, "failed to read config file: .*")
}

func TestMergeConfigs(t *testing.T) {
	c := qt.New(t)

	base := &Config{Models: []Model{
		{Name: "a", SourceRoot: "http://a/", DestinationRoot: "a", Files: []string{"1"}},
		{Name: "b", SourceRoot: "http://b/", DestinationRoot: "b", Files: []string{"2"}},
	}}
	override := &Config{
		Timeout: time.Minute,
		Models: []Model{
			{Name: " b ", SourceRoot: "http://b2/", DestinationRoot: "b2", Files: []string{"3"}},
			{Name: "c", SourceRoot: "http://c/", DestinationRoot: "c", Files: []string{"4"}},
			{Name: ""},
		},
	}

	merged, err := MergeConfigs(base, nil, override)
	c.Assert(err, qt.IsNil)
	c.Assert(merged.Timeout, qt.Equals, time.Minute)
	c.Assert(merged.Names(), qt.DeepEquals, []string{"a", "b", "c"})

	b, _ := merged.Model("b")
	c.Assert(b.SourceRoot, qt.Equals, "http://b2/")

	merged.Models[0].Files[0] = "changed"
	c.Assert(base.Models[0].Files[0], qt.Equals, "1")

	_, err = MergeConfigs()
	c.Assert(err, qt.ErrorMatches, "no configurations provided")
}

func TestMergeConfigsTimeoutOverride(t *testing.T) {
	c := qt.New(t)

	withTimeout, err := ParseConfig([]byte("timeout: 30s\n"))
	c.Assert(err, qt.IsNil)
	cleared, err := ParseConfig([]byte("timeout: 0s\n"))
	c.Assert(err, qt.IsNil)
	silent, err := ParseConfig([]byte("models: []\n"))
	c.Assert(err, qt.IsNil)

	merged, err := MergeConfigs(withTimeout, cleared)
	c.Assert(err, qt.IsNil)
	c.Assert(merged.Timeout, qt.Equals, time.Duration(0))

	merged, err = MergeConfigs(withTimeout, silent)
	c.Assert(err, qt.IsNil)
	c.Assert(merged.Timeout, qt.Equals, 30*time.Second)

	merged, err = MergeConfigs(withTimeout, cleared, &Config{Timeout: time.Minute})
	c.Assert(err, qt.IsNil)
	c.Assert(merged.Timeout, qt.Equals, time.Minute)
}

func TestValidate(t *testing.T) {
	valid := Model{Name: "m", SourceRoot: "http://h/", DestinationRoot: "d", Files: []string{"f"}}

	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{"nil", nil, ".*manifest configuration is nil"},
		{"no models", &Config{}, ".*manifest has no models"},
		{"negative timeout", &Config{Timeout: -time.Second, Models: []Model{valid}}, ".*timeout must not be negative"},
		{"missing name", &Config{Models: []Model{{SourceRoot: "x", DestinationRoot: "y", Files: []string{"f"}}}}, ".*model 0 has no name"},
		{"duplicate", &Config{Models: []Model{valid, valid}}, ".*duplicate model name"},
		{"no source", &Config{Models: []Model{{Name: "m", DestinationRoot: "d", Files: []string{"f"}}}}, ".*no source_root"},
		{"no destination", &Config{Models: []Model{{Name: "m", SourceRoot: "s", Files: []string{"f"}}}}, ".*no destination_root"},
		{"no files", &Config{Models: []Model{{Name: "m", SourceRoot: "s", DestinationRoot: "d"}}}, ".*model has no files"},
		{"empty file", &Config{Models: []Model{{Name: "m", SourceRoot: "s", DestinationRoot: "d", Files: []string{"a", ""}}}}, ".*empty file path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			err := tt.cfg.Validate()
			c.Assert(err, qt.ErrorMatches, tt.want)

			appErr, ok := apperrors.As(err)
			c.Assert(ok, qt.IsTrue)
			c.Assert(appErr.Category, qt.Equals, apperrors.CategoryConfig)
			c.Assert(appErr.Code, qt.Equals, apperrors.CodeConfigInvalid)
		})
	}

	qt.New(t).Assert((&Config{Models: []Model{valid}}).Validate(), qt.IsNil)
}
