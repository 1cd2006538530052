package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ares-mcp/ares-mcp-server/internal/config"
	"github.com/ares-mcp/ares-mcp-server/internal/domain/registry"
	"github.com/ares-mcp/ares-mcp-server/internal/domain/tool"
)

func TestCommands_Registered(t *testing.T) {
	want := []string{"serve", "tools", "registries", "validate-ico", "stop", "version"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%s command not registered with rootCmd", name)
		}
	}
}

func TestServeCmd_FlagDefaults(t *testing.T) {
	transport, err := serveCmd.Flags().GetString("transport")
	if err != nil {
		t.Fatalf("failed to get transport flag: %v", err)
	}
	if transport != "" {
		t.Errorf("transport default = %q, want empty (config decides)", transport)
	}
	dev, err := serveCmd.Flags().GetBool("dev")
	if err != nil {
		t.Fatalf("failed to get dev flag: %v", err)
	}
	if dev {
		t.Error("dev default = true, want false")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPrintTools_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := printTools(&buf, "text"); err != nil {
		t.Fatalf("printTools() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(tool.Catalog())+1 {
		t.Fatalf("got %d lines, want header + %d tools", len(lines), len(tool.Catalog()))
	}
	if !strings.HasPrefix(lines[0], "NAME") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(buf.String(), string(tool.ValidateIdentifier)) {
		t.Errorf("output missing %s", tool.ValidateIdentifier)
	}
}

func TestPrintTools_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printTools(&buf, "json"); err != nil {
		t.Fatalf("printTools() error: %v", err)
	}

	var listed []struct {
		Name        string         `json:"name"`
		InputSchema map[string]any `json:"inputSchema"`
	}
	if err := json.Unmarshal(buf.Bytes(), &listed); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(listed) != len(tool.Catalog()) {
		t.Fatalf("listed %d tools, want %d", len(listed), len(tool.Catalog()))
	}
	for _, l := range listed {
		if l.InputSchema["type"] != "object" {
			t.Errorf("%s inputSchema.type = %v, want object", l.Name, l.InputSchema["type"])
		}
	}
}

func TestPrintTools_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := printTools(&buf, "yaml"); err != nil {
		t.Fatalf("printTools() error: %v", err)
	}

	var listed []map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &listed); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if len(listed) != len(tool.Catalog()) {
		t.Fatalf("listed %d tools, want %d", len(listed), len(tool.Catalog()))
	}
	if listed[0]["kind"] == nil {
		t.Error("yaml output should include tool kind")
	}
}

func TestPrintTools_UnknownFormat(t *testing.T) {
	if err := printTools(io.Discard, "xml"); err == nil {
		t.Error("printTools(xml) expected error, got nil")
	}
}

func TestPrintRegistries(t *testing.T) {
	var text bytes.Buffer
	if err := printRegistries(&text, "text"); err != nil {
		t.Fatalf("printRegistries(text) error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(text.String()), "\n")
	if len(lines) != len(registry.Registries())+1 {
		t.Errorf("got %d lines, want header + %d registers", len(lines), len(registry.Registries()))
	}
	if !strings.Contains(text.String(), "Centrální evidence úpadců") {
		t.Error("text output missing ceu name")
	}

	var js bytes.Buffer
	if err := printRegistries(&js, "json"); err != nil {
		t.Fatalf("printRegistries(json) error: %v", err)
	}
	var listed []registry.Descriptor
	if err := json.Unmarshal(js.Bytes(), &listed); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(listed) != len(registry.Registries()) || listed[0].Code != "vr" {
		t.Errorf("listed = %+v, want the register table starting with vr", listed)
	}

	if err := printRegistries(io.Discard, "yaml"); err == nil {
		t.Error("printRegistries(yaml) expected error, got nil")
	}
}

func TestValidateOffline(t *testing.T) {
	tests := []struct {
		ico       string
		wantValid bool
		wantIn    string
	}{
		{"27074358", true, `"validFormat": true`},
		{"25596641", true, `"validFormat": true`},
		{"27074359", false, "check digit"},
		{"1234", false, "exactly 8 digits"},
	}
	for _, tt := range tests {
		t.Run(tt.ico, func(t *testing.T) {
			var buf bytes.Buffer
			err := validateOffline(&buf, tt.ico)
			if (err == nil) != tt.wantValid {
				t.Errorf("validateOffline(%s) error = %v, wantValid %v", tt.ico, err, tt.wantValid)
			}
			if !strings.Contains(buf.String(), tt.wantIn) {
				t.Errorf("output = %s, want to contain %q", buf.String(), tt.wantIn)
			}
			if strings.Contains(buf.String(), "existsInRegistry") {
				t.Error("offline output should not claim registry existence")
			}
		})
	}
}

func TestBuildComponents_ChecksIdentifierOnline(t *testing.T) {
	registrySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/ekonomicke-subjekty/27074358") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ico":"27074358","obchodniJmeno":"Asseco Central Europe, a.s."}`))
	}))
	defer registrySrv.Close()

	cfg := &config.Config{}
	cfg.SetDefaults("test")
	cfg.Registry.BaseURL = registrySrv.URL
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	app := buildComponents(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	got := app.service.CheckIdentifier(context.Background(), "27074358")
	if !got.Valid || !got.ExistsInRegistry {
		t.Errorf("CheckIdentifier(27074358) = %+v, want valid and existing", got)
	}

	got = app.service.CheckIdentifier(context.Background(), "25596641")
	if got.Valid || got.ExistsInRegistry || !got.ValidFormat {
		t.Errorf("CheckIdentifier(25596641) = %+v, want valid format but missing", got)
	}

	if app.limiter.Size() != 2 {
		t.Errorf("limiter.Size() = %d, want 2 recorded requests", app.limiter.Size())
	}
}

func TestPIDFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "server.pid")
	if err := writePIDFile(path); err != nil {
		t.Fatalf("writePIDFile() error: %v", err)
	}
	if pid := readPIDFile(path); pid <= 0 {
		t.Errorf("readPIDFile() = %d, want current pid", pid)
	}
	if pid := readPIDFile(filepath.Join(t.TempDir(), "missing.pid")); pid != 0 {
		t.Errorf("readPIDFile(missing) = %d, want 0", pid)
	}
}

func TestVersionCmd_Output(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)

	if !strings.HasPrefix(buf.String(), "ares-mcp "+Version) {
		t.Errorf("version output = %q", buf.String())
	}
}
