package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/mavlink/internal/protocol/frame"
	"github.com/danmuck/mavlink/internal/testutil/testlog"
	"github.com/maxatome/go-testdeep/td"
	sha256 "github.com/minio/sha256-simd"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linkctl.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func workspaceRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found above working directory")
		}
		dir = parent
	}
}

func TestLoadExample(t *testing.T) {
	testlog.Start(t)
	cfg, err := Load(filepath.Join(workspaceRoot(t), "cmd", "linkctl", "ex.config.toml"))
	if err != nil {
		t.Fatalf("load example config: %v", err)
	}

	td.Cmp(t, cfg.Endpoint, "tcp://127.0.0.1:5760")
	td.Cmp(t, cfg.Link.Name, "sitl0")
	td.Cmp(t, cfg.SystemID, uint8(255))
	td.Cmp(t, cfg.ComponentID, uint8(190))
	td.Cmp(t, cfg.HeartbeatInterval, time.Second)
	td.Cmp(t, cfg.Link.ConnectTimeout, 3*time.Second)
	td.Cmp(t, cfg.Link.Backoff.MaxAttempts, 5)
	td.Cmp(t, cfg.LinkID, uint8(1))
	td.CmpFalse(t, cfg.Link.RequireSigned)
	td.Cmp(t, cfg.AllowOrigins, []string{"http://localhost:3000"})
	td.Cmp(t, cfg.NATSURL, "nats://127.0.0.1:4222")
	td.Cmp(t, cfg.Prefix, "gcs")
	td.Cmp(t, cfg.RedisAddr, "127.0.0.1:6379")
	td.Cmp(t, cfg.PeerTTL, 15*time.Second)

	want := frame.SecretKey(sha256.Sum256([]byte("correct horse battery staple")))
	if cfg.Link.SecretKey == nil {
		t.Fatalf("expected signing key from passphrase")
	}
	td.Cmp(t, *cfg.Link.SecretKey, want)
}

func TestLoadKeepsDefaults(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `endpoint = "udp://10.0.0.2:14550"`+"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := Default()
	td.Cmp(t, cfg.Endpoint, "udp://10.0.0.2:14550")
	td.Cmp(t, cfg.Link, def.Link)
	td.Cmp(t, cfg.AdminAddr, def.AdminAddr)
	td.Cmp(t, cfg.Prefix, "mavlink")
	td.CmpNil(t, cfg.Link.SecretKey)
}

func TestLoadSecretKeyHex(t *testing.T) {
	testlog.Start(t)
	hexKey := strings.Repeat("ab", frame.KeyLen)
	cfg, err := Load(writeConfig(t, "secret_key = \""+hexKey+"\"\nrequire_signed = true\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var want frame.SecretKey
	for i := range want {
		want[i] = 0xab
	}
	td.Cmp(t, *cfg.Link.SecretKey, want)
	td.CmpTrue(t, cfg.Link.RequireSigned)
}

func TestLoadRejectsBadValues(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"short key":   `secret_key = "abcd"`,
		"hex":         `secret_key = "zz"`,
		"both keys":   "secret_key = \"" + strings.Repeat("00", frame.KeyLen) + "\"\nsigning_passphrase = \"x\"",
		"system id":   `system_id = 300`,
		"link id":     `link_id = -1`,
		"heartbeat":   `heartbeat = "often"`,
		"peer ttl":    `peer_ttl = "1 minute"`,
		"syntax":      `endpoint = `,
		"connect ttl": `connect_timeout = "soon"`,
		"scheme":      `endpoint = "serial:///dev/ttyUSB0"`,
		"unsigned":    `require_signed = true`,
		"zero ttl":    `peer_ttl = "0s"`,
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body+"\n")); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	testlog.Start(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "load linkctl config") {
		t.Fatalf("expected wrapped load error, got %v", err)
	}
}

func TestTemplateLoadsAsDefaults(t *testing.T) {
	testlog.Start(t)
	data, err := Template()
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	td.CmpFalse(t, strings.Contains(string(data), "secret_key"))

	cfg, err := Load(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	td.Cmp(t, cfg, Default())
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, "name = \"keep\"\n")
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected existing file to be kept")
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	td.Cmp(t, cfg.Link.Name, Default().Link.Name)
}
