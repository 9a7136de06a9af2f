package e2e_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/nexus/internal/api"
	"github.com/mcoot/nexus/internal/cli"
	"github.com/mcoot/nexus/internal/factory"
	"github.com/mcoot/nexus/internal/testutil"
	"github.com/mcoot/nexus/internal/web"
)

// cliRunner executes the CLI in-process against a server
type cliRunner struct {
	serverURL string
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(fullArgs)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

// startTestServer serves the API and web routers over a test app
func startTestServer(t *testing.T) (*cliRunner, *factory.TestApp) {
	t.Helper()

	app := factory.NewTestApp()
	logger := testutil.NopLogger()

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		IdentityService: app.Identity,
		StudioService:   app.Studio,
		AdminService:    app.Admin,
		BillingService:  app.Billing,
		SettingsService: app.Settings,
		Generator:       app.Generator,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:          logger,
		IdentityService: app.Identity,
		StudioService:   app.Studio,
		AdminService:    app.Admin,
		BillingService:  app.Billing,
		SettingsService: app.Settings,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		_ = app.Close()
	})

	return &cliRunner{serverURL: server.URL}, app
}

// Response types for JSON parsing
type sessionResponse struct {
	User struct {
		ID        string `json:"id"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		Tier      string `json:"tier"`
		Credits   int    `json:"credits"`
		Display   string `json:"credits_display"`
		Unlimited bool   `json:"unlimited"`
	} `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func decode[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "output: %s", output)
	return v
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	r, _ := startTestServer(t)

	output, err := r.run("health")
	require.NoError(t, err, "output: %s", output)

	resp := decode[struct {
		Status    string `json:"status"`
		Generator bool   `json:"generator"`
	}](t, output)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Generator)
}

func TestCLI_SessionLifecycle(t *testing.T) {
	r, _ := startTestServer(t)

	output, err := r.run("session", "register", "--username", "alice", "--email", "alice@example.com")
	require.NoError(t, err, "output: %s", output)
	registered := decode[sessionResponse](t, output)
	assert.Equal(t, "alice", registered.User.Username)
	assert.Equal(t, "basic", registered.User.Tier)
	assert.Equal(t, 50, registered.User.Credits)

	output, err = r.run("session", "show")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, registered.User.ID, decode[sessionResponse](t, output).User.ID)

	output, err = r.run("session", "logout")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "Logged out", decode[messageResponse](t, output).Message)

	output, err = r.run("session", "show")
	assert.Error(t, err)
	assert.Contains(t, output, "NO_SESSION")

	output, err = r.run("session", "login", "--email", "alice@example.com")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, registered.User.ID, decode[sessionResponse](t, output).User.ID)
}

func TestCLI_DemoSession(t *testing.T) {
	r, _ := startTestServer(t)

	output, err := r.run("session", "demo")
	require.NoError(t, err, "output: %s", output)
	resp := decode[sessionResponse](t, output)
	assert.NotEmpty(t, resp.User.Username)
	assert.Equal(t, "basic", resp.User.Tier)
}

func TestCLI_ChatDebitsCredits(t *testing.T) {
	r, app := startTestServer(t)
	app.MockGenerator.SetText("hello there")

	_, err := r.run("session", "register", "--username", "alice", "--email", "alice@example.com")
	require.NoError(t, err)

	output, err := r.run("chat", "send", "hi", "assistant")
	require.NoError(t, err, "output: %s", output)
	reply := decode[struct {
		Reply struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"reply"`
	}](t, output)
	assert.Equal(t, "hello there", reply.Reply.Content)
	assert.Contains(t, app.MockGenerator.Calls(), "text:hi assistant")

	output, err = r.run("session", "show")
	require.NoError(t, err)
	assert.Equal(t, 49, decode[sessionResponse](t, output).User.Credits)

	output, err = r.run("chat", "history")
	require.NoError(t, err, "output: %s", output)
	history := decode[struct {
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}](t, output)
	assert.Len(t, history.Messages, 2)

	_, err = r.run("chat", "clear")
	require.NoError(t, err)

	output, err = r.run("chat", "history")
	require.NoError(t, err)
	assert.NotContains(t, output, `"role"`)
}

func TestCLI_ModulesRequireSession(t *testing.T) {
	r, _ := startTestServer(t)

	output, err := r.run("chat", "send", "hi")
	assert.Error(t, err)
	assert.Contains(t, output, "NO_SESSION")
}

func TestCLI_CanvasWritesImage(t *testing.T) {
	r, _ := startTestServer(t)

	_, err := r.run("session", "register", "--username", "alice", "--email", "alice@example.com")
	require.NoError(t, err)

	outPath := filepath.Join(t.TempDir(), "art.png")
	output, err := r.run("canvas", "paint", "a", "sunset", "--out", outPath)
	require.NoError(t, err, "output: %s", output)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	output, err = r.run("canvas", "gallery")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "a sunset")
}

func TestCLI_VoiceWritesWAV(t *testing.T) {
	r, _ := startTestServer(t)

	_, err := r.run("session", "register", "--username", "alice", "--email", "alice@example.com")
	require.NoError(t, err)

	outPath := filepath.Join(t.TempDir(), "speech.wav")
	output, err := r.run("voice", "speak", "--text", "hello", "--voice", "Puck", "--out", outPath)
	require.NoError(t, err, "output: %s", output)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Greater(t, len(data), 44)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))

	output, err = r.run("voice", "speak", "--text", "hello", "--voice", "Nobody")
	assert.Error(t, err)
	assert.Contains(t, output, "UNKNOWN_VOICE")

	output, err = r.run("voice", "list")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "Kore")
}

func TestCLI_LensReadsFile(t *testing.T) {
	r, app := startTestServer(t)
	app.MockGenerator.SetText("a cat")

	_, err := r.run("session", "register", "--username", "alice", "--email", "alice@example.com")
	require.NoError(t, err)

	imgPath := filepath.Join(t.TempDir(), "cat.png")
	require.NoError(t, os.WriteFile(imgPath, []byte("\x89PNG\r\n\x1a\n0000"), 0o644))

	output, err := r.run("lens", "--file", imgPath, "--prompt", "what is it")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "a cat", decode[struct {
		Analysis string `json:"analysis"`
	}](t, output).Analysis)

	output, err = r.run("lens")
	assert.Error(t, err)
	assert.Contains(t, output, "--file or --image")
}

func TestCLI_AdminCommands(t *testing.T) {
	r, _ := startTestServer(t)

	_, err := r.run("session", "register", "--username", "bob", "--email", "bob@example.com")
	require.NoError(t, err)

	output, err := r.run("admin", "stats")
	assert.Error(t, err)
	assert.Contains(t, output, "NOT_CREATOR")

	output, err = r.run("session", "register", "--username", "creator", "--email", factory.DefaultCreatorEmail)
	require.NoError(t, err, "output: %s", output)
	assert.True(t, decode[sessionResponse](t, output).User.Unlimited)

	output, err = r.run("admin", "stats")
	require.NoError(t, err, "output: %s", output)
	stats := decode[struct {
		TotalUsers  int `json:"total_users"`
		OnlineUsers int `json:"online_users"`
		EliteUsers  int `json:"elite_users"`
	}](t, output)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.EliteUsers)

	output, err = r.run("admin", "users", "-q", "bob")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "bob@example.com")
	assert.NotContains(t, output, factory.DefaultCreatorEmail)

	output, err = r.run("admin", "url", "set", "https://nexus.example.com")
	require.NoError(t, err, "output: %s", output)

	output, err = r.run("share")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "https://nexus.example.com")

	output, err = r.run("admin", "watch", "--count", "1")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, `"event": "stats"`)
	assert.Equal(t, 1, strings.Count(output, `"event"`))
}

func TestCLI_WatchRequiresCreator(t *testing.T) {
	r, _ := startTestServer(t)

	output, err := r.run("admin", "watch", "--count", "1")
	assert.Error(t, err)
	assert.Contains(t, output, "NO_SESSION")
}

func TestCLI_UpgradeAndSettings(t *testing.T) {
	r, _ := startTestServer(t)

	_, err := r.run("session", "register", "--username", "alice", "--email", "alice@example.com")
	require.NoError(t, err)

	output, err := r.run("upgrade")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "billing%40nexus.ia")

	output, err = r.run("settings", "set", "--theme", "light")
	require.NoError(t, err, "output: %s", output)
	settings := decode[struct {
		Theme string `json:"theme"`
	}](t, output)
	assert.Equal(t, "light", settings.Theme)

	output, err = r.run("settings", "set", "--theme", "neon")
	assert.Error(t, err)
	assert.Contains(t, output, "INVALID_PREFERENCE")
}
