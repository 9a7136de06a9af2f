package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	c := configFrom(envconfig.MapLookuper(map[string]string{}))

	assert.Equal(t, "http://localhost:8080", c.ServerURL)
	assert.Equal(t, "text", c.Output)
	assert.Equal(t, 2*time.Minute, c.Timeout)
}

func TestConfigFromEnv(t *testing.T) {
	c := configFrom(envconfig.MapLookuper(map[string]string{
		"NEXUS_SERVER":  "http://nexus:9000",
		"NEXUS_OUTPUT":  "json",
		"NEXUS_TIMEOUT": "5s",
	}))

	assert.Equal(t, "http://nexus:9000", c.ServerURL)
	assert.Equal(t, "json", c.Output)
	assert.Equal(t, 5*time.Second, c.Timeout)
}

func TestConfigFallsBackOnBadValue(t *testing.T) {
	c := configFrom(envconfig.MapLookuper(map[string]string{"NEXUS_TIMEOUT": "soon"}))

	assert.Equal(t, 2*time.Minute, c.Timeout)
}

func TestReadEvents(t *testing.T) {
	stream := "event: connected\ndata: {}\n\n" +
		"event: stats\ndata: {\"total_users\":1}\n\n" +
		"event: stats\ndata: line one\ndata: line two\n\n" +
		"event: stats\ndata: never read\n\n"

	var got []string
	err := readEvents(strings.NewReader(stream), func(event, data string) (bool, error) {
		got = append(got, event+"="+data)
		return len(got) < 3, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"connected={}",
		`stats={"total_users":1}`,
		"stats=line one\nline two",
	}, got)
}

func TestPrintText(t *testing.T) {
	tests := []struct {
		name string
		data any
		want []string
	}{
		{
			name: "elite user shows infinity",
			data: SessionResult{User: User{Username: "the_creator", Email: "c@x", Tier: "elite", Display: "∞"}},
			want: []string{"User: the_creator <c@x>", "Tier: elite", "Credits: ∞"},
		},
		{
			name: "directory marks online users",
			data: UsersResult{Users: []User{{Username: "alice", Display: "50", Online: true}, {Username: "bob", Display: "3"}}},
			want: []string{"alice", "online", "bob", "offline"},
		},
		{
			name: "empty history",
			data: HistoryResult{},
			want: []string{"No messages"},
		},
		{
			name: "default voice is marked",
			data: VoicesResult{Default: "Kore", Voices: []Voice{{Name: "Kore"}, {Name: "Puck"}}},
			want: []string{"* Kore", "  Puck"},
		},
		{
			name: "missing generator is reported",
			data: HealthResult{Status: "ok"},
			want: []string{"Status: ok", "Generator: not configured"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewOutput("text", &buf).Print(tt.data)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestPrintMessageJSON(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("json", &buf).PrintMessage("Logged out")

	assert.JSONEq(t, `{"message":"Logged out"}`, buf.String())
}
