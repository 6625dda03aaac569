package loadtest

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/protegeproject/webprotege-revision-manager/lib/api/revisions"
	"github.com/protegeproject/webprotege-revision-manager/lib/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseRunArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Config
	}{
		{
			name: "default values",
			args: []string{"-silent=false"},
			want: Config{Host: defaultHost, Authors: 1, Duration: 10 * time.Second, Interval: 400 * time.Millisecond},
		},
		{
			name: "positional host",
			args: []string{"http://test.com", "-silent=false"},
			want: Config{Host: "http://test.com", Authors: 1, Duration: 10 * time.Second, Interval: 400 * time.Millisecond},
		},
		{
			name: "explicit flags",
			args: []string{"-host", "http://test.com", "-document", "pizza", "-authors", "5", "-lurkers", "10",
				"-duration", "60", "-interval", "50ms", "-loadUntilFail", "-silent"},
			want: Config{
				Host:          "http://test.com",
				DocumentID:    "pizza",
				Authors:       5,
				Lurkers:       10,
				Duration:      time.Minute,
				Interval:      50 * time.Millisecond,
				LoadUntilFail: true,
				Silent:        true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRunArgs(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFeedURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:7777/api/ws?documentId=a+b", NewClient("http://localhost:7777/", "a b").feedURL())
	assert.Equal(t, "wss://example.org/api/ws?documentId=x", NewClient("https://example.org", "x").feedURL())
}

func startServer(t *testing.T) string {
	t.Helper()
	store := testutils.NewTestInitStore(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = store.C.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = store.C.Shutdown()
	})
	return "http://" + ln.Addr().String()
}

func TestClientAddsRevisions(t *testing.T) {
	host := startServer(t)
	client := NewClient(host, "pizza")
	require.NoError(t, client.CreateDocument())
	require.NoError(t, client.CreateDocument())

	for want := int64(1); want <= 3; want++ {
		number, err := client.AddRevision(revisions.AddRevisionRequest{
			Author:  "Alice",
			Changes: []revisions.ChangeDTO{{Kind: "addImport", Import: "http://example.org/a"}},
		})
		require.NoError(t, err)
		assert.Equal(t, want, number)
	}

	_, err := client.AddRevision(revisions.AddRevisionRequest{Author: "Alice"})
	assert.ErrorContains(t, err, "422")
}

func TestRunAgainstServer(t *testing.T) {
	host := startServer(t)

	metrics, err := Run(context.Background(), zap.NewNop().Sugar(), Config{
		Host:     host,
		Authors:  2,
		Lurkers:  1,
		Duration: time.Second,
		Interval: 50 * time.Millisecond,
		Silent:   true,
	})
	require.NoError(t, err)
	assert.Zero(t, metrics.ErrorCount.Load())
	assert.Positive(t, metrics.RevisionsAccepted.Load())
	assert.Equal(t, int64(2), metrics.AuthorsConnected.Load())
	assert.Equal(t, int64(1), metrics.LurkersConnected.Load())
	assert.Eventually(t, func() bool {
		return metrics.RevisionsSaved.Load() > 0
	}, 2*time.Second, 20*time.Millisecond)
}
