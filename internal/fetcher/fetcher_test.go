package fetcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	name string
	resp UnifiedResponse
	err  error
}

func (s *stubEngine) Name() string { return s.name }
func (s *stubEngine) Do(_ context.Context, _ string, _ FetchOptions) (UnifiedResponse, error) {
	return s.resp, s.err
}

func TestFetcher_PrefersHealthiestEngine(t *testing.T) {
	f := New()
	f.Register(&stubEngine{name: "low", resp: UnifiedResponse{Status: 200, Text: "low"}}, 0.2)
	f.Register(&stubEngine{name: "high", resp: UnifiedResponse{Status: 200, Text: "high"}}, 0.9)

	resp, err := f.Fetch(context.Background(), "http://example.test", "", FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "high", resp.EngineUsed)
}

func TestFetcher_PinsPreferredEngine(t *testing.T) {
	f := New()
	f.Register(&stubEngine{name: "low", resp: UnifiedResponse{Status: 200, Text: "low"}}, 0.2)
	f.Register(&stubEngine{name: "high", resp: UnifiedResponse{Status: 200, Text: "high"}}, 0.9)

	resp, err := f.Fetch(context.Background(), "http://example.test", "low", FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "low", resp.EngineUsed)
}

func TestFetcher_FallsBackOnFailure(t *testing.T) {
	f := New()
	f.Register(&stubEngine{name: "bad", err: assertionError{"boom"}}, 0.9)
	f.Register(&stubEngine{name: "good", resp: UnifiedResponse{Status: 200, Text: "ok"}}, 0.5)

	resp, err := f.Fetch(context.Background(), "http://example.test", "", FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "good", resp.EngineUsed)

	health, ok := f.HealthOf("bad")
	require.True(t, ok)
	assert.InDelta(t, 0.7, health, 0.001)
}

func TestFetcher_AllEnginesFail(t *testing.T) {
	f := New()
	f.Register(&stubEngine{name: "bad", err: assertionError{"boom"}}, 0.9)

	_, err := f.Fetch(context.Background(), "http://example.test", "", FetchOptions{})
	assert.Error(t, err)
}

func TestIsBotBlock(t *testing.T) {
	assert.True(t, IsBotBlock(200, "Please complete the CAPTCHA to continue"))
	assert.False(t, IsBotBlock(200, "<html>normal page content</html>"))
	assert.False(t, IsBotBlock(500, "captcha"))
}

type assertionError struct{ msg string }

func (a assertionError) Error() string { return a.msg }
