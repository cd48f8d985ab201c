package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-mlb-exact/pkg/extract"
	"github.com/shouni/go-mlb-exact/pkg/fetcher"
)

const listingRef = "/previews/index.shtml"

// stubFetcher は ref ごとに固定のページを返します。
type stubFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func (s *stubFetcher) Fetch(ctx context.Context, ref string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, ref)
	page, ok := s.pages[ref]
	if !ok {
		return "", errors.New("404 not found: " + ref)
	}
	return page, nil
}

func teamPage(abbr string, avg, obp string) string {
	link := fmt.Sprintf(`<a href="/teams/%s/2024.shtml">`, abbr)
	return `<html><body>
<p>` + link + `2024 Season</a></p>
<li>` + link + `2024</a> summary</li>
<table id="yby_team_bat"><tr><th>1</th><td>` + link + `2024</a></th><td>AL East</td><td>162</td><td>` + avg + `</td><td>` + obp + `</td></tr>
</table></body></html>`
}

func pitcherPage(babip, hr string) string {
	return `<html><body><table id="pitching_advanced">
<tr id="pitching_advanced.2024" class="full"><th>2024</th><td>30</td><td>XXX</td><td>NL</td><td>` + babip + `</td><td>` + hr + `%</td></tr>
</table></body></html>`
}

const listingPage = `<html><body><div id="content">
<div class="game_summary nohover">
  <table class="teams">
    <tr><td><a href="/teams/MIA/2024.shtml">Marlins</a></td></tr>
    <tr><td><a href="/teams/NYY/2024.shtml">Yankees</a></td></tr>
  </table>
  <table>
    <tr><td>MIA</td><td><a href="/players/a/alcansa01.shtml">Alcantara</a></td></tr>
    <tr><td>NYY</td><td><a href="/players/c/colege01.shtml">Cole</a></td></tr>
  </table>
</div>
</div></body></html>`

func newStub() *stubFetcher {
	return &stubFetcher{pages: map[string]string{
		listingRef:                             listingPage,
		"/teams/FLA/batteam.shtml#yby_team_bat": teamPage("FLA", ".250", ".310"),
		"/teams/NYY/batteam.shtml#yby_team_bat": teamPage("NYY", ".270", ".340"),
		"/players/a/alcansa01.shtml":            pitcherPage(".280", "2.1"),
		"/players/c/colege01.shtml":             pitcherPage(".260", "3.4"),
	}}
}

func fixedNow() time.Time {
	return time.Date(2024, time.June, 5, 18, 0, 0, 0, time.Local)
}

func newRunner(t *testing.T, f *stubFetcher, dir string) *Runner {
	t.Helper()
	ext, err := extract.NewExtractor(f, 2024)
	require.NoError(t, err)
	r, err := New(f, ext, Options{
		ListingURL: listingRef,
		OutputDir:  dir,
		Now:        fixedNow,
	})
	require.NoError(t, err)
	return r
}

func TestNew_Validation(t *testing.T) {
	ext, err := extract.NewExtractor(newStub(), 2024)
	require.NoError(t, err)

	_, err = New(nil, ext, Options{ListingURL: listingRef})
	assert.Error(t, err)

	_, err = New(newStub(), nil, Options{ListingURL: listingRef})
	assert.Error(t, err)

	_, err = New(newStub(), ext, Options{ListingURL: "  "})
	assert.Error(t, err)

	r, err := New(newStub(), ext, Options{ListingURL: listingRef})
	require.NoError(t, err)
	assert.Equal(t, ".", r.opts.OutputDir)
	assert.NotNil(t, r.opts.Now)
	assert.NotNil(t, r.opts.Logger)
}

func TestRun_WritesDatedRecords(t *testing.T) {
	dir := t.TempDir()
	f := newStub()

	result, err := newRunner(t, f, dir).Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, result.WriteErr)
	require.Len(t, result.Games, 1)
	assert.Equal(t, "Marlins @ Yankees", result.Games[0].Label())

	expectedPath := filepath.Join(dir, "MLB-Jun-05-2024.json")
	assert.Equal(t, expectedPath, result.OutputPath)

	data, err := os.ReadFile(expectedPath)
	require.NoError(t, err)

	var records map[string][]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)

	// 自チームの打撃成績 ++ 相手先発投手の成績 ++ ホームフラグ
	assert.Equal(t, []any{".270", ".340", ".280", "2.1", float64(1)}, records["Yankees"])
	assert.Equal(t, []any{".250", ".310", ".260", "3.4", float64(0)}, records["Marlins"])
}

func TestRun_ListingFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	f := newStub()
	delete(f.pages, listingRef)

	result, err := newRunner(t, f, dir).Run(context.Background())
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, []string{listingRef}, f.calls)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_MissingStatsBecomeEmpty(t *testing.T) {
	dir := t.TempDir()
	f := newStub()
	delete(f.pages, "/players/c/colege01.shtml")

	result, err := newRunner(t, f, dir).Run(context.Background())
	require.NoError(t, err)

	// ホーム投手の成績が空のため、アウェイ側は打撃成績とフラグのみになる
	assert.Equal(t, []any{".250", ".310", 0}, result.Records["Marlins"])
	assert.Equal(t, []any{".270", ".340", ".280", "2.1", 1}, result.Records["Yankees"])
}

func TestRun_NoGamesWritesEmptyObject(t *testing.T) {
	dir := t.TempDir()
	f := newStub()
	f.pages[listingRef] = `<html><body><div id="content"><p>No games today</p></div></body></html>`

	result, err := newRunner(t, f, dir).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Games)

	data, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestRun_WriteFailureIsNotFatal(t *testing.T) {
	f := newStub()
	missingDir := filepath.Join(t.TempDir(), "does-not-exist")

	result, err := newRunner(t, f, missingDir).Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Error(t, result.WriteErr)
	assert.Empty(t, result.OutputPath)
	assert.Len(t, result.Records, 2)
}

func TestRun_OverHTTP_ListingWithErrorStatusIsParsed(t *testing.T) {
	pages := newStub().pages
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// フラグメントはサーバーに送られないため、パスのみで引く
		for ref, page := range pages {
			if strings.SplitN(ref, "#", 2)[0] != r.URL.Path {
				continue
			}
			if r.URL.Path == listingRef {
				w.WriteHeader(http.StatusNotFound)
			}
			_, _ = w.Write([]byte(page))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f, err := fetcher.New(server.URL, 5*time.Second)
	require.NoError(t, err)
	ext, err := extract.NewExtractor(f, 2024)
	require.NoError(t, err)

	dir := t.TempDir()
	r, err := New(f, ext, Options{ListingURL: listingRef, OutputDir: dir, Now: fixedNow})
	require.NoError(t, err)

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, result.WriteErr)
	assert.Equal(t, filepath.Join(dir, "MLB-Jun-05-2024.json"), result.OutputPath)
	assert.Equal(t, []any{".270", ".340", ".280", "2.1", 1}, result.Records["Yankees"])
	assert.Equal(t, []any{".250", ".310", ".260", "3.4", 0}, result.Records["Marlins"])
}
