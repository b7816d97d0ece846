package parlamento

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/paulstuart/gollm/parlamento/pkg/config"
	"github.com/paulstuart/gollm/parlamento/pkg/metrics"
	"github.com/paulstuart/gollm/parlamento/pkg/model"
)

const fixture = `[
  {
    "IniId": "121",
    "IniTitulo": "Lei da habitação",
    "IniEpigrafe": null,
    "IniDescTipo": "Projeto de Lei",
    "DataInicioleg": "2024-03-26",
    "IniAutorGruposParlamentares": [{"GP": "PS"}],
    "IniAnexos": null,
    "IniEventos": [
      {
        "Fase": "Votação na generalidade",
        "DataFase": "2024-05-10",
        "Votacao": [
          {"data": "2024-05-10", "resultado": "Aprovado", "detalhe": "A Favor: <I>PS</I>", "ausencias": ["IL"]}
        ],
        "Comissao": [
          {"Nome": "Comissão de Economia", "Sigla": null, "Votacao": [{"data": "2024-05-02", "resultado": "Rejeitado"}]}
        ],
        "PublicacaoFase": null
      }
    ]
  },
  {
    "IniId": "122",
    "IniTitulo": null,
    "IniEpigrafe": null,
    "IniEventos": []
  }
]`

type stubFetcher struct {
	body  []byte
	err   error
	calls int
}

func (f *stubFetcher) Fetch(context.Context, string) ([]byte, error) {
	f.calls++
	return f.body, f.err
}

type LoaderSuite struct {
	suite.Suite
	dir     string
	fetcher *stubFetcher
	metrics *metrics.Metrics
	loader  *Loader
}

func (s *LoaderSuite) SetupSuite() {
	log.SetOutput(io.Discard)
}

func (s *LoaderSuite) TearDownSuite() {
	log.SetOutput(os.Stderr)
}

func (s *LoaderSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.fetcher = &stubFetcher{body: []byte(fixture)}
	s.metrics = metrics.New()
	s.loader = &Loader{
		URL:       "https://example.test/doc.txt",
		CachePath: filepath.Join(s.dir, "data", "parlamento_data.json"),
		Fetcher:   s.fetcher,
		Metrics:   s.metrics,
	}
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderSuite))
}

func (s *LoaderSuite) writeCache(body string) {
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.loader.CachePath), 0755))
	s.Require().NoError(os.WriteFile(s.loader.CachePath, []byte(body), 0644))
}

func (s *LoaderSuite) TestDownloadsWhenNoCache() {
	inis, err := s.loader.Load(context.Background(), false)
	s.Require().NoError(err)
	s.Len(inis, 2)
	s.Equal(1, s.fetcher.calls)

	saved, err := os.ReadFile(s.loader.CachePath)
	s.Require().NoError(err)
	s.Equal(fixture, string(saved))

	s.Equal(1.0, testutil.ToFloat64(s.metrics.Fetches.WithLabelValues("success")))
	s.Equal(2.0, testutil.ToFloat64(s.metrics.Initiatives))
	s.Equal(2.0, testutil.ToFloat64(s.metrics.Votes))
}

func (s *LoaderSuite) TestUsesCache() {
	s.writeCache(`[{"IniId":"9","IniTitulo":"Da cache"}]`)

	inis, err := s.loader.Load(context.Background(), false)
	s.Require().NoError(err)
	s.Equal(0, s.fetcher.calls)
	s.Require().Len(inis, 1)
	s.Equal("Da cache", inis[0].Title)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.CacheReads))
}

func (s *LoaderSuite) TestForceUpdateReplacesCache() {
	s.writeCache(`[{"IniId":"9"}]`)

	inis, err := s.loader.Load(context.Background(), true)
	s.Require().NoError(err)
	s.Equal(1, s.fetcher.calls)
	s.Len(inis, 2)

	saved, err := os.ReadFile(s.loader.CachePath)
	s.Require().NoError(err)
	s.Equal(fixture, string(saved))
}

func (s *LoaderSuite) TestFetchFailureFallsBackToCache() {
	s.writeCache(`[{"IniId":"9"}]`)
	s.fetcher.err = errors.New("connection refused")

	inis, err := s.loader.Load(context.Background(), true)
	s.Require().NoError(err)
	s.Require().Len(inis, 1)
	s.Equal("9", inis[0].ID)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Fetches.WithLabelValues("error")))
}

func (s *LoaderSuite) TestFetchFailureWithoutCache() {
	s.fetcher.err = errors.New("connection refused")

	_, err := s.loader.Load(context.Background(), false)
	s.ErrorContains(err, "connection refused")
	s.NoFileExists(s.loader.CachePath)
}

func (s *LoaderSuite) TestInvalidDownloadKeepsCache() {
	s.writeCache(`[{"IniId":"9"}]`)
	s.fetcher.body = []byte("<html>maintenance</html>")

	inis, err := s.loader.Load(context.Background(), true)
	s.Require().NoError(err)
	s.Equal("9", inis[0].ID)

	saved, err := os.ReadFile(s.loader.CachePath)
	s.Require().NoError(err)
	s.Equal(`[{"IniId":"9"}]`, string(saved))
}

func (s *LoaderSuite) TestCorruptCache() {
	s.writeCache(`{not json`)

	_, err := s.loader.Load(context.Background(), false)
	s.ErrorContains(err, "cached data")
}

func TestDecode(t *testing.T) {
	inis, err := Decode([]byte(fixture))
	require.NoError(t, err)
	require.Len(t, inis, 2)

	ini := inis[0]
	assert.Equal(t, "Lei da habitação", ini.DisplayTitle())
	assert.Equal(t, "Projeto de Lei", ini.TypeDesc)
	assert.Equal(t, []model.AuthorGroup{{GP: "PS"}}, ini.Groups)
	assert.Nil(t, ini.Attachments)
	require.Len(t, ini.Events, 1)

	ev := ini.Events[0]
	require.Len(t, ev.Votes, 1)
	assert.Equal(t, model.Approved, ev.Votes[0].Result)
	assert.Equal(t, []string{"IL"}, ev.Votes[0].Absences)
	require.Len(t, ev.Committees, 1)
	assert.Empty(t, ev.Committees[0].Sigla)
	assert.Equal(t, model.Rejected, ev.Committees[0].Votes[0].Result)
	assert.Nil(t, ev.Publications)

	assert.Equal(t, model.NoTitle, inis[1].DisplayTitle())
}

func TestDecodeBOM(t *testing.T) {
	inis, err := Decode([]byte("\xef\xbb\xbf" + `[{"IniId":"1"}]`))
	require.NoError(t, err)
	assert.Len(t, inis, 1)
}

func TestDecodeRequiresID(t *testing.T) {
	_, err := Decode([]byte(`[{"IniId":"1"},{"IniTitulo":"sem id"}]`))
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestNewLoaderOverHTTP(t *testing.T) {
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(fixture))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Source.URL = srv.URL + "/webutils/docs/doc.txt"
	cfg.Source.Timeout = 5 * time.Second
	cfg.Cache.Path = filepath.Join(t.TempDir(), "parlamento_data.json")

	l := NewLoader(cfg, metrics.New())
	inis, err := l.Load(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, inis, 2)

	inis, err = l.Load(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, inis, 2)
	assert.EqualValues(t, 1, calls.Load(), "second load must come from the cache")
}
