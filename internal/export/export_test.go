package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/observatoire/plaintes/internal/daterange"
	"github.com/observatoire/plaintes/internal/i18n"
	"github.com/observatoire/plaintes/internal/model"
	"github.com/observatoire/plaintes/internal/stats"
)

func TestToCSV_Scenario(t *testing.T) {
	data, err := ToCSV([]Row{Row{}.Set("a", 1).Set("b", `x"y`)})
	require.NoError(t, err)
	assert.Equal(t, "\ufeff\"a\";\"b\"\n\"1\";\"x\"\"y\"", string(data))
}

func TestToCSV_Empty(t *testing.T) {
	_, err := ToCSV(nil)
	assert.True(t, errors.Is(err, ErrNothingToExport))
}

func TestToCSV_HeaderFromFirstRow(t *testing.T) {
	rows := []Row{
		Row{}.Set("b", "1").Set("a", "2"),
		Row{}.Set("a", "3").Set("c", "ignored"),
		Row{}.Set("b", nil),
	}
	data, err := ToCSV(rows)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimPrefix(string(data), "\ufeff"), "\n")
	assert.Equal(t, []string{`"b";"a"`, `"1";"2"`, `"";"3"`, `"";""`}, lines)
}

func TestCSV_RoundTrip(t *testing.T) {
	rows := []Row{
		Row{}.Set("Commune", "Tunis").Set("Note", `il a dit "non"; puis rien`),
		Row{}.Set("Commune", "Sfax\nCentre").Set("Note", ""),
		Row{}.Set("Commune", `"""`).Set("Note", "é à ç"),
	}
	data, err := ToCSV(rows)
	require.NoError(t, err)

	got, err := ParseCSV(data)
	require.NoError(t, err)
	require.Len(t, got, len(rows))
	for i := range rows {
		assert.Equal(t, rows[i].Keys(), got[i].Keys())
		for _, k := range rows[i].Keys() {
			assert.Equal(t, rows[i].String(k), got[i].String(k))
		}
	}
}

func TestParseCSV_Errors(t *testing.T) {
	_, err := ParseCSV(nil)
	assert.ErrorIs(t, err, ErrNothingToExport)

	_, err = ParseCSV([]byte(`"a";"b` + "\n"))
	assert.Error(t, err)
}

func TestRow_SetKeepsPositionAndDoesNotAlias(t *testing.T) {
	base := Row{}.Set("a", 1).Set("b", 2)
	updated := base.Set("a", 9)
	assert.Equal(t, []string{"a", "b"}, updated.Keys())
	assert.Equal(t, "9", updated.String("a"))
	assert.Equal(t, "1", base.String("a"))

	_, ok := base.Get("zz")
	assert.False(t, ok)
}

func TestFormatValue(t *testing.T) {
	score := 12.5
	var missing *float64
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "12.5", FormatValue(score))
	assert.Equal(t, "12.5", FormatValue(&score))
	assert.Equal(t, "", FormatValue(missing))
	assert.Equal(t, "3", FormatValue(3))
	assert.Equal(t, "42", FormatValue(int64(42)))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "", FormatValue(time.Time{}))
	assert.Equal(t, "RESOLVED", FormatValue(model.StatusResolved))
}

func TestToJSON(t *testing.T) {
	data, err := ToJSON(map[string]any{"zone": "<A&B>", "n": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"n\": 1,\n  \"zone\": \"<A&B>\"\n}", string(data))
}

func TestResolutionRows(t *testing.T) {
	rows := ResolutionRows([]model.ResolutionRow{
		{Commune: "Tunis", Category: "DECHETS", Total: 10, Resolved: 7, Rate: 70},
	}, i18n.Default())

	data, err := ToCSV(rows)
	require.NoError(t, err)
	assert.Equal(t,
		"\ufeff\"Commune\";\"Catégorie\";\"Total Plaintes\";\"Plaintes Résolues\";\"Taux de Résolution (%)\"\n"+
			"\"Tunis\";\"DECHETS\";\"10\";\"7\";\"70.0\"",
		string(data))
}

func TestRankingAndTrendRows(t *testing.T) {
	tr := i18n.Default()
	ranked := stats.Rank([]model.CountBucket{{Zone: "A", Count: 8}, {Zone: "B", Count: 15}}, 0)
	rows := RankingRows(ranked, tr)
	require.Len(t, rows, 2)
	assert.Equal(t, "B", rows[0].String("Commune"))
	assert.Equal(t, "65.2", rows[0].String("Pourcentage (%)"))
	assert.Equal(t, "Or", rows[0].String("Niveau"))

	points := stats.TrendPoints([]model.ZoneTrend{{Zone: "A", Category: "X", PercentageChange: ptr(-12.5)}})
	trows := TrendRows(points, tr)
	require.Len(t, trows, 1)
	assert.Equal(t, "Forte baisse", trows[0].String("Tendance"))

	trows = TrendRows(stats.TrendPoints([]model.ZoneTrend{{Zone: "B", Category: "X"}}), tr)
	require.Len(t, trows, 1)
	assert.Equal(t, "Pas de données", trows[0].String("Tendance"))
	assert.Empty(t, trows[0].String("Variation (%)"))

	hrows := HourlyRows([]model.HourlyCount{{Hour: 8, Count: 3}}, tr)
	assert.Equal(t, "08h", hrows[0].String("Heure"))
}

type fakeFetcher struct {
	data  []byte
	err   error
	calls atomic.Int32
}

func (f *fakeFetcher) Fetch(ctx context.Context, _ string) ([]byte, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, ctx.Err()
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func sampleComplaint() model.Complaint {
	score := 18.5
	return model.Complaint{
		ID:            7,
		Description:   "Dépôt sauvage d'ordures près de l'école",
		Category:      "DECHETS",
		Zone:          "Ariana",
		Status:        model.StatusInProgress,
		SubmittedAt:   time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC),
		PriorityScore: &score,
		AIScores:      map[string]float64{"DECHETS": 0.82, "AGRESSION": 0.05, "VOIRIE": 0.13},
		ImageURL:      "http://images.local/7.png",
	}
}

func fixedClock() time.Time { return time.Date(2025, 5, 14, 0, 0, 0, 0, time.UTC) }

func TestComplaintDocument(t *testing.T) {
	doc := ComplaintDocument(sampleComplaint(), []string{"Planifier une intervention de nettoyage"}, i18n.Default(), fixedClock())

	assert.Equal(t, "Plainte n°7", doc.Title)
	assert.Equal(t, "Date du rapport : 14/05/2025", doc.Subtitle)
	require.Len(t, doc.Blocks, 5)

	fields := doc.Blocks[0].Fields
	assert.Equal(t, "Ariana", fields.String("Zone"))
	assert.Equal(t, "", fields.String("Localisation"))
	assert.Equal(t, "Critique", fields.String("Urgence"))
	assert.Equal(t, "En cours", fields.String("Statut"))

	assert.Equal(t, "http://images.local/7.png", doc.Blocks[2].ImageURL)

	table := doc.Blocks[3].Table
	require.NotNil(t, table)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "DECHETS", table.Rows[0][0])
	assert.Equal(t, "VOIRIE", table.Rows[1][0])
	assert.Equal(t, "AGRESSION", table.Rows[2][0])

	assert.Equal(t, []string{"- Planifier une intervention de nettoyage"}, doc.Blocks[4].Lines)
}

func TestRenderer_RenderWithImage(t *testing.T) {
	f := &fakeFetcher{data: tinyPNG(t)}
	r := NewRenderer(WithImageFetcher(f), WithClock(fixedClock))

	doc := ComplaintDocument(sampleComplaint(), nil, i18n.Default(), fixedClock())
	out, err := r.Render(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestRenderer_ImageFailureOmitsImage(t *testing.T) {
	for name, f := range map[string]*fakeFetcher{
		"fetch error": {err: errors.New("connection refused")},
		"not an image": {data: []byte("<html>404</html>")},
	} {
		t.Run(name, func(t *testing.T) {
			r := NewRenderer(WithImageFetcher(f), WithClock(fixedClock))
			out, err := r.Render(context.Background(), ComplaintDocument(sampleComplaint(), nil, i18n.Default(), fixedClock()))
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
			assert.Equal(t, int32(1), f.calls.Load(), "single attempt")
		})
	}
}

func TestRenderer_ImageTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := sampleComplaint()
	c.ImageURL = srv.URL + "/slow.png"
	r := NewRenderer(WithImageTimeout(50*time.Millisecond), WithClock(fixedClock))

	start := time.Now()
	out, err := r.Render(context.Background(), ComplaintDocument(c, nil, i18n.Default(), fixedClock()))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestResolutionReport(t *testing.T) {
	rows := []model.ResolutionRow{
		{Commune: "Tunis", Category: "DECHETS", Total: 10, Resolved: 7, Rate: 70},
		{Commune: "Sfax", Category: "DECHETS", Total: 6, Resolved: 6, Rate: 100},
		{Commune: "Sfax", Category: "VOIRIE", Total: 4, Resolved: 1, Rate: 25},
	}
	period := daterange.Range{From: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), To: fixedClock()}

	doc, err := ResolutionReport(rows, period, i18n.Default(), fixedClock())
	require.NoError(t, err)

	assert.Equal(t, "Rapport de la Résolution des Plaintes", doc.Title)
	assert.Equal(t, "Taux global de résolution : 70.0%", doc.Blocks[1].Heading)
	assert.Contains(t, doc.Blocks[1].Lines, "Période analysée : 01/05/2025 au 14/05/2025")
	assert.Equal(t, []string{"- DECHETS : 81.3% (13 / 16)", "- VOIRIE : 25.0% (1 / 4)"}, doc.Blocks[2].Lines)
	assert.Equal(t, []string{"Commune", "Catégorie", "Plaintes", "Résolues", "Taux (%)"}, doc.Blocks[4].Table.Headers)
	assert.Equal(t, []string{"Sfax", "VOIRIE", "4", "1", "25.0"}, doc.Blocks[4].Table.Rows[2])
	assert.Equal(t, "Rapport généré automatiquement. Pour tout complément : contact@observatoire.com", doc.Footer)

	out, err := NewRenderer(WithClock(fixedClock)).Render(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	_, err = ResolutionReport(nil, period, i18n.Default(), fixedClock())
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestRenderer_ManyRowsPaginate(t *testing.T) {
	table := &Table{Headers: []string{"a", "b"}}
	for i := 0; i < 200; i++ {
		table.Rows = append(table.Rows, []string{"x", "1"})
	}
	out, err := NewRenderer(WithClock(fixedClock)).Render(context.Background(), Document{Title: "t", Blocks: []Block{{Table: table}}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestHTTPImageFetcher(t *testing.T) {
	pngData := tinyPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngData)
	}))
	defer srv.Close()

	f := &HTTPImageFetcher{}
	data, err := f.Fetch(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, pngData, data)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing.png")
	assert.Error(t, err)

	typ, cfg, err := imageType(data)
	require.NoError(t, err)
	assert.Equal(t, "PNG", typ)
	assert.Equal(t, 4, cfg.Width)
}

func ptr(v float64) *float64 { return &v }
