package handlers

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barcodegen/internal/config"
	"barcodegen/internal/domain"
	"barcodegen/internal/infra/cache"
	"barcodegen/internal/infra/metrics"
)

func testBarcodeCfg() config.Config {
	cfg := config.Default()
	cfg.Cache.TTL = time.Minute
	return cfg
}

func newTestApp(svc *BarcodeService) *fiber.App {
	app := fiber.New()
	app.Get("/generate-barcode/", svc.HandleGenerate)
	app.Get("/symbologies", svc.HandleSymbologies)
	return app
}

func doGet(t *testing.T, app *fiber.App, target string) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", target, nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHandleGenerate_Code128ReturnsPNG(t *testing.T) {
	app := newTestApp(NewBarcodeService(testBarcodeCfg(), nil))

	resp, body := doGet(t, app, "/generate-barcode/?data=12345&barcode_type=code128")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	require.NotEmpty(t, body)

	img, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
}

func TestHandleGenerate_DefaultsToCode128(t *testing.T) {
	app := newTestApp(NewBarcodeService(testBarcodeCfg(), nil))

	_, explicit := doGet(t, app, "/generate-barcode/?data=12345&barcode_type=code128")
	resp, implicit := doGet(t, app, "/generate-barcode?data=12345")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, explicit, implicit)
}

func TestHandleGenerate_IsIdempotent(t *testing.T) {
	app := newTestApp(NewBarcodeService(testBarcodeCfg(), nil))

	_, first := doGet(t, app, "/generate-barcode/?data=hello&barcode_type=qr")
	_, second := doGet(t, app, "/generate-barcode/?data=hello&barcode_type=qr")
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestHandleGenerate_InvalidSymbology(t *testing.T) {
	app := newTestApp(NewBarcodeService(testBarcodeCfg(), nil))

	resp, body := doGet(t, app, "/generate-barcode/?data=abc&barcode_type=nosuchtype")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Error: El tipo de código de barras 'nosuchtype' no es válido.", string(body))
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
}

func TestHandleGenerate_EmptySymbologyIsInvalid(t *testing.T) {
	app := newTestApp(NewBarcodeService(testBarcodeCfg(), nil))

	resp, body := doGet(t, app, "/generate-barcode/?data=abc&barcode_type=")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Error: El tipo de código de barras '' no es válido.", string(body))
}

func TestHandleGenerate_MetricLabelsSurviveLaterRequests(t *testing.T) {
	app := newTestApp(NewBarcodeService(testBarcodeCfg(), nil))
	app.Get("/metrics", metrics.Handler())

	resp, _ := doGet(t, app, "/generate-barcode/?data=03600029145&barcode_type=upca")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	for i := 0; i < 5; i++ {
		resp, _ = doGet(t, app, "/generate-barcode/?data=abc&barcode_type=XXXX")
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	}

	_, body := doGet(t, app, "/metrics")
	out := string(body)
	assert.Contains(t, out, `barcodegen_requests_total{status="200",symbology="upca"}`)
	assert.Contains(t, out, `barcodegen_render_duration_seconds_count{symbology="upca"}`)
	assert.NotContains(t, out, `symbology="XXXX"`)
}

func TestHandleGenerate_EAN13(t *testing.T) {
	app := newTestApp(NewBarcodeService(testBarcodeCfg(), nil))

	resp, body := doGet(t, app, "/generate-barcode/?data=590123412345&barcode_type=ean13")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body)

	// Eleven digits are rejected by the EAN-13 encoder.
	resp, body = doGet(t, app, "/generate-barcode/?data=12345678901&barcode_type=ean13")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Error interno del servidor: EAN-13 must have 12 digits, received 11", string(body))

	resp, body = doGet(t, app, "/generate-barcode/?data=abc&barcode_type=ean13")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "only contain numbers")
}

func TestHandleGenerate_MissingData(t *testing.T) {
	app := newTestApp(NewBarcodeService(testBarcodeCfg(), nil))

	for _, target := range []string{"/generate-barcode/", "/generate-barcode/?data=", "/generate-barcode/?barcode_type=ean13"} {
		resp, _ := doGet(t, app, target)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode, target)
	}
}

func TestHandleSymbologies(t *testing.T) {
	app := newTestApp(NewBarcodeService(testBarcodeCfg(), nil))

	resp, body := doGet(t, app, "/symbologies")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"default":"code128"`)
	assert.Contains(t, string(body), `"ean13"`)
}

func TestRender_RedisCacheFillAndHit(t *testing.T) {
	mrs, err := miniredis.Run()
	require.NoError(t, err)
	defer mrs.Close()

	cfg := testBarcodeCfg()
	cfg.Cache.Backend = cache.BackendRedis
	store := cache.NewRedisStore(redis.NewClient(&redis.Options{Addr: mrs.Addr()}))
	defer store.Close()
	svc := NewBarcodeService(cfg, store)

	req := domain.BarcodeRequest{Data: "12345", Symbology: "code128"}
	img, err := svc.Render(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, img.Cached)

	key := cache.Key("code128", "12345", cfg.Render)
	assert.True(t, mrs.Exists(key), "expected render to fill the cache")

	require.NoError(t, mrs.Set(key, "cached-png"))
	app := newTestApp(svc)
	resp, body := doGet(t, app, "/generate-barcode/?data=12345")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "cached-png", string(body))
}

func TestRender_CacheFailuresAreIgnored(t *testing.T) {
	store := cache.NewRedisStore(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))
	defer store.Close()
	app := newTestApp(NewBarcodeService(testBarcodeCfg(), store))

	resp, body := doGet(t, app, "/generate-barcode/?data=12345")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body)
}

func TestRender_InvalidSymbologyIsNotCached(t *testing.T) {
	store := cache.NewMemoryStore()
	defer store.Close()
	svc := NewBarcodeService(testBarcodeCfg(), store)

	_, err := svc.Render(context.Background(), domain.BarcodeRequest{Data: "abc", Symbology: "nosuchtype"})
	assert.ErrorIs(t, err, domain.ErrInvalidSymbology)

	_, err = store.Get(context.Background(), cache.Key("nosuchtype", "abc", svc.Config.Render))
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestRender_ConcurrentRequestsAreIndependent(t *testing.T) {
	svc := NewBarcodeService(testBarcodeCfg(), nil)
	want, err := svc.Render(context.Background(), domain.BarcodeRequest{Data: "12345", Symbology: domain.DefaultSymbology})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			img, err := svc.Render(context.Background(), domain.BarcodeRequest{Data: "12345", Symbology: domain.DefaultSymbology})
			errs[i] = err
			if err == nil {
				results[i] = img.Data
			}
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want.Data, results[i])
	}
}
