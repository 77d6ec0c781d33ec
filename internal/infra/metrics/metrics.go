package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SymbologyInvalid replaces user-supplied unknown names to bound label cardinality.
const SymbologyInvalid = "invalid"

var (
	barcodeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barcodegen_requests_total",
			Help: "Total number of barcode generation requests",
		},
		[]string{"symbology", "status"},
	)

	renderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "barcodegen_render_duration_seconds",
			Help:    "Barcode encode and PNG render duration in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
		[]string{"symbology"},
	)

	imageSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "barcodegen_image_size_bytes",
			Help:    "Size of rendered PNG images in bytes",
			Buckets: prometheus.ExponentialBuckets(256, 2, 10),
		},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barcodegen_cache_lookups_total",
			Help: "Render cache lookups by result",
		},
		[]string{"result"}, // hit, miss, error
	)
)

// RecordRequest counts one finished request.
func RecordRequest(symbology string, status int) {
	barcodeRequestsTotal.WithLabelValues(symbology, strconv.Itoa(status)).Inc()
}

// ObserveRender records a successful render.
func ObserveRender(symbology string, d time.Duration, size int) {
	renderDuration.WithLabelValues(symbology).Observe(d.Seconds())
	imageSizeBytes.Observe(float64(size))
}

func RecordCacheLookup(result string) {
	cacheLookupsTotal.WithLabelValues(result).Inc()
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
