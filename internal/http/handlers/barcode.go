package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/valyala/bytebufferpool"

	"barcodegen/internal/barcode"
	"barcodegen/internal/config"
	"barcodegen/internal/domain"
	"barcodegen/internal/infra/cache"
	"barcodegen/internal/infra/logging"
	"barcodegen/internal/infra/metrics"
)

// Image is a rendered barcode ready to be sent.
type Image struct {
	Data        []byte
	ContentType string
	Cached      bool
}

// BarcodeService bundles configuration and dependencies for barcode rendering.
type BarcodeService struct {
	Config *config.Config
	Cache  cache.Store

	writer barcode.Writer
}

// NewBarcodeService creates a new BarcodeService. store may be nil.
func NewBarcodeService(cfg config.Config, store cache.Store) *BarcodeService {
	return &BarcodeService{
		Config: &cfg,
		Cache:  store,
		writer: barcode.NewImageWriter(),
	}
}

// HandleGenerate renders the barcode described by the query string.
func (svc *BarcodeService) HandleGenerate(c *fiber.Ctx) error {
	req, err := extractBarcodeRequest(c)
	if err != nil {
		return err
	}

	img, err := svc.Render(c.UserContext(), req)
	if err != nil {
		return writeRenderError(c, req, err)
	}

	metrics.RecordRequest(req.Symbology, fiber.StatusOK)
	logging.Info("Barcode generated",
		"symbology", req.Symbology,
		"bytes", len(img.Data),
		"cached", img.Cached,
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
	)

	c.Set(fiber.HeaderContentType, img.ContentType)
	return c.Status(fiber.StatusOK).Send(img.Data)
}

// HandleSymbologies lists the supported barcode types.
func (svc *BarcodeService) HandleSymbologies(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"default":     domain.DefaultSymbology,
		"symbologies": barcode.Names(),
	})
}

// Render produces the PNG for req, serving and filling the cache when one is configured.
func (svc *BarcodeService) Render(ctx context.Context, req domain.BarcodeRequest) (*Image, error) {
	opts := svc.Config.Render
	key := cache.Key(req.Symbology, req.Data, opts)

	if svc.Cache != nil {
		if data, ok := svc.getCached(ctx, key); ok {
			return &Image{Data: data, ContentType: barcode.ContentTypePNG, Cached: true}, nil
		}
	}

	start := time.Now()
	data, contentType, err := svc.renderBarcode(req, opts)
	if err != nil {
		return nil, err
	}
	metrics.ObserveRender(req.Symbology, time.Since(start), len(data))

	if svc.Cache != nil {
		if err := svc.Cache.Set(ctx, key, data, svc.Config.Cache.TTL); err != nil {
			logging.Warn("Cache write failed", "error", err)
		}
	}
	return &Image{Data: data, ContentType: contentType}, nil
}

// renderBarcode encodes into a pooled buffer and returns a copy of its contents.
func (svc *BarcodeService) renderBarcode(req domain.BarcodeRequest, opts barcode.RenderOptions) ([]byte, string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	bc, err := barcode.New(req.Symbology, req.Data, svc.writer)
	if err != nil {
		if errors.Is(err, barcode.ErrBarcodeNotFound) {
			return nil, "", &domain.InvalidSymbologyError{Symbology: req.Symbology}
		}
		return nil, "", &domain.RenderError{Symbology: req.Symbology, Err: err}
	}
	if err := bc.Write(buf, opts); err != nil {
		return nil, "", &domain.RenderError{Symbology: req.Symbology, Err: err}
	}
	return bytes.Clone(buf.B), bc.ContentType(), nil
}

func (svc *BarcodeService) getCached(ctx context.Context, key string) ([]byte, bool) {
	data, err := svc.Cache.Get(ctx, key)
	switch {
	case err == nil:
		metrics.RecordCacheLookup("hit")
		return data, true
	case errors.Is(err, cache.ErrMiss):
		metrics.RecordCacheLookup("miss")
	default:
		metrics.RecordCacheLookup("error")
		logging.Warn("Cache read failed", "error", err)
	}
	return nil, false
}

// extractBarcodeRequest reads data and barcode_type from the query string.
// Values are copied out of the request buffer: they end up in metric labels
// and cache keys. Only an absent barcode_type selects the default.
func extractBarcodeRequest(c *fiber.Ctx) (domain.BarcodeRequest, error) {
	data := c.Query("data")
	if data == "" {
		return domain.BarcodeRequest{}, fiber.NewError(fiber.StatusUnprocessableEntity, "Missing required query parameter: data")
	}
	symbology := domain.DefaultSymbology
	if c.Context().QueryArgs().Has("barcode_type") {
		symbology = utils.CopyString(c.Query("barcode_type"))
	}
	return domain.BarcodeRequest{
		Data:      utils.CopyString(data),
		Symbology: symbology,
	}, nil
}

// writeRenderError maps render failures to plain-text responses.
func writeRenderError(c *fiber.Ctx, req domain.BarcodeRequest, err error) error {
	var invalid *domain.InvalidSymbologyError
	if errors.As(err, &invalid) {
		metrics.RecordRequest(metrics.SymbologyInvalid, fiber.StatusBadRequest)
		logging.Warn("Invalid barcode type", "symbology", invalid.Symbology)
		return c.Status(fiber.StatusBadRequest).
			SendString(fmt.Sprintf("Error: El tipo de código de barras '%s' no es válido.", invalid.Symbology))
	}

	metrics.RecordRequest(req.Symbology, fiber.StatusInternalServerError)
	logging.Error("Barcode generation failed", "symbology", req.Symbology, "error", err)
	return c.Status(fiber.StatusInternalServerError).
		SendString("Error interno del servidor: " + err.Error())
}
