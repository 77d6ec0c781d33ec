package domain

// Package domain contains the core business concepts for the barcode service.
// Keep this package free of transport (HTTP) and infrastructure (Redis/encoders) concerns.
