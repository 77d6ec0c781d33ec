// Package barcode turns a payload and a symbology name into a PNG image.
//
// It is a thin adapter over third-party encoders: a static registry maps
// symbology names to Encoders, an Encoder produces a Symbol (a module matrix
// plus an optional human readable label) and a Writer rasterizes the Symbol
// with fixed RenderOptions. No symbology algorithm is implemented here.
//
// Example:
//
//	bc, err := barcode.New("code128", "12345", barcode.NewImageWriter())
//	if err != nil {
//		return err
//	}
//	err = bc.Write(w, barcode.DefaultRenderOptions())
package barcode
