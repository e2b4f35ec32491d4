// Package qrcode renders strings as PNG QR codes.
//
// It exists to turn otpauth:// provisioning URIs into images that
// authenticator apps can scan during two-factor setup. Encoding uses
// github.com/skip2/go-qrcode with medium error correction (about 15% of the
// symbol can be damaged and still read).
//
// Raw PNG bytes, e.g. for an HTTP response:
//
//	png, err := qrcode.Generate(uri, 256)
//	if err != nil {
//		return err
//	}
//	w.Header().Set("Content-Type", "image/png")
//	w.Write(png)
//
// A data URI that can be placed straight into an <img> tag:
//
//	src, err := qrcode.GenerateBase64Image(uri, 256)
//	// src == "data:image/png;base64,iVBORw0KGgo..."
//
// A non-positive size falls back to DefaultSize. Empty content returns
// ErrEmptyContent; encoder failures wrap ErrFailedToGenerate.
package qrcode
