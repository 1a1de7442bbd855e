// Package encoder converts single raster images to WebP files.
//
// Decoding goes through disintegration/imaging, which registers JPEG, PNG,
// GIF, BMP, and TIFF codecs. Inputs carrying a palette, an alpha channel, or
// CMYK data are flattened to opaque RGB before encoding; alpha is
// deliberately discarded. When metadata retention is requested and the source
// holds a decodable EXIF block, the raw block is carried into the WebP
// container as an EXIF chunk.
package encoder
