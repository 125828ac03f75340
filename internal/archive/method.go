package archive

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/zippack/zippack/internal/errors"
)

// Method selects how file entries are compressed. The zero value is Deflate.
type Method uint

const (
	Deflate Method = iota
	Store
	Zstd
)

// Set implements pflag.Value.
func (m *Method) Set(s string) error {
	switch s {
	case "deflate", "auto", "":
		*m = Deflate
	case "store", "off":
		*m = Store
	case "zstd":
		*m = Zstd
	default:
		return errors.Errorf("invalid compression method %q, must be one of (deflate|store|zstd)", s)
	}

	return nil
}

func (m Method) String() string {
	switch m {
	case Deflate:
		return "deflate"
	case Store:
		return "store"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("Method(%d)", uint(m))
	}
}

// Type implements pflag.Value.
func (m *Method) Type() string {
	return "method"
}

// zipMethod returns the method ID written to the zip header.
func (m Method) zipMethod() uint16 {
	switch m {
	case Store:
		return zip.Store
	case Zstd:
		return zstd.ZipMethodWinZip
	default:
		return zip.Deflate
	}
}

// MethodName returns a readable name for a method ID found in a zip header.
func MethodName(id uint16) string {
	switch id {
	case zip.Store:
		return "store"
	case zip.Deflate:
		return "deflate"
	case zstd.ZipMethodWinZip, zstd.ZipMethodPKWare:
		return "zstd"
	default:
		return fmt.Sprintf("method-%d", id)
	}
}

// registerCompressors installs the compressor for opts on zw. A level of zero
// selects the default level of the method.
func registerCompressors(zw *zip.Writer, opts WriterOptions) {
	switch opts.Method {
	case Deflate:
		level := flate.DefaultCompression
		if opts.Level != 0 {
			level = opts.Level
		}
		zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, level)
		})
	case Zstd:
		var encOpts []zstd.EOption
		if opts.Level != 0 {
			encOpts = append(encOpts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(opts.Level)))
		}
		zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor(encOpts...))
	}
}

// registerDecompressors makes zstd entries readable in addition to the
// methods the zip package knows by itself.
func registerDecompressors(zr *zip.Reader) {
	zr.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
	zr.RegisterDecompressor(zstd.ZipMethodPKWare, zstd.ZipDecompressor())
}
