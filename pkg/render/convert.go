package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/cardgraph/pkg/errors"
)

// ConverterBinary is the librsvg command used for PDF and PNG output.
const ConverterBinary = "rsvg-convert"

// ErrConverterMissing is returned when ConverterBinary is not on PATH.
var ErrConverterMissing = errors.New(errors.ErrCodeInternal,
	"%s not found; install librsvg (brew install librsvg, apt install librsvg2-bin)", ConverterBinary)

// Available reports whether the converter can be run.
func Available() bool {
	_, err := exec.LookPath(ConverterBinary)
	return err == nil
}

// ToPDF converts an SVG document to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

// ToPNG converts an SVG document to PNG. A scale of 2 doubles the pixel
// density; values <= 0 are treated as 1.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(ctx, svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

func convert(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	if !Available() {
		return nil, ErrConverterMissing
	}

	cmd := exec.CommandContext(ctx, ConverterBinary, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s to %s: %s",
			ConverterBinary, format, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
