package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/cardgraph/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestConvert_MissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if Available() {
		t.Fatal("Available() = true with empty PATH")
	}
	_, err := ToPDF(context.Background(), []byte(tinySVG))
	if err != ErrConverterMissing {
		t.Errorf("ToPDF() error = %v, want ErrConverterMissing", err)
	}
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInternal)
	}
}

func TestConvert(t *testing.T) {
	if !Available() {
		t.Skip(ConverterBinary + " not installed")
	}
	ctx := context.Background()

	pdf, err := ToPDF(ctx, []byte(tinySVG))
	if err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("ToPDF output does not start with %%PDF")
	}

	png, err := ToPNG(ctx, []byte(tinySVG), 0)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("ToPNG output is not a PNG")
	}
}
