package pdfinfo

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// PageCount opens the PDF at path and returns its number of pages.
func PageCount(path string) (n int, err error) {
	// the parser panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("parse pdf: %v", r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if info.Size() == 0 {
		return 0, fmt.Errorf("empty file")
	}

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}
	return reader.NumPage(), nil
}
