package utils

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DetectContentType detects the file type by reading MIME type information of the file content.
func DetectContentType(fname string) (string, error) {
	file, err := os.Open(fname)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("could not close the opened file: %v", err)
		}
	}()

	// Only the first 512 bytes are used to sniff the content type.
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	// Always returns a valid content-type and "application/octet-stream" if no others seemed to match.
	return http.DetectContentType(buffer[:n]), nil
}

// CheckAsset verifies that a required model or cascade file exists and is readable.
func CheckAsset(fname string) error {
	fs, err := os.Stat(fname)
	if err != nil {
		return fmt.Errorf("missing asset %q: %w", fname, err)
	}
	if fs.IsDir() {
		return fmt.Errorf("asset %q is a directory", fname)
	}
	if fs.Size() == 0 {
		return fmt.Errorf("asset %q is empty", fname)
	}
	return nil
}

// CheckAudio verifies that fname exists and holds audio content.
func CheckAudio(fname string) error {
	if err := CheckAsset(fname); err != nil {
		return err
	}
	ctype, err := DetectContentType(fname)
	if err != nil {
		return fmt.Errorf("unable to read %q: %w", fname, err)
	}
	if strings.HasPrefix(ctype, "audio/") {
		return nil
	}
	// MPEG streams without an ID3 header are not recognized by the sniffer.
	if ctype == "application/octet-stream" && strings.EqualFold(filepath.Ext(fname), ".mp3") {
		return nil
	}
	return fmt.Errorf("%q is not an audio file (%s)", fname, ctype)
}
