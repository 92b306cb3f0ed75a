package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
)

// CompressedExt marks snappy-compressed documents
const CompressedExt = ".sz"

// Encode serialises the document as JSON, snappy-compressed when compress is set
func Encode(doc *Document, compress bool) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	if compress {
		return snappy.Encode(nil, data), nil
	}
	return data, nil
}

// Decode parses a document produced by Encode
func Decode(data []byte, compressed bool) (*Document, error) {
	if compressed {
		raw, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress document: %w", err)
		}
		data = raw
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

// Write writes the document to w
func Write(w io.Writer, doc *Document, compress bool) error {
	data, err := Encode(doc, compress)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes the document to path, compressing when the path ends in .sz
func WriteFile(path string, doc *Document) error {
	data, err := Encode(doc, filepath.Ext(path) == CompressedExt)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// ReadFile reads a document written by WriteFile
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Decode(data, filepath.Ext(path) == CompressedExt)
}
