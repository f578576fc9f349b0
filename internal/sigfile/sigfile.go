package sigfile

import (
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"lambdapi/pkg/sig"
)

// Save encodes s's whole signature and writes it to path.
func Save(path string, s *sig.Signature) error {
	img, err := EncodeSignature(s)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sigfile: %w", err)
	}
	defer f.Close()
	return Write(f, img)
}

// Write msgpack-encodes img to w.
func Write(w io.Writer, img Image) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(img)
}

// Load reads and decodes a compiled-signature file at path.
func Load(path string) ([]DecodedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sigfile: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read msgpack-decodes an Image from r and rebuilds its term trees.
func Read(r io.Reader) ([]DecodedRecord, error) {
	dec := msgpack.NewDecoder(r)
	var img Image
	if err := dec.Decode(&img); err != nil {
		return nil, fmt.Errorf("sigfile: %w", err)
	}
	return Decode(img)
}
