package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"

	ioutils "github.com/jfrog/gofrog/io"
	"github.com/minio/sha256-simd"
	"github.com/pkg/errors"
)

// GetFileSha256 computes the lowercase hexadecimal SHA256 digest of the file
// at filePath. The digest doubles as the manifest integrity field, so it must
// be bit-reproducible for identical content.
func GetFileSha256(filePath string) (digest string, err error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", errors.Wrapf(err, "unable to read artifact '%s'", filePath)
	}
	defer ioutils.Close(file, &err)
	digest, err = CalcSha256(file)
	if err != nil {
		return "", errors.Wrapf(err, "unable to read artifact '%s'", filePath)
	}
	return digest, nil
}

// CalcSha256 streams the reader through a SHA256 hash. The input is read only once.
func CalcSha256(reader io.Reader) (string, error) {
	hasher := sha256.New()
	sizedReader := bufio.NewReaderSize(reader, os.Getpagesize())
	if _, err := io.Copy(hasher, sizedReader); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
