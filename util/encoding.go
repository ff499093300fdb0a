package util

import (
	"fmt"
	"regexp"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/qiniu/iconv"
)

// charsetPattern matches the charset attribute of the Content-Type
// field inside a raw catalog header.
var charsetPattern = regexp.MustCompile(`charset=([a-zA-Z0-9._-]+)`)

// DetectCharset returns the charset declared by the catalog header, or
// "UTF-8" when none is declared.
func DetectCharset(data []byte) string {
	if m := charsetPattern.FindSubmatch(data); m != nil {
		return string(m[1])
	}
	return "UTF-8"
}

// sameEncoding compares charset names ignoring case and dashes, so
// "UTF-8", "utf8" and "Utf-8" name one encoding.
func sameEncoding(enc1, enc2 string) bool {
	enc1 = strings.Replace(strings.ToLower(enc1), "-", "", -1)
	enc2 = strings.Replace(strings.ToLower(enc2), "-", "", -1)
	return enc1 == enc2
}

// ToUTF8 recodes data from the given charset to UTF-8. UTF-8 input is
// validated and returned unchanged.
func ToUTF8(charset string, data []byte) ([]byte, error) {
	if sameEncoding("utf-8", charset) {
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("bad UTF-8 characters")
		}
		return data, nil
	}
	cd, err := iconv.Open("utf-8", charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	defer cd.Close()

	var (
		converted []byte
		out       = make([]byte, 4096)
	)
	nLeft := len(data)
	for nLeft > 0 {
		nConv, left, err := cd.Do(data[len(data)-nLeft:], nLeft, out)
		converted = append(converted, out[:nConv]...)
		if err != nil && err != syscall.E2BIG {
			return nil, fmt.Errorf("bad %s characters: %w", charset, err)
		}
		if left == nLeft {
			return nil, fmt.Errorf("bad %s characters: conversion stalled", charset)
		}
		nLeft = left
	}
	return converted, nil
}

// CatalogToUTF8 converts raw catalog bytes to UTF-8 according to the
// charset declared in their header.
func CatalogToUTF8(data []byte) ([]byte, error) {
	return ToUTF8(DetectCharset(data), data)
}
