package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Part はmultipartのテキストフィールドです
type Part struct {
	Name  string
	Value string
}

// File はmultipartのファイルフィールドです
// Reader が設定されていればそれを、なければ Path のファイルを読みます
type File struct {
	Field    string
	Path     string
	Filename string
	Reader   io.Reader
}

func (f File) filename() string {
	if f.Filename != "" {
		return f.Filename
	}
	if f.Path != "" {
		return filepath.Base(f.Path)
	}
	return "upload"
}

// encodeMultipart はテキストとファイルを1つのボディにまとめます
// Content-Typeは先頭512バイトから判定します
func encodeMultipart(parts []Part, files []File) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, p := range parts {
		if err := w.WriteField(p.Name, p.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", p.Name, err)
		}
	}

	for _, f := range files {
		if err := writeFile(w, f); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, f File) error {
	r := f.Reader
	if r == nil {
		file, err := os.Open(f.Path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", f.Path, err)
		}
		defer file.Close()
		r = file
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("failed to read %s: %w", f.filename(), err)
	}
	head = head[:n]

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.filename())))
	h.Set("Content-Type", http.DetectContentType(head))

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create part %s: %w", f.Field, err)
	}
	if _, err := io.Copy(part, io.MultiReader(bytes.NewReader(head), r)); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.filename(), err)
	}
	return nil
}
