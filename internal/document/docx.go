package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

// extractDocx reads the WordprocessingML body. Top-level paragraphs come first,
// then every table row with its cells joined by " | ", blocks separated by a
// blank line.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx container: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != docxBody {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", docxBody, err)
		}
		defer rc.Close()

		return walkBody(rc)
	}

	return "", fmt.Errorf("%s not found", docxBody)
}

type bodyWalker struct {
	paragraphs []string
	rows       []string

	para       strings.Builder
	inText     bool
	tableDepth int
	cellParas  []string
	row        []string
}

func walkBody(r io.Reader) (string, error) {
	w := &bodyWalker{}
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", docxBody, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			w.start(t.Name.Local)
		case xml.EndElement:
			w.end(t.Name.Local)
		case xml.CharData:
			if w.inText {
				w.para.Write(t)
			}
		}
	}

	blocks := append(w.paragraphs, w.rows...)
	return strings.Join(blocks, "\n\n"), nil
}

func (w *bodyWalker) start(name string) {
	switch name {
	case "tbl":
		w.tableDepth++
	case "tr":
		if w.tableDepth == 1 {
			w.row = nil
		}
	case "tc":
		if w.tableDepth == 1 {
			w.cellParas = nil
		}
	case "p":
		w.para.Reset()
	case "t":
		w.inText = true
	case "tab":
		w.para.WriteString("\t")
	case "br", "cr":
		w.para.WriteString("\n")
	}
}

func (w *bodyWalker) end(name string) {
	switch name {
	case "t":
		w.inText = false
	case "p":
		text := strings.TrimSpace(w.para.String())
		w.para.Reset()
		if w.tableDepth > 0 {
			w.cellParas = append(w.cellParas, text)
		} else if text != "" {
			w.paragraphs = append(w.paragraphs, text)
		}
	case "tc":
		if w.tableDepth == 1 {
			if cell := strings.TrimSpace(strings.Join(w.cellParas, "\n")); cell != "" {
				w.row = append(w.row, cell)
			}
			w.cellParas = nil
		}
	case "tr":
		if w.tableDepth == 1 && len(w.row) > 0 {
			w.rows = append(w.rows, strings.Join(w.row, " | "))
			w.row = nil
		}
	case "tbl":
		if w.tableDepth > 0 {
			w.tableDepth--
		}
	}
}
