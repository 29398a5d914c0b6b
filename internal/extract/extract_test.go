package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateFile(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		size     int64
		wantExt  string
		wantErr  bool
	}{
		{"txt ok", "report.txt", 100, "txt", false},
		{"pdf ok", "scan.pdf", 100, "pdf", false},
		{"jpeg ok", "photo.JPEG", 100, "jpeg", false},
		{"png ok", "shot.png", MaxFileSize, "png", false},
		{"oversize", "report.txt", MaxFileSize + 1, "", true},
		{"exe rejected", "virus.exe", 10, "", true},
		{"no extension", "README", 10, "", true},
		{"docx rejected", "letter.docx", 10, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ext, err := ValidateFile(tc.filename, tc.size)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ValidateFile(%q, %d): expected error", tc.filename, tc.size)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateFile(%q, %d): %v", tc.filename, tc.size, err)
			}
			if ext != tc.wantExt {
				t.Errorf("ext = %q, want %q", ext, tc.wantExt)
			}
		})
	}
}

func TestValidateFileSentinels(t *testing.T) {
	if _, err := ValidateFile("tool.exe", 10); !errors.Is(err, ErrUnsupportedFile) {
		t.Errorf("err = %v, want ErrUnsupportedFile", err)
	}
	if _, err := ValidateFile("big.txt", MaxFileSize+1); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("err = %v, want ErrFileTooLarge", err)
	}
}

func TestTextVerbatimForTxt(t *testing.T) {
	content := "Patient: Jane Doe\nDiagnosis: seasonal allergies\n"
	got := Text("visit.txt", []byte(content))
	if got != content {
		t.Errorf("txt content altered: %q", got)
	}
}

func TestTextPlaceholders(t *testing.T) {
	img := Text("scan.jpg", []byte{0xFF, 0xD8})
	if !strings.Contains(img, "placeholder for OCR text extraction from images") {
		t.Errorf("image placeholder missing: %q", img)
	}
	pdf := Text("scan.pdf", []byte("%PDF-1.4"))
	if !strings.Contains(pdf, "placeholder for text extraction from PDFs") {
		t.Errorf("pdf placeholder missing: %q", pdf)
	}
	if img == pdf {
		t.Error("image and pdf placeholders must differ")
	}
}

func TestContentType(t *testing.T) {
	cases := map[string]string{
		"pdf":  "application/pdf",
		"jpg":  "image/jpeg",
		"jpeg": "image/jpeg",
		"png":  "image/png",
		"txt":  "text/plain",
		".PDF": "application/pdf",
	}
	for ext, want := range cases {
		if got := ContentType(ext); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", ext, got, want)
		}
	}
}
