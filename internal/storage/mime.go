package storage

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Office formats sniff as generic zip/ole containers, so the extension wins
// for these.
var extensionTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// DetectFileType resolves a MIME type for an upload, preferring the known
// document extensions and falling back to content sniffing.
func DetectFileType(filename string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if mime, ok := extensionTypes[ext]; ok {
		return mime
	}

	if detected := mimetype.Detect(data); detected != nil {
		return detected.String()
	}

	return "application/octet-stream"
}
