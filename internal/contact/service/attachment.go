package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"paraiso/internal/contact/models"
	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/validation"
)

// allowedTypes maps each accepted sniffed type to its valid extensions.
var allowedTypes = map[string][]string{
	"application/pdf": {".pdf"},
	"image/jpeg":      {".jpg", ".jpeg"},
}

var maliciousSignatures = [][]byte{
	[]byte("<%eval"),
	[]byte("<%execute"),
	[]byte("<script>"),
	[]byte("javascript:"),
	[]byte("vbscript:"),
	[]byte(".exe\x00"),
	[]byte(".dll\x00"),
}

// InspectAttachment checks an uploaded file and returns it with its real
// content type and SHA-256 digest. The declared content type is ignored.
func InspectAttachment(filename string, content []byte) (*models.Attachment, error) {
	if len(content) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "No se pudo determinar el tipo de archivo")
	}
	if len(content) > validation.MaxUploadSize {
		return nil, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("El archivo excede el tamaño máximo permitido de %dMB", validation.MaxUploadSize/1024/1024))
	}

	contentType := sniff(content)
	extensions, ok := allowedTypes[contentType]
	if !ok {
		return nil, dErrors.New(dErrors.CodeValidation, "Tipo de archivo no permitido. Se permiten: application/pdf, image/jpeg")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(extensions, ext) {
		return nil, dErrors.New(dErrors.CodeValidation, "Extensión de archivo no válida para el tipo "+contentType)
	}

	lowered := bytes.ToLower(content)
	for _, sig := range maliciousSignatures {
		if bytes.Contains(lowered, sig) {
			return nil, dErrors.New(dErrors.CodeValidation, "Se detectó contenido potencialmente malicioso en el archivo")
		}
	}

	sum := sha256.Sum256(content)
	return &models.Attachment{
		Filename:    filepath.Base(filename),
		ContentType: contentType,
		Content:     content,
		SHA256:      hex.EncodeToString(sum[:]),
	}, nil
}

func sniff(content []byte) string {
	ct := http.DetectContentType(content)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return ct
}
