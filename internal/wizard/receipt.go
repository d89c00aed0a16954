package wizard

import (
	"github.com/flexprice/adminconsole/internal/domain/assignment"
	ierr "github.com/flexprice/adminconsole/internal/errors"
	"github.com/h2non/filetype"
	"github.com/samber/lo"
)

// AllowedReceiptTypes are the MIME types accepted for payment receipts
var AllowedReceiptTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
}

// ValidateReceiptFile checks size and sniffed content type. The declared
// content type of the upload is ignored.
func ValidateReceiptFile(fileName string, data []byte, maxBytes int64) (*assignment.Receipt, error) {
	if len(data) == 0 {
		return nil, ierr.NewError("receipt file is empty").
			WithHint("The receipt file is empty").
			Mark(ierr.ErrValidation)
	}

	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ierr.NewErrorf("receipt file is %d bytes, limit is %d", len(data), maxBytes).
			WithHintf("The receipt file must not exceed %d MB", maxBytes>>20).
			WithReportableDetails(map[string]any{
				"size":      len(data),
				"max_bytes": maxBytes,
			}).
			Mark(ierr.ErrValidation)
	}

	kind, err := filetype.Match(data)
	if err != nil || !lo.Contains(AllowedReceiptTypes, kind.MIME.Value) {
		return nil, ierr.NewErrorf("receipt file type %q is not allowed", kind.MIME.Value).
			WithHint("The receipt must be a PDF, JPEG or PNG file").
			WithReportableDetails(map[string]any{
				"file_name": fileName,
				"mime":      kind.MIME.Value,
			}).
			Mark(ierr.ErrValidation)
	}

	return &assignment.Receipt{
		FileName:    fileName,
		ContentType: kind.MIME.Value,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
