package storage

import (
	"strings"

	"github.com/google/uuid"

	"lifeboard/internal/progress"
)

var (
	defaultKeyID = uuid.NewString
	newKeyID     = defaultKeyID
)

// photoKey builds the object key of a diary photo: diary/<user>/<uuid><ext>.
// The extension follows the sniffed content type; the client's file name is
// never used.
func photoKey(userID string, photo progress.Photo) string {
	ext, _ := progress.PhotoExtension(photo.ContentType)
	owner := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(userID)
	return "diary/" + owner + "/" + newKeyID() + ext
}
