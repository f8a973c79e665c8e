package http

import (
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/vidyasetu/exam-portal/internal/storage"
)

// POST /api/uploads/image — multipart field "image"; returns the blob key
// and the public URL the print renderer will use.
func UploadImageHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("image")
		if err != nil {
			http.Error(w, "image required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		ext := strings.ToLower(path.Ext(hdr.Filename))
		switch ext {
		case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp":
		default:
			http.Error(w, "unsupported image type: "+ext, http.StatusBadRequest)
			return
		}

		key := "uploads/images/" + uuid.NewString() + ext
		if _, err := bs.Put(key, f); err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{"key": key, "url": "/assets/" + key})
	}
}
