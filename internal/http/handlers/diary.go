package handlers

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lifeboard/internal/i18n"
	"lifeboard/internal/progress"
)

const multipartMemory = 8 << 20

func (a *App) ListDiary(w http.ResponseWriter, r *http.Request) {
	a.writeModule(w, r, progress.ModuleDiary)
}

// UploadDiary serves the multipart diary append: a "foto" file plus the
// text, mood and highlight fields. The photo type is sniffed from its bytes.
func (a *App) UploadDiary(w http.ResponseWriter, r *http.Request) {
	limit := a.MaxUploadBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	// room for the text fields and multipart framing
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, r, http.StatusRequestEntityTooLarge, "too_large", i18n.PhotoTooLarge)
			return
		}
		a.error(w, r, http.StatusBadRequest, "missing_photo", i18n.MissingPhoto)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := formFile(r, "foto", "photo")
	if err != nil {
		a.error(w, r, http.StatusBadRequest, "missing_photo", i18n.MissingPhoto)
		return
	}
	defer file.Close()
	if header.Size > limit {
		a.error(w, r, http.StatusRequestEntityTooLarge, "too_large", i18n.PhotoTooLarge)
		return
	}

	head := make([]byte, progress.SniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		a.error(w, r, http.StatusBadRequest, "missing_photo", i18n.MissingPhoto)
		return
	}
	head = head[:n]
	contentType := progress.SniffPhoto(head)
	if contentType == "" {
		a.error(w, r, http.StatusBadRequest, "unsupported_photo", i18n.UnsupportedPhoto)
		return
	}

	entry := progress.DiaryEntry{
		Text:      formValue(r, "texto", "text"),
		Mood:      formValue(r, "humor", "mood"),
		Highlight: formValue(r, "destaque", "highlight"),
	}
	photo := &progress.Photo{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        io.MultiReader(bytes.NewReader(head), file),
	}
	stored, err := a.Progress.AddDiaryEntry(r.Context(), a.currentUserID(r), entry, photo)
	if errors.Is(err, progress.ErrPhotoRequired) {
		a.error(w, r, http.StatusBadRequest, "missing_photo", i18n.MissingPhoto)
		return
	}
	if errors.Is(err, progress.ErrUnsupportedPhoto) {
		a.error(w, r, http.StatusBadRequest, "unsupported_photo", i18n.UnsupportedPhoto)
		return
	}
	if errors.Is(err, progress.ErrPhotoUpload) {
		a.Logger.Error().Err(err).Msg("diary photo upload failed")
		a.error(w, r, http.StatusInternalServerError, "upload_failed", i18n.UploadFailed)
		return
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, stored)
}

func (a *App) DeleteDiaryEntry(w http.ResponseWriter, r *http.Request) {
	if _, err := a.Progress.RemoveDiaryEntry(r.Context(), a.currentUserID(r), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	a.message(w, r, http.StatusOK, i18n.Deleted)
}

func formFile(r *http.Request, names ...string) (multipart.File, *multipart.FileHeader, error) {
	var lastErr error
	for _, name := range names {
		file, header, err := r.FormFile(name)
		if err == nil {
			return file, header, nil
		}
		lastErr = err
	}
	return nil, nil, lastErr
}

func formValue(r *http.Request, names ...string) string {
	for _, name := range names {
		if v := r.FormValue(name); v != "" {
			return v
		}
	}
	return ""
}
