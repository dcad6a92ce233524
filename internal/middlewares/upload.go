package middlewares

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/Renal37/karigar-desk/internal/models"
)

// MaxUploadSize ограничение на размер загружаемого файла.
const MaxUploadSize = 32 << 20

// uploadFormField имя поля multipart-формы с файлом.
const uploadFormField = "file"

type uploadFieldType string

const uploadField uploadFieldType = "uploadField"

// UploadMiddleware читает файл из multipart-формы (поле file) и кладёт его в контекст как models.Upload.
func UploadMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

		if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
			http.Error(w, fmt.Sprintf("Ожидается multipart-форма с файлом: %s", err.Error()), http.StatusBadRequest)
			return
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()

		file, header, err := r.FormFile(uploadFormField)
		if err != nil {
			http.Error(w, fmt.Sprintf("В форме нет поля %s: %s", uploadFormField, err.Error()), http.StatusBadRequest)
			return
		}
		defer file.Close()

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(file); err != nil {
			http.Error(w, fmt.Sprintf("Ошибка чтения файла: %s", err.Error()), http.StatusBadRequest)
			return
		}

		upload := models.Upload{Filename: header.Filename, Content: buf.Bytes()}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), uploadField, upload)))
	})
}

// GetUpload извлекает файл, положенный UploadMiddleware.
func GetUpload(w http.ResponseWriter, r *http.Request) *models.Upload {
	upload, ok := r.Context().Value(uploadField).(models.Upload)

	if !ok {
		http.Error(w, "Не удалось получить файл из контекста", http.StatusInternalServerError)
		return nil
	}

	return &upload
}
