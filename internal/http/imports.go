package router

import (
	"net/http"

	"github.com/Renal37/karigar-desk/internal/middlewares"
	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ImportOrders принимает файл заказов и сразу отвечает 202 с идентификатором загрузки.
// Ход загрузки опрашивается через GET /api/imports/{importID}.
func ImportOrders(w http.ResponseWriter, r *http.Request) {
	upload := middlewares.GetUpload(w, r)
	importService := middlewares.GetServiceFromContext[models.ImportService](w, r, middlewares.ImportServiceKey)
	if upload == nil || importService == nil {
		return
	}

	status, err := (*importService).StartOrderImport(r.Context(), *upload, r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	operatorLog(r).Info("файл заказов принят", zap.String("importID", status.ID), zap.String("filename", upload.Filename))
	w.Header().Set("Location", "/api/imports/"+status.ID)
	middlewares.EncodeJSONResponse(w, http.StatusAccepted, status)
}

func GetImport(w http.ResponseWriter, r *http.Request) {
	importService := middlewares.GetServiceFromContext[models.ImportService](w, r, middlewares.ImportServiceKey)
	if importService == nil {
		return
	}

	status, err := (*importService).GetImport(chi.URLParam(r, "importID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusOK, status)
}

func ImportMappings(w http.ResponseWriter, r *http.Request) {
	upload := middlewares.GetUpload(w, r)
	importService := middlewares.GetServiceFromContext[models.ImportService](w, r, middlewares.ImportServiceKey)
	if upload == nil || importService == nil {
		return
	}

	result, err := (*importService).ImportMappings(r.Context(), *upload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	operatorLog(r).Info("справочник дизайнов загружен", zap.Int("imported", result.Imported))
	middlewares.EncodeJSONResponse(w, http.StatusOK, result)
}
