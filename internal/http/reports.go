package router

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Renal37/karigar-desk/internal/middlewares"
	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/Renal37/karigar-desk/internal/sheet"
)

// ExportOrders отдаёт файл целиком: при ошибке посередине клиент получит код ошибки, а не обрезанный файл.
func ExportOrders(w http.ResponseWriter, r *http.Request) {
	reportService := middlewares.GetServiceFromContext[models.ReportService](w, r, middlewares.ReportServiceKey)
	if reportService == nil {
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	var buf bytes.Buffer
	if err := (*reportService).ExportOrders(r.Context(), filter, format, &buf); err != nil {
		writeError(w, r, err)
		return
	}

	// формат уже проверен сервисом
	sheetFormat, _ := sheet.ParseFormat(format)
	filename := fmt.Sprintf("orders-%s.%s", time.Now().Format("2006-01-02"), sheetFormat)

	w.Header().Set("Content-Type", sheetFormat.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func DesignSummary(w http.ResponseWriter, r *http.Request) {
	reportService := middlewares.GetServiceFromContext[models.ReportService](w, r, middlewares.ReportServiceKey)
	if reportService == nil {
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := (*reportService).DesignSummary(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusOK, summary)
}
