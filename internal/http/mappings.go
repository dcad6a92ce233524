package router

import (
	"net/http"

	"github.com/Renal37/karigar-desk/internal/middlewares"
	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/go-chi/chi/v5"
)

func GetMappings(w http.ResponseWriter, r *http.Request) {
	mappingService := middlewares.GetServiceFromContext[models.MappingService](w, r, middlewares.MappingServiceKey)
	if mappingService == nil {
		return
	}

	mappings, err := (*mappingService).GetMappings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusOK, mappings)
}

// UpsertMapping код дизайна берётся из пути, тело задаёт название и каригара.
func UpsertMapping(w http.ResponseWriter, r *http.Request) {
	data := middlewares.GetParsedJSONData[models.DesignMapping](w, r)
	mappingService := middlewares.GetServiceFromContext[models.MappingService](w, r, middlewares.MappingServiceKey)
	if mappingService == nil {
		return
	}

	data.DesignCode = chi.URLParam(r, "code")
	saved, err := (*mappingService).UpsertMapping(r.Context(), data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusOK, saved)
}

func GetUnmapped(w http.ResponseWriter, r *http.Request) {
	mappingService := middlewares.GetServiceFromContext[models.MappingService](w, r, middlewares.MappingServiceKey)
	if mappingService == nil {
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := (*mappingService).UnmappedReport(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusOK, report)
}

func GetKarigars(w http.ResponseWriter, r *http.Request) {
	mappingService := middlewares.GetServiceFromContext[models.MappingService](w, r, middlewares.MappingServiceKey)
	if mappingService == nil {
		return
	}

	karigars, err := (*mappingService).GetKarigars(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusOK, karigars)
}

func AddKarigar(w http.ResponseWriter, r *http.Request) {
	data := middlewares.GetParsedJSONData[models.Karigar](w, r)
	mappingService := middlewares.GetServiceFromContext[models.MappingService](w, r, middlewares.MappingServiceKey)
	if mappingService == nil {
		return
	}

	if err := (*mappingService).AddKarigar(r.Context(), data); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
