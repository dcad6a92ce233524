package models

// DesignMapping связывает код дизайна с общим названием изделия и каригаром по умолчанию.
type DesignMapping struct {
	DesignCode  string `json:"designCode" validate:"required"`
	GenericName string `json:"genericName"`
	KarigarName string `json:"karigarName"`
}

// Karigar мастер, которому назначаются заказы.
type Karigar struct {
	Name string `json:"name" validate:"required"`
}

// UnmappedGroup строка отчёта о заказах без разрешённого названия или каригара.
type UnmappedGroup struct {
	DesignCode         string   `json:"designCode"`
	Count              int      `json:"count"`
	MissingGenericName bool     `json:"missingGenericName"`
	MissingKarigarName bool     `json:"missingKarigarName"`
	OrderIDs           []string `json:"orderIds"`
}
