package services

import (
	"time"

	"github.com/Renal37/karigar-desk/internal/database"
	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/Renal37/karigar-desk/internal/utils"
)

func orderToDB(o models.Order) database.OrderDB {
	var orderDate *time.Time
	if o.OrderDate != nil {
		t := o.OrderDate.UTC()
		orderDate = &t
	}

	return database.OrderDB{
		ID:          o.OrderID,
		OrderNo:     o.OrderNo,
		OrderType:   string(o.OrderType),
		Product:     o.Product,
		Design:      o.Design,
		Weight:      o.Weight,
		Size:        o.Size,
		Quantity:    o.Quantity,
		Remarks:     o.Remarks,
		Status:      database.OrderStatusDB{OrderStatus: o.Status},
		GenericName: o.GenericName,
		KarigarName: o.KarigarName,
		OrderDate:   orderDate,
		CreatedAt:   o.CreatedAt.UTC(),
		UpdatedAt:   o.UpdatedAt.UTC(),
	}
}

func orderFromDB(o database.OrderDB) models.Order {
	var orderDate *time.Time
	if o.OrderDate != nil {
		t := o.OrderDate.UTC()
		orderDate = &t
	}

	return models.Order{
		OrderID:     o.ID,
		OrderNo:     o.OrderNo,
		OrderType:   models.OrderType(o.OrderType),
		Product:     o.Product,
		Design:      o.Design,
		Weight:      o.Weight,
		Size:        o.Size,
		Quantity:    o.Quantity,
		Remarks:     o.Remarks,
		Status:      o.Status.OrderStatus,
		GenericName: o.GenericName,
		KarigarName: o.KarigarName,
		OrderDate:   utils.DatePtr(orderDate),
		CreatedAt:   utils.RFC3339Date{Time: o.CreatedAt.UTC()},
		UpdatedAt:   utils.RFC3339Date{Time: o.UpdatedAt.UTC()},
	}
}

func mappingFromDB(m database.DesignMappingDB) models.DesignMapping {
	return models.DesignMapping{
		DesignCode:  m.DesignCode,
		GenericName: m.GenericName,
		KarigarName: m.KarigarName,
	}
}

func mappingToDB(m models.DesignMapping) database.DesignMappingDB {
	return database.DesignMappingDB{
		DesignCode:  m.DesignCode,
		GenericName: m.GenericName,
		KarigarName: m.KarigarName,
	}
}
