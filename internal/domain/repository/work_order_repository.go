package repository

import (
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// WorkOrderRepository persistencia de órdenes de producción.
type WorkOrderRepository interface {
	GetByID(id string) (*entity.WorkOrder, error)
	// GetForUpdate obtiene y bloquea la orden (SELECT FOR UPDATE): serializa
	// envíos concurrentes contra la misma orden.
	GetForUpdate(id string) (*entity.WorkOrder, error)
	// UpdateStatus avanza el estado (solo hacia adelante; completed es terminal).
	UpdateStatus(id, status string, completedAt *time.Time) error
}

// RoutingRepository lectura de rutas de producción (inmutables, versionadas).
type RoutingRepository interface {
	GetByID(id string) (*entity.Routing, error)
}

// WorkCenterRepository lectura de centros de trabajo y sus tarifas.
type WorkCenterRepository interface {
	GetByID(id string) (*entity.WorkCenter, error)
}
