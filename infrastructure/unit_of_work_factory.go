package infrastructure

import (
	"liarsdice/application"
	"liarsdice/database"
	"liarsdice/domain/interfaces"
	"liarsdice/repository"
)

// UnitOfWorkFactory implements application.UnitOfWorkFactory. Each unit of
// work gets its own transactional publisher in front of eventPublisher.
type UnitOfWorkFactory struct {
	repoFactory interface {
		CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork
	}
	eventPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory. A nil eventPublisher drops committed events.
func NewUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	if eventPublisher == nil {
		eventPublisher = NewNoopEventPublisher()
	}
	return &UnitOfWorkFactory{
		repoFactory:    repository.NewUnitOfWorkFactory(db),
		eventPublisher: eventPublisher,
	}
}

// Create creates a new UnitOfWork with a transactional event publisher
func (f *UnitOfWorkFactory) Create() application.UnitOfWork {
	return f.repoFactory.CreateWithPublisher(NewNATSTransactionalPublisher(f.eventPublisher))
}
