package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-admin/pkg/db"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
	"github.com/angelmondragon/storefront-admin/pkg/pagination"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
	"gorm.io/gorm"
)

// Transactor is the slice of the database client the services rely on.
type Transactor interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Page is one index result.
type Page[M any] struct {
	Items []M
	Meta  pagination.Meta
}

// Service is the uniform admin contract: index, show, store, update,
// destroy, trash, restore and force delete.
type Service[M, C, U any] interface {
	Index(ctx context.Context, q Query) (Page[M], error)
	Show(ctx context.Context, id uint) (*M, error)
	Store(ctx context.Context, in C) (*M, error)
	Update(ctx context.Context, id uint, in U) (*M, error)
	Destroy(ctx context.Context, id uint) error
	Trash(ctx context.Context) ([]M, error)
	Restore(ctx context.Context, id uint) error
	ForceDelete(ctx context.Context, id uint) error
	Descriptor() Descriptor
}

// Hooks adapt the generic lifecycle to one entity. Build and Apply are
// required; the others are optional. Every hook runs inside the write
// transaction; hooks that store or replace files register the paths with
// RemoveOnRollback and RemoveAfterCommit.
type Hooks[M, C, U any] struct {
	Build             func(ctx context.Context, tx *gorm.DB, in C) (*M, error)
	Apply             func(ctx context.Context, tx *gorm.DB, m *M, in U) error
	AfterSave         func(ctx context.Context, tx *gorm.DB, m *M) error
	BeforeForceDelete func(ctx context.Context, tx *gorm.DB, m *M) error
}

// Params groups dependencies for a resource service.
type Params[M, C, U any] struct {
	DB             Transactor
	Descriptor     Descriptor
	Hooks          Hooks[M, C, U]
	DefaultPerPage int
	MaxPerPage     int
	// Files receives deletions queued by hooks. Optional.
	Files  storage.Store
	Logger *logger.Logger
}

type service[M, C, U any] struct {
	tx             Transactor
	repo           *Repository[M]
	hooks          Hooks[M, C, U]
	defaultPerPage int
	maxPerPage     int
	files          storage.Store
	logg           *logger.Logger
}

// NewService builds a resource service from its descriptor and hooks.
func NewService[M, C, U any](params Params[M, C, U]) (Service[M, C, U], error) {
	if params.DB == nil {
		return nil, fmt.Errorf("%s: database is required", params.Descriptor.Name)
	}
	if params.Hooks.Build == nil || params.Hooks.Apply == nil {
		return nil, fmt.Errorf("%s: build and apply hooks are required", params.Descriptor.Name)
	}
	return &service[M, C, U]{
		tx:             params.DB,
		repo:           NewRepository[M](params.DB.DB(), params.Descriptor),
		hooks:          params.Hooks,
		defaultPerPage: params.DefaultPerPage,
		maxPerPage:     params.MaxPerPage,
		files:          params.Files,
		logg:           params.Logger,
	}, nil
}

func (s *service[M, C, U]) Descriptor() Descriptor {
	return s.repo.Descriptor()
}

func (s *service[M, C, U]) name() string {
	return s.repo.desc.Name
}

func (s *service[M, C, U]) Index(ctx context.Context, q Query) (Page[M], error) {
	q.Page = q.Page.Normalize(s.defaultPerPage, s.maxPerPage)
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return Page[M]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list "+s.name())
	}
	return Page[M]{Items: items, Meta: pagination.NewMeta(q.Page, total)}, nil
}

func (s *service[M, C, U]) Show(ctx context.Context, id uint) (*M, error) {
	m, err := s.repo.FindDetailed(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, "load")
	}
	return m, nil
}

// write runs fn in a transaction and settles the files its hooks queued.
func (s *service[M, C, U]) write(ctx context.Context, fn func(ctx context.Context, tx *gorm.DB) error) error {
	ctx, pending := withPendingFiles(ctx)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(ctx, tx)
	})
	pending.settle(ctx, s.files, s.logg, err == nil)
	return err
}

func (s *service[M, C, U]) Store(ctx context.Context, in C) (*M, error) {
	var created *M
	err := s.write(ctx, func(ctx context.Context, tx *gorm.DB) error {
		m, err := s.hooks.Build(ctx, tx, in)
		if err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).Create(ctx, m); err != nil {
			return s.writeError(err, "db: insert")
		}
		if s.hooks.AfterSave != nil {
			if err := s.hooks.AfterSave(ctx, tx, m); err != nil {
				return err
			}
		}
		created = m
		return nil
	})
	if err != nil {
		return nil, s.passThrough(err, "create")
	}
	if err := s.repo.Reload(ctx, created); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload "+s.name())
	}
	return created, nil
}

func (s *service[M, C, U]) Update(ctx context.Context, id uint, in U) (*M, error) {
	var updated *M
	err := s.write(ctx, func(ctx context.Context, tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		m, err := repo.FindByID(ctx, id)
		if err != nil {
			return s.lookupError(err, "load")
		}
		if err := s.hooks.Apply(ctx, tx, m, in); err != nil {
			return err
		}
		if err := repo.Save(ctx, m); err != nil {
			return s.writeError(err, "db: update")
		}
		if s.hooks.AfterSave != nil {
			if err := s.hooks.AfterSave(ctx, tx, m); err != nil {
				return err
			}
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, s.passThrough(err, "update")
	}
	if err := s.repo.Reload(ctx, updated); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload "+s.name())
	}
	return updated, nil
}

func (s *service[M, C, U]) Destroy(ctx context.Context, id uint) error {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.lookupError(err, "load")
	}
	if err := s.repo.Delete(ctx, m); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete "+s.name())
	}
	return nil
}

func (s *service[M, C, U]) Trash(ctx context.Context) ([]M, error) {
	if !s.repo.desc.SoftDelete {
		return []M{}, nil
	}
	items, err := s.repo.ListTrashed(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list trashed "+s.name())
	}
	return items, nil
}

func (s *service[M, C, U]) Restore(ctx context.Context, id uint) error {
	if !s.repo.desc.SoftDelete {
		return pkgerrors.New(pkgerrors.CodeNotFound, s.name()+" not found in trash")
	}
	if err := s.repo.Restore(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, s.name()+" not found in trash")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore "+s.name())
	}
	return nil
}

func (s *service[M, C, U]) ForceDelete(ctx context.Context, id uint) error {
	err := s.write(ctx, func(ctx context.Context, tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		m, err := repo.FindAny(ctx, id)
		if err != nil {
			return s.lookupError(err, "load")
		}
		if s.hooks.BeforeForceDelete != nil {
			if err := s.hooks.BeforeForceDelete(ctx, tx, m); err != nil {
				return err
			}
		}
		if err := repo.ForceDelete(ctx, m); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: force delete")
		}
		return nil
	})
	return s.passThrough(err, "force delete")
}

func (s *service[M, C, U]) lookupError(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.NotFound(s.name())
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op+" "+s.name())
}

func (s *service[M, C, U]) writeError(err error, op string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, s.name()+" already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

// passThrough keeps typed errors raised by hooks and wraps anything else.
func (s *service[M, C, U]) passThrough(err error, op string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op+" "+s.name())
}
