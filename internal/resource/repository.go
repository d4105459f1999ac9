package resource

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the persistence surface shared by every admin resource.
type Repository[M any] struct {
	db   *gorm.DB
	desc Descriptor
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository[M any](db *gorm.DB, desc Descriptor) *Repository[M] {
	return &Repository[M]{db: db, desc: desc}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository[M]) WithTx(tx *gorm.DB) *Repository[M] {
	return &Repository[M]{db: tx, desc: r.desc}
}

func (r *Repository[M]) Descriptor() Descriptor {
	return r.desc
}

func (r *Repository[M]) filtered(ctx context.Context, q Query) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(new(M))
	tx = r.desc.applySearch(tx, q.Keyword)
	return r.desc.applyFilters(tx, q.Filters)
}

// List returns one page of active rows and the total matching count.
func (r *Repository[M]) List(ctx context.Context, q Query) ([]M, int64, error) {
	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]M, 0, q.Page.PerPage)
	if total == 0 {
		return items, 0, nil
	}
	err := r.desc.applyPreloads(r.filtered(ctx, q)).
		Order(r.desc.order()).
		Offset(q.Page.Offset()).
		Limit(q.Page.PerPage).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindByID loads an active row without associations.
func (r *Repository[M]) FindByID(ctx context.Context, id uint) (*M, error) {
	var m M
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindDetailed loads an active row with its configured associations.
func (r *Repository[M]) FindDetailed(ctx context.Context, id uint) (*M, error) {
	var m M
	if err := r.desc.applyPreloads(r.db.WithContext(ctx)).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindAny loads a row regardless of its deletion marker.
func (r *Repository[M]) FindAny(ctx context.Context, id uint) (*M, error) {
	var m M
	if err := r.db.WithContext(ctx).Unscoped().First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// Reload refreshes m in place, associations included. m must carry its id.
func (r *Repository[M]) Reload(ctx context.Context, m *M) error {
	return r.desc.applyPreloads(r.db.WithContext(ctx)).First(m).Error
}

// ListTrashed returns every soft-deleted row, most recently deleted first.
func (r *Repository[M]) ListTrashed(ctx context.Context) ([]M, error) {
	items := make([]M, 0)
	err := r.desc.applyPreloads(r.db.WithContext(ctx).Unscoped()).
		Where(r.desc.column("deleted_at") + " IS NOT NULL").
		Order(r.desc.column("deleted_at") + " DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts m. Associations are written by the caller.
func (r *Repository[M]) Create(ctx context.Context, m *M) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error
}

// Save writes every column of m.
func (r *Repository[M]) Save(ctx context.Context, m *M) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error
}

// Delete soft-deletes m when the model carries a deletion marker and removes
// the row otherwise.
func (r *Repository[M]) Delete(ctx context.Context, m *M) error {
	return r.db.WithContext(ctx).Delete(m).Error
}

// Restore clears the deletion marker of a trashed row. It reports
// gorm.ErrRecordNotFound when no trashed row has that id.
func (r *Repository[M]) Restore(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Unscoped().Model(new(M)).
		Where(r.desc.column("id")+" = ? AND "+r.desc.column("deleted_at")+" IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ForceDelete removes m permanently.
func (r *Repository[M]) ForceDelete(ctx context.Context, m *M) error {
	return r.db.WithContext(ctx).Unscoped().Delete(m).Error
}

// Count returns the number of active rows.
func (r *Repository[M]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(new(M)).Count(&n).Error
	return n, err
}
