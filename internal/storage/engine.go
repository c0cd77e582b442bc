package storage

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Predicate 查询条件，零值匹配所有行
type Predicate struct {
	clauses []string
	args    []any
}

// Where 创建条件，语法同 gorm 的 Where
func Where(query string, args ...any) Predicate {
	return Predicate{clauses: []string{query}, args: args}
}

// And 追加一个条件
func (p Predicate) And(query string, args ...any) Predicate {
	return Predicate{
		clauses: append(append([]string(nil), p.clauses...), query),
		args:    append(append([]any(nil), p.args...), args...),
	}
}

func (p Predicate) empty() bool {
	return len(p.clauses) == 0
}

func (p Predicate) apply(tx *gorm.DB) *gorm.DB {
	if p.empty() {
		return tx
	}
	parts := make([]string, len(p.clauses))
	for i, c := range p.clauses {
		parts[i] = "(" + c + ")"
	}
	return tx.Where(strings.Join(parts, " AND "), p.args...)
}

// Sort 排序字段
type Sort struct {
	Column string
	Desc   bool
}

func applySorts(tx *gorm.DB, sorts []Sort) *gorm.DB {
	for _, s := range sorts {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Column}, Desc: s.Desc})
	}
	return tx
}

// DataSource 针对实体类型 E 的通用增删改查，所有操作经由 DB 的执行循环。
// 写操作在事务中完成，失败时整体回滚。
type DataSource[E any] struct {
	db *DB
}

func NewDataSource[E any](db *DB) *DataSource[E] {
	return &DataSource[E]{db: db}
}

// read 失败一律是 *Error，排队时被取消也记为 FetchFailed，Unwrap 后是 ctx 的错误
func (s *DataSource[E]) read(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := s.db.exec.Do(ctx, func(ctx context.Context) error {
		return fn(s.db.gorm.WithContext(ctx))
	})
	if err != nil {
		return fetchError(err)
	}
	return nil
}

// write 排队时被取消则不执行，开始执行后不受取消影响。失败一律是 kind 对应的 *Error。
func (s *DataSource[E]) write(ctx context.Context, kind Kind, fn func(tx *gorm.DB) error) error {
	err := s.db.exec.Do(ctx, func(ctx context.Context) error {
		return s.db.gorm.WithContext(context.WithoutCancel(ctx)).Transaction(fn)
	})
	if err != nil {
		return wrapError(kind, err)
	}
	return nil
}

// FetchAll 全部实体
func (s *DataSource[E]) FetchAll(ctx context.Context) ([]E, error) {
	return s.FetchSorted(ctx, Predicate{})
}

// FetchByID 不存在时返回 ErrEntityNotFound
func (s *DataSource[E]) FetchByID(ctx context.Context, id any) (E, error) {
	var out E
	err := s.read(ctx, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).First(&out).Error
	})
	return out, err
}

// Fetch 满足条件的实体
func (s *DataSource[E]) Fetch(ctx context.Context, p Predicate) ([]E, error) {
	return s.FetchSorted(ctx, p)
}

// FetchSorted 满足条件的实体，按 sorts 排序
func (s *DataSource[E]) FetchSorted(ctx context.Context, p Predicate, sorts ...Sort) ([]E, error) {
	var out []E
	err := s.read(ctx, func(tx *gorm.DB) error {
		return applySorts(p.apply(tx), sorts).Find(&out).Error
	})
	return out, err
}

// FetchPage 分页读取，limit<=0 表示不限
func (s *DataSource[E]) FetchPage(ctx context.Context, p Predicate, limit, offset int, sorts ...Sort) ([]E, error) {
	var out []E
	err := s.read(ctx, func(tx *gorm.DB) error {
		q := applySorts(p.apply(tx), sorts)
		if limit > 0 {
			q = q.Limit(limit)
		}
		if offset > 0 {
			q = q.Offset(offset)
		}
		return q.Find(&out).Error
	})
	return out, err
}

// Save 插入，主键冲突时更新全部字段
func (s *DataSource[E]) Save(ctx context.Context, entity *E) error {
	return s.write(ctx, KindSaveFailed, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(entity).Error
	})
}

// SaveAll 批量 Save，同一批内主键不能重复
func (s *DataSource[E]) SaveAll(ctx context.Context, entities []E) error {
	if len(entities) == 0 {
		return nil
	}
	return s.write(ctx, KindSaveFailed, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&entities).Error
	})
}

// Update 按主键更新全部字段，行不存在时返回 ErrEntityNotFound
func (s *DataSource[E]) Update(ctx context.Context, entity *E) error {
	return s.write(ctx, KindSaveFailed, func(tx *gorm.DB) error {
		res := tx.Model(entity).Select("*").Updates(entity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEntityNotFound
		}
		return nil
	})
}

// Delete 按主键删除
func (s *DataSource[E]) Delete(ctx context.Context, entity *E) error {
	return s.write(ctx, KindDeleteFailed, func(tx *gorm.DB) error {
		return tx.Delete(entity).Error
	})
}

// DeleteWhere 删除满足条件的行，返回删除数量
func (s *DataSource[E]) DeleteWhere(ctx context.Context, p Predicate) (int64, error) {
	var affected int64
	err := s.write(ctx, KindDeleteFailed, func(tx *gorm.DB) error {
		res := p.apply(tx.Session(&gorm.Session{AllowGlobalUpdate: p.empty()})).Delete(new(E))
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

// DeleteAll 清空表
func (s *DataSource[E]) DeleteAll(ctx context.Context) (int64, error) {
	return s.DeleteWhere(ctx, Predicate{})
}

// Replace 在一个事务里删除满足条件的行并写入 entities
func (s *DataSource[E]) Replace(ctx context.Context, p Predicate, entities []E) error {
	return s.write(ctx, KindSaveFailed, func(tx *gorm.DB) error {
		if err := p.apply(tx.Session(&gorm.Session{AllowGlobalUpdate: p.empty()})).Delete(new(E)).Error; err != nil {
			return newError(KindDeleteFailed, err)
		}
		if len(entities) == 0 {
			return nil
		}
		return tx.Create(&entities).Error
	})
}

// Exists 按 id 判断是否存在
func (s *DataSource[E]) Exists(ctx context.Context, id any) (bool, error) {
	n, err := s.CountWhere(ctx, Where("id = ?", id))
	return n > 0, err
}

// ExistsWhere 是否有满足条件的行
func (s *DataSource[E]) ExistsWhere(ctx context.Context, p Predicate) (bool, error) {
	n, err := s.CountWhere(ctx, p)
	return n > 0, err
}

// Count 总行数
func (s *DataSource[E]) Count(ctx context.Context) (int64, error) {
	return s.CountWhere(ctx, Predicate{})
}

// CountWhere 满足条件的行数
func (s *DataSource[E]) CountWhere(ctx context.Context, p Predicate) (int64, error) {
	var n int64
	err := s.read(ctx, func(tx *gorm.DB) error {
		return p.apply(tx.Model(new(E))).Count(&n).Error
	})
	return n, err
}

// BatchUpdate 读出满足条件的实体，逐个调用 mutate 后写回，返回修改数量
func (s *DataSource[E]) BatchUpdate(ctx context.Context, p Predicate, mutate func(*E)) (int, error) {
	var n int
	err := s.write(ctx, KindSaveFailed, func(tx *gorm.DB) error {
		var items []E
		if err := p.apply(tx).Find(&items).Error; err != nil {
			return newError(KindFetchFailed, err)
		}
		for i := range items {
			mutate(&items[i])
			if err := tx.Save(&items[i]).Error; err != nil {
				return err
			}
		}
		n = len(items)
		return nil
	})
	return n, err
}
