package repository

import (
	"context"

	"gorm.io/gorm"

	"shiftgrid/backend/internal/model"
)

// EmployeeRepository 员工数据访问接口
type EmployeeRepository interface {
	Create(ctx context.Context, emp *model.Employee) error
	GetByID(ctx context.Context, id int64) (*model.Employee, error)
	GetByCode(ctx context.Context, code string) (*model.Employee, error)
	List(ctx context.Context) ([]model.Employee, error)
	ListByDepartment(ctx context.Context, department string) ([]model.Employee, error)
	Update(ctx context.Context, emp *model.Employee) error
	UpdatePassword(ctx context.Context, id int64, password string) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	BulkInsert(ctx context.Context, emps []model.Employee) error
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实现
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, emp *model.Employee) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, id int64) (*model.Employee, error) {
	var emp model.Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&emp).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) GetByCode(ctx context.Context, code string) (*model.Employee, error) {
	var emp model.Employee
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&emp).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) List(ctx context.Context) ([]model.Employee, error) {
	var emps []model.Employee
	err := r.db.WithContext(ctx).Order("id ASC").Find(&emps).Error
	return emps, err
}

func (r *employeeRepo) ListByDepartment(ctx context.Context, department string) ([]model.Employee, error) {
	var emps []model.Employee
	err := r.db.WithContext(ctx).
		Where("department = ?", department).
		Order("id ASC").
		Find(&emps).Error
	return emps, err
}

func (r *employeeRepo) Update(ctx context.Context, emp *model.Employee) error {
	return r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("id = ?", emp.ID).
		Updates(map[string]interface{}{
			"code":       emp.Code,
			"name":       emp.Name,
			"department": emp.Department,
			"role":       emp.Role,
			"phone":      emp.Phone,
		}).Error
}

func (r *employeeRepo) UpdatePassword(ctx context.Context, id int64, password string) error {
	return r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("id = ?", id).
		Update("password", password).Error
}

func (r *employeeRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Employee{}).Error
}

func (r *employeeRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Employee{}).Error
}

func (r *employeeRepo) BulkInsert(ctx context.Context, emps []model.Employee) error {
	if len(emps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&emps).Error
}
